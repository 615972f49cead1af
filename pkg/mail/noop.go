package mail

import (
	"context"

	"github.com/oharrington/thirdline-backend/pkg/logger"
)

// NoopSender logs instead of dispatching; used when no API key is configured.
type NoopSender struct {
	logg *logger.Logger
}

func NewNoopSender(logg *logger.Logger) *NoopSender {
	return &NoopSender{logg: logg}
}

func (s *NoopSender) Send(ctx context.Context, msg Message) error {
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"to":      msg.ToEmail,
			"subject": msg.Subject,
		})
		s.logg.Info(ctx, "mail dispatch skipped (noop sender)")
	}
	return nil
}

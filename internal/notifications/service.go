package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/oharrington/thirdline-backend/pkg/enums"
	pkgerrors "github.com/oharrington/thirdline-backend/pkg/errors"
	"github.com/oharrington/thirdline-backend/pkg/logger"
	"github.com/oharrington/thirdline-backend/pkg/mail"
)

// Notice is one workflow notification fanned out to configured recipients.
type Notice struct {
	TenantID uuid.UUID
	Purpose  enums.NotificationPurpose
	Region   *string
	Subject  string
	HTMLBody string
	TextBody string
}

// Service fans workflow notices out to configured recipients.
type Service interface {
	Notify(ctx context.Context, notice Notice) (int, error)
	ResolveLabel(ctx context.Context, tenantID uuid.UUID, listKey, code string) (string, error)
	CodeInList(ctx context.Context, tenantID uuid.UUID, listKey, code string) (bool, error)
}

type service struct {
	repo   Repository
	sender mail.Sender
	logg   *logger.Logger
}

// NewService wires a notification service.
func NewService(repo Repository, sender mail.Sender, logg *logger.Logger) (Service, error) {
	if repo == nil || sender == nil || logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification repository, sender and logger required")
	}
	return &service{repo: repo, sender: sender, logg: logg}, nil
}

// Notify sends the notice to every configured recipient and reports how many
// sends succeeded. Individual transport failures are logged and skipped; a
// notice with no configured recipients is a quiet no-op.
func (s *service) Notify(ctx context.Context, notice Notice) (int, error) {
	if notice.TenantID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if !notice.Purpose.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification purpose")
	}

	recipients, err := s.repo.ListRecipients(ctx, notice.TenantID, notice.Purpose, notice.Region)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading notification recipients")
	}
	if len(recipients) == 0 {
		s.logg.Debug(ctx, fmt.Sprintf("no recipients configured for purpose %s", notice.Purpose))
		return 0, nil
	}

	sent := 0
	for _, recipient := range recipients {
		err := s.sender.Send(ctx, mail.Message{
			ToEmail:  recipient.Email,
			Subject:  notice.Subject,
			HTMLBody: notice.HTMLBody,
			TextBody: notice.TextBody,
		})
		if err != nil {
			s.logg.Error(ctx, fmt.Sprintf("failed to send notice to %s", recipient.Email), err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *service) ResolveLabel(ctx context.Context, tenantID uuid.UUID, listKey, code string) (string, error) {
	label, err := s.repo.LabelFor(ctx, tenantID, listKey, code)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving list label")
	}
	return label, nil
}

func (s *service) CodeInList(ctx context.Context, tenantID uuid.UUID, listKey, code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	member, err := s.repo.CodeInList(ctx, tenantID, listKey, code)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking list membership")
	}
	return member, nil
}

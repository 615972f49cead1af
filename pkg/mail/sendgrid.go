package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oharrington/thirdline-backend/pkg/config"
)

const sendgridSendURL = "https://api.sendgrid.com/v3/mail/send"

// SendgridSender posts messages to the Sendgrid v3 mail API.
type SendgridSender struct {
	apiKey   string
	from     sgAddress
	endpoint string
	client   *http.Client
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgPayload struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

// NewSendgridSender builds a Sendgrid sender from mail configuration.
func NewSendgridSender(cfg config.MailConfig) (*SendgridSender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	return &SendgridSender{
		apiKey:   cfg.SendgridAPIKey,
		from:     sgAddress{Email: cfg.DefaultFrom, Name: cfg.DefaultName},
		endpoint: sendgridSendURL,
		client:   &http.Client{Timeout: cfg.SendTimeout},
	}, nil
}

func (s *SendgridSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return fmt.Errorf("recipient email is required")
	}

	payload := sgPayload{
		Personalizations: []sgPersonalization{{
			To: []sgAddress{{Email: msg.ToEmail, Name: msg.ToName}},
		}},
		From:    s.from,
		Subject: msg.Subject,
	}
	if msg.TextBody != "" {
		payload.Content = append(payload.Content, sgContent{Type: "text/plain", Value: msg.TextBody})
	}
	if msg.HTMLBody != "" {
		payload.Content = append(payload.Content, sgContent{Type: "text/html", Value: msg.HTMLBody})
	}
	if len(payload.Content) == 0 {
		return fmt.Errorf("message body is required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

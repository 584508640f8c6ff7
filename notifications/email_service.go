package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// Mailer delivers transactional email. SendEmail never fails loudly: delivery
// problems are logged and the caller carries on.
type Mailer interface {
	SendEmail(toName, toEmail, subject, htmlContent string)
}

// Discard drops every email. It is used when Brevo is not configured.
type Discard struct{}

func (Discard) SendEmail(toName, toEmail, subject, htmlContent string) {}

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string

	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func NewEmailService(apiKey, senderEmail, senderName string, logger *zap.Logger) Mailer {
	if apiKey == "" || senderEmail == "" || senderName == "" {
		logger.Warn("email service not configured, emails will be discarded")
		return Discard{}
	}

	logger.Info("email service initialized", zap.String("sender", senderEmail))
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		endpoint:    brevoEndpoint,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

func (s *BrevoService) send(toEmail, toName, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("brevo returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (s *BrevoService) SendEmail(toName, toEmail, subject, htmlContent string) {
	if err := s.send(toEmail, toName, subject, htmlContent); err != nil {
		s.logger.Error("failed to send email", zap.String("to", toEmail), zap.String("subject", subject), zap.Error(err))
		return
	}

	s.logger.Info("email sent", zap.String("to", toEmail), zap.String("subject", subject))
}

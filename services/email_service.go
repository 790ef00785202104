// Package services holds the outbound integrations of the application.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"text/template"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"

	"github.com/jwhitmore/portfolio-backend/config"
	"github.com/jwhitmore/portfolio-backend/logger"
	"github.com/jwhitmore/portfolio-backend/types"
)

// DefaultSubject is used when the submitter leaves the subject blank.
const DefaultSubject = "New Portfolio Contact"

// EmailSender is the narrow capability the contact pipeline needs from the
// email integration. Tests substitute a fake that records calls.
type EmailSender interface {
	SendContactEmail(ctx context.Context, msg *types.Message) error
}

// ProviderError is returned when the email provider accepted the API call but
// reported a delivery-level failure. It is distinct from transport errors
// (network, timeout, cancellation), which are returned as-is.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("resend: %s", e.Message)
}

// emailsAPI is the slice of the Resend client used by the service, injectable
// for tests.
type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService sends contact emails through Resend.
type EmailService struct {
	config  *config.EmailConfig
	emails  emailsAPI
	metrics *EmailMetrics
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"from", cfg.FromAddress,
		"recipient", logger.MaskEmail(cfg.Recipient))

	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_email_send_duration_seconds",
			Help:    "Time taken to send contact emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_emails_sent_total",
			Help: "Total number of contact emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:  cfg,
		emails:  client.Emails,
		metrics: metrics,
	}
}

// SendContactEmail delivers one contact message to the configured recipient
// with reply-to set to the submitter. Message fields arrive already
// HTML-escaped by the pipeline, so the body template interpolates them
// verbatim.
func (s *EmailService) SendContactEmail(ctx context.Context, msg *types.Message) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	subject := msg.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	tmpl, err := template.New("contact").Parse(contactEmailTemplate)
	if err != nil {
		s.metrics.errorCount.Inc()
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var htmlContent bytes.Buffer
	data := map[string]string{
		"FirstName": msg.FirstName,
		"LastName":  msg.LastName,
		"Email":     msg.Email,
		"Subject":   subject,
		"Message":   msg.Body,
	}
	if err := tmpl.Execute(&htmlContent, data); err != nil {
		s.metrics.errorCount.Inc()
		return fmt.Errorf("failed to execute template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{s.config.Recipient},
		ReplyTo: msg.Email,
		Subject: subject,
		Html:    htmlContent.String(),
	}

	_, err = s.emails.SendWithContext(ctx, params)
	if err != nil {
		s.metrics.errorCount.Inc()
		if isTransportError(err) {
			return fmt.Errorf("email send failed: %w", err)
		}
		// The API call completed but Resend reported a delivery-level
		// failure in its response payload.
		return &ProviderError{Message: err.Error()}
	}

	s.metrics.sentCount.Inc()
	log.Infow("Contact email sent",
		"reply_to", logger.MaskEmail(msg.Email),
		"subject", subject)

	return nil
}

// isTransportError reports whether err came from the HTTP transport rather
// than from a provider response.
func isTransportError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

const contactEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Portfolio Contact</title>
</head>
<body style="font-family: sans-serif; color: #333333; margin: 0; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto;">
        <h2 style="border-bottom: 1px solid #dddddd; padding-bottom: 8px;">{{.Subject}}</h2>
        <p><strong>From:</strong> {{.FirstName}} {{.LastName}}</p>
        <p><strong>Email:</strong> {{.Email}}</p>
        <p style="white-space: pre-wrap; background-color: #f7f7f7; padding: 16px; border-radius: 8px;">{{.Message}}</p>
    </div>
</body>
</html>`

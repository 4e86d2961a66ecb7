package notification

import (
	"context"
	"log/slog"
)

// Template identifiers for the mails this service knows how to render.
const (
	TemplateVerifyAccount = "verify-account"
	TemplateVerifyCode    = "verify-code"
	TemplateResetPassword = "reset-password"
)

// Message is the universal object used to send any notification.
type Message struct {
	Template      string
	Recipients    []string
	Substitutions map[string]string
}

// Sender delivers a single rendered mail to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Service is the main interface for the notification system.
// Send is fire-and-forget: delivery failures are logged, never surfaced,
// so a slow or broken mail server can never fail a request.
type Service interface {
	Send(ctx context.Context, msg Message)
}

// service is the concrete implementation.
type service struct {
	log         *slog.Logger
	emailSender Sender
}

// NewService creates a new notification service.
func NewService(log *slog.Logger, emailSender Sender) Service {
	return &service{
		log:         log,
		emailSender: emailSender,
	}
}

// Send renders the template and dispatches one mail per recipient in the
// background. It returns immediately.
func (s *service) Send(ctx context.Context, msg Message) {
	subject, body, err := render(msg.Template, msg.Substitutions)
	if err != nil {
		s.log.Error("failed to render notification template", "template", msg.Template, "error", err)
		return
	}

	for _, recipient := range msg.Recipients {
		go func(to string) {
			s.log.Info("dispatching email notification", "template", msg.Template, "recipient", to)
			if err := s.emailSender.Send(context.WithoutCancel(ctx), to, subject, body); err != nil {
				// We can't return an error here, so we must log it for monitoring.
				s.log.Error("failed to send notification", "template", msg.Template, "recipient", to, "error", err)
			}
		}(recipient)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chipin/internal/domain"
)

const groupInviteTemplate = "group_invite"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that renders templates and hands them to mailer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) SendGroupInvite(ctx context.Context, data *domain.GroupInviteEmailData) error {
	if data == nil {
		return errors.New("group invite email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render(groupInviteTemplate, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", groupInviteTemplate, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send group invite email: %w", err)
	}
	s.logger.InfoContext(ctx, "group invite email sent", "to", data.Email, "group", data.GroupName)
	return nil
}

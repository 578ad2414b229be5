package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// GroupInviteEmailData holds data for the group invitation email.
type GroupInviteEmailData struct {
	Email       string
	InviteeName string
	InviterName string
	GroupName   string
	AcceptURL   string
	ExpiresAt   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendGroupInvite(ctx context.Context, data *GroupInviteEmailData) error
}

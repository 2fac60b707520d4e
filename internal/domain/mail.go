package domain

import "context"

// Message is an outbound e-mail with both a plaintext and an HTML part.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers e-mail messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier sends the account e-mails carrying one-time tokens.
type Notifier interface {
	SendConfirmation(ctx context.Context, user *User, token string) error
	SendRecovery(ctx context.Context, user *User, token string) error
}

// Package mail composes and delivers the account e-mails.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/msomdec/user-accounts/internal/domain"
)

const (
	confirmationSubject = "Activate your account"
	recoverySubject     = "Recover your password"
)

// Notifier builds confirmation and recovery messages with links into the
// frontend and hands them to a Sender.
type Notifier struct {
	sender      domain.Sender
	frontendURL string
}

// NewNotifier creates a Notifier. frontendURL is the base of the links
// embedded in the messages.
func NewNotifier(sender domain.Sender, frontendURL string) *Notifier {
	return &Notifier{
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// SendConfirmation e-mails the account activation link.
func (n *Notifier) SendConfirmation(ctx context.Context, user *domain.User, token string) error {
	link := n.link("confirm-user", token)
	text := fmt.Sprintf("%s, welcome! Follow the link below to activate your account: %s", user.Name, link)
	return n.send(ctx, user.Email, confirmationSubject, text, confirmationHTML(user.Name, link))
}

// SendRecovery e-mails the password recovery link.
func (n *Notifier) SendRecovery(ctx context.Context, user *domain.User, token string) error {
	link := n.link("recover-password", token)
	text := fmt.Sprintf("%s, our support team sent you this link to choose a new password: %s", user.Name, link)
	return n.send(ctx, user.Email, recoverySubject, text, recoveryHTML(user.Name, link))
}

func confirmationHTML(name, link string) templ.Component {
	return actionEmail(name, "welcome! Follow the link below to activate your account:", link, "Activate account")
}

func recoveryHTML(name, link string) templ.Component {
	return actionEmail(name, "our support team sent you this link to choose a new password:", link, "Recover password")
}

func (n *Notifier) link(path, token string) string {
	return n.frontendURL + "/" + path + "/" + url.PathEscape(token)
}

func (n *Notifier) send(ctx context.Context, to, subject, text string, html templ.Component) error {
	if to == "" {
		return fmt.Errorf("no recipient defined")
	}

	var buf bytes.Buffer
	if err := html.Render(ctx, &buf); err != nil {
		return fmt.Errorf("render %q: %w", subject, err)
	}

	return n.sender.Send(ctx, domain.Message{
		To:       to,
		Subject:  subject,
		TextBody: text,
		HTMLBody: buf.String(),
	})
}

package mailer

import (
	"context"
	"fmt"
)

// Sender delivers a fully prepared Email.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// Tags are provider tags. Presence-only tags use struct{}{} as the value.
type Tags map[string]any

// Recipient formats a name and email into RFC 5322 address format.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%q <%s>", name, email)
}

// Email is a message ready for sending.
type Email struct {
	Tags        Tags
	Subject     string
	HTML        string
	Text        string
	From        string
	ReplyTo     string
	To          []string
	Attachments []Attachment
}

// Attachment is a file sent along with the message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

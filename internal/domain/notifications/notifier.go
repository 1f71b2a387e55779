package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-care-hub/internal/ports/mail"
)

var (
	ErrMailTransport = errors.New("mail transport failed")
	ErrNoRecipients  = errors.New("job has no recipients")
)

// Notifier manda un solo mail por job a todos los destinatarios.
type Notifier struct {
	sender mail.Sender
	from   string
}

func NewNotifier(sender mail.Sender, from string) *Notifier {
	return &Notifier{sender: sender, from: strings.TrimSpace(from)}
}

func (n *Notifier) Notify(ctx context.Context, job Job) error {
	to := job.Recipients()
	if len(to) == 0 {
		return ErrNoRecipients
	}

	msg := mail.Message{
		From:    n.from,
		To:      to,
		Subject: job.Title,
		Body:    job.Description,
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMailTransport, err)
	}
	return nil
}

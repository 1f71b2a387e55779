package logmail

import (
	"context"

	"pet-care-hub/internal/platform/logger"
	"pet-care-hub/internal/ports/mail"
)

// Sender solo loguea los avisos. Se usa cuando no hay SMTP ni webhook configurado.
type Sender struct {
	log logger.Logger
}

func New(log logger.Logger) *Sender {
	if log == nil {
		log = logger.Nop()
	}
	return &Sender{log: log.With(map[string]any{"component": "logmail"})}
}

func (s *Sender) Send(ctx context.Context, msg mail.Message) error {
	s.log.Info("notification", map[string]any{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.Body,
	})
	return nil
}

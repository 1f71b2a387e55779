package smtp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	portmail "pet-care-hub/internal/ports/mail"

	gomail "github.com/wneessen/go-mail"
)

var ErrNotConfigured = errors.New("smtp sender not configured")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From por defecto si el mensaje no trae uno.
	From string
}

// Sender manda correos por SMTP con STARTTLS obligatorio.
type Sender struct {
	client *gomail.Client
	from   string
}

func New(cfg Config) (*Sender, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, ErrNotConfigured
	}
	port := cfg.Port
	if port <= 0 {
		port = 587
	}

	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	c, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Sender{client: c, from: strings.TrimSpace(cfg.From)}, nil
}

func (s *Sender) Send(ctx context.Context, msg portmail.Message) error {
	m, err := buildMessage(msg, s.from)
	if err != nil {
		return err
	}
	return s.client.DialAndSendWithContext(ctx, m)
}

// buildMessage arma el mensaje go-mail. Texto plano; un solo envío para todos.
func buildMessage(msg portmail.Message, defaultFrom string) (*gomail.Msg, error) {
	from := strings.TrimSpace(msg.From)
	if from == "" {
		from = defaultFrom
	}
	if from == "" {
		return nil, errors.New("smtp: from address required")
	}
	if len(msg.To) == 0 {
		return nil, errors.New("smtp: at least one recipient required")
	}

	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("smtp: from: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("smtp: to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}

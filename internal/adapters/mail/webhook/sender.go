package webhook

import (
	"context"
	"strings"
	"time"

	"pet-care-hub/internal/platform/httpclient"
	"pet-care-hub/internal/ports/mail"
)

// payload es lo que recibe el webhook por cada aviso.
type payload struct {
	From    string   `json:"from,omitempty"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Sender entrega los avisos por HTTP POST (relay de mails, chat, etc).
type Sender struct {
	client *httpclient.Client
	token  string
}

func New(url, token string, timeout time.Duration) (*Sender, error) {
	c, err := httpclient.NewWithBaseURL(url, timeout)
	if err != nil {
		return nil, err
	}
	return &Sender{client: c, token: strings.TrimSpace(token)}, nil
}

func (s *Sender) Send(ctx context.Context, msg mail.Message) error {
	var headers map[string]string
	if s.token != "" {
		headers = map[string]string{"Authorization": "Bearer " + s.token}
	}
	return s.client.PostJSON(ctx, "", headers, payload{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	}, nil)
}

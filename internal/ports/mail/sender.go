package mail

import "context"

// Message es un correo ya resuelto: un solo envío para todos los destinatarios.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

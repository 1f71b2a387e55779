package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Tipos de error que los handlers saben traducir a HTTP.
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Invalid envuelve ErrValidation con un mensaje visible para el cliente.
func Invalid(msg string) error {
	return &kindError{kind: ErrValidation, msg: msg}
}

// NotFound arma un "<what> not found".
func NotFound(what string) error {
	return &kindError{kind: ErrNotFound, msg: what + " not found"}
}

func Conflict(msg string) error {
	return &kindError{kind: ErrConflict, msg: msg}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	if e.msg == "" {
		return e.kind.Error()
	}
	return e.msg
}

func (e *kindError) Unwrap() error { return e.kind }

// HTTPStatus devuelve status + mensaje para el cliente.
// Lo que no es un error conocido se considera fallo interno (store caído, etc.).
func HTTPStatus(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, clientMessage(err)
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, clientMessage(err)
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, clientMessage(err)
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// IsInternal indica si el error debe loguearse como fallo del servidor.
func IsInternal(err error) bool {
	st, _ := HTTPStatus(err)
	return st >= http.StatusInternalServerError
}

func clientMessage(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.Error()
	}
	return err.Error()
}

// Wrapf es un atajo para agregar contexto sin perder el tipo.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

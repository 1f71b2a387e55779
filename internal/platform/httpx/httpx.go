// Package httpx junta los helpers de respuesta que antes estaban duplicados
// en cada handler (writeJSON) más la traducción de errores de dominio a HTTP.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"pet-care-hub/internal/middleware"
	"pet-care-hub/internal/platform/apperr"
	"pet-care-hub/internal/platform/logger"
)

const maxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteError traduce err con apperr.HTTPStatus. Los 5xx se loguean con el
// logger del request; al cliente solo le llega "internal error".
// 401/403 van sin body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := apperr.HTTPStatus(err)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		w.WriteHeader(status)
		return
	}
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"err":    err,
		})
	}
	WriteJSON(w, status, errorBody{Error: msg})
}

// DecodeJSON lee el body en dst. Body vacío o JSON roto => ValidationError.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("request body is required")
		}
		return apperr.Invalid("invalid json")
	}
	return nil
}

// ActorID devuelve el usuario autenticado. Las rutas protegidas pasan por
// middleware.RequireAuth, así que acá un "no hay" es 401.
func ActorID(r *http.Request) (string, error) {
	c, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(c.UserID) == "" {
		return "", apperr.ErrUnauthorized
	}
	return c.UserID, nil
}

// ParseDate acepta RFC3339 o YYYY-MM-DD (medianoche UTC).
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperr.Invalid(field + " is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Invalid(field + " must be RFC3339 or YYYY-MM-DD")
}

// ParseOptionalDate es ParseDate pero nil/"" => nil.
func ParseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

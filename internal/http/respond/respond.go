// Package respond centraliza el shape JSON de las respuestas y el mapeo error -> status.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"pet-manager/internal/platform/logger"
	"pet-manager/internal/platform/validation"
)

const (
	MsgUnauthenticated = "Unauthenticated."
	MsgInternal        = "Error interno del servidor."
	MsgMalformedJSON   = "El cuerpo de la solicitud no es un JSON válido."
	MsgTooManyRequests = "Demasiadas solicitudes. Intente nuevamente más tarde."
)

// Message es la respuesta mínima {"message": "..."}.
type Message struct {
	Message string `json:"message"`
}

// ValidationFailure es la respuesta 422 con errores por campo.
type ValidationFailure struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors"`
}

type logHolder struct{ l logger.Logger }

var encodeLog atomic.Pointer[logHolder]

func init() {
	SetLogger(logger.NewFromEnv())
}

// SetLogger define dónde se reportan las fallas al escribir la respuesta.
func SetLogger(l logger.Logger) {
	if l == nil {
		l = logger.Discard()
	}
	encodeLog.Store(&logHolder{l: l})
}

// JSON escribe payload con el status indicado.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		encodeLog.Load().l.Error("encode response failed", map[string]any{
			"status": status,
			"error":  err.Error(),
		})
	}
}

// Text escribe {"message": msg}.
func Text(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Message{Message: msg})
}

func Unauthenticated(w http.ResponseWriter) {
	Text(w, http.StatusUnauthorized, MsgUnauthenticated)
}

func Invalid(w http.ResponseWriter, errs validation.Errors) {
	JSON(w, http.StatusUnprocessableEntity, ValidationFailure{
		Message: errs.Error(),
		Errors:  errs,
	})
}

func Internal(w http.ResponseWriter) {
	Text(w, http.StatusInternalServerError, MsgInternal)
}

// DecodeFailure responde el error de validation.Decode: 422 por tipo de campo, 400 por JSON roto.
func DecodeFailure(w http.ResponseWriter, err error) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		Invalid(w, errs)
		return
	}
	Text(w, http.StatusBadRequest, MsgMalformedJSON)
}

package pets

import (
	"errors"
	"fmt"
)

// ErrForbidden: el actor está autenticado pero no es dueño de la mascota.
var ErrForbidden = errors.New("forbidden")

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actor es el usuario autenticado que ejecuta la acción.
type Actor struct {
	ID string
}

// Decision es el resultado de la política: Allowed, o denegado con Reason.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize decide si actor puede ejecutar action sobre pet.
// Ver y crear están abiertos a cualquier usuario autenticado (directorio compartido);
// actualizar y eliminar solo al dueño. pet puede ser nil para ActionCreate.
func Authorize(actor Actor, pet *Pet, action Action) Decision {
	if actor.ID == "" {
		return deny("No autenticado.")
	}

	switch action {
	case ActionView, ActionCreate:
		return allow()
	case ActionUpdate:
		if pet != nil && pet.OwnerUserID == actor.ID {
			return allow()
		}
		return deny("No autorizado para actualizar esta mascota.")
	case ActionDelete:
		if pet != nil && pet.OwnerUserID == actor.ID {
			return allow()
		}
		return deny("No autorizado para eliminar esta mascota.")
	default:
		return deny("Acción no permitida.")
	}
}

// DeniedError lleva el motivo de la denegación; errors.Is(err, ErrForbidden) es true.
type DeniedError struct {
	Action Action
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s denied: %s", e.Action, e.Reason)
}

func (e *DeniedError) Unwrap() error { return ErrForbidden }

// Decision.Err convierte una denegación en *DeniedError (nil si está permitido).
func (d Decision) Err(action Action) error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Action: action, Reason: d.Reason}
}

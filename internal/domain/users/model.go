package users

import "time"

// User es el registro de identidad. PasswordHash nunca se serializa ni se loguea.
type User struct {
	ID string

	Name         string
	Email        string
	PasswordHash string
	Birthdate    time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MinAge es la edad mínima (en años) para registrarse o actualizar la fecha de nacimiento.
const MinAge = 12

// Package password provee el hashing de contraseñas (bcrypt).
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch se devuelve cuando la contraseña no corresponde al hash.
var ErrMismatch = errors.New("password mismatch")

// Hasher es la capacidad de hashing que consumen los servicios.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

type Bcrypt struct {
	cost int
}

// NewBcrypt crea un Hasher bcrypt. cost fuera de rango => bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b *Bcrypt) Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return ErrMismatch
	}
	return nil
}

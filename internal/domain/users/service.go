package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-manager/internal/platform/password"
	"pet-manager/internal/platform/validation"
)

const (
	msgEmailTaken        = "El correo electrónico ya ha sido registrado."
	msgEmailTakenByOther = "El correo electrónico ya está registrado por otro usuario."
	msgMinAge            = "Debes tener al menos 12 años."
	msgBirthdateFormat   = "La fecha de nacimiento no es una fecha válida."
	msgCurrentPassword   = "La contraseña actual proporcionada es incorrecta."
	msgNameString        = "El nombre debe ser una cadena de texto no vacía."
	msgNameMax           = "El nombre no debe ser mayor a 255 caracteres."
	msgEmailFormat       = "El formato del correo electrónico no es válido."
)

// SessionRevoker invalida todas las sesiones web de un usuario (cambio de contraseña / baja).
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

type Service struct {
	repo     Repository
	hasher   password.Hasher
	sessions SessionRevoker
	validate *validation.Validator
	now      func() time.Time
}

func NewService(repo Repository, hasher password.Hasher) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		validate: validation.New(),
		now:      time.Now,
	}
}

// SetSessionRevoker conecta el session manager; sin él solo se revocan los tokens.
func (s *Service) SetSessionRevoker(r SessionRevoker) {
	s.sessions = r
}

type RegisterInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	Birthdate            string `json:"birthdate" validate:"required"`
}

var registerRules = validation.Rules{
	Messages: map[string]string{
		"name.required":                 "El nombre es obligatorio.",
		"email.required":                "El correo electrónico es obligatorio.",
		"email.email":                   msgEmailFormat,
		"password.required":             "La contraseña es obligatoria.",
		"password.min":                  "La contraseña debe tener al menos 8 caracteres.",
		"password_confirmation.eqfield": "La confirmación de la contraseña no coincide.",
		"birthdate.required":            "La fecha de nacimiento es obligatoria.",
	},
	Attributes: map[string]string{
		"name":      "nombre",
		"email":     "correo electrónico",
		"password":  "contraseña",
		"birthdate": "fecha de nacimiento",
	},
}

// Register crea el usuario. Devuelve validation.Errors ante datos inválidos o email repetido.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	errs := s.validate.Struct(in, registerRules)
	// La confirmación se reporta sobre "password", como la regla confirmed.
	if msgs, ok := errs["password_confirmation"]; ok {
		delete(errs, "password_confirmation")
		if !errs.Has("password") {
			errs["password"] = msgs
		}
	}

	var birthdate time.Time
	if !errs.Has("birthdate") {
		bd, msg := s.checkBirthdate(in.Birthdate)
		if msg != "" {
			errs.Add("birthdate", msg)
		}
		birthdate = bd
	}

	if !errs.Has("email") {
		if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
			errs.Add("email", msgEmailTaken)
		} else if !errors.Is(err, ErrNotFound) {
			return User{}, fmt.Errorf("lookup email: %w", err)
		}
	}

	if err := errs.Err(); err != nil {
		return User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Birthdate:    birthdate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			errs.Add("email", msgEmailTaken)
			return User{}, errs
		}
		return User{}, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfileInput: nil = no tocar.
type UpdateProfileInput struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Birthdate *string `json:"birthdate"`
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	errs := validation.Errors{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		switch {
		case name == "":
			errs.Add("name", msgNameString)
		case len([]rune(name)) > 255:
			errs.Add("name", msgNameMax)
		default:
			u.Name = name
		}
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if e := s.validate.Var(email, "required,email,max=255"); e != nil {
			errs.Add("email", msgEmailFormat)
		} else {
			other, err := s.repo.GetByEmail(ctx, email)
			switch {
			case err == nil && other.ID != u.ID:
				errs.Add("email", msgEmailTakenByOther)
			case err != nil && !errors.Is(err, ErrNotFound):
				return User{}, fmt.Errorf("lookup email: %w", err)
			default:
				u.Email = email
			}
		}
	}

	if in.Birthdate != nil {
		bd, msg := s.checkBirthdate(*in.Birthdate)
		if msg != "" {
			errs.Add("birthdate", msg)
		} else {
			u.Birthdate = bd
		}
	}

	if err := errs.Err(); err != nil {
		return User{}, err
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			errs.Add("email", msgEmailTakenByOther)
			return User{}, errs
		}
		return User{}, err
	}
	return u, nil
}

type ChangePasswordInput struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ChangePassword valida la contraseña actual, guarda el nuevo hash y revoca todos los
// tokens (en el repositorio) y todas las sesiones del usuario.
func (s *Service) ChangePassword(ctx context.Context, id string, in ChangePasswordInput) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	errs := validation.Errors{}
	if in.CurrentPassword == "" {
		errs.Add("current_password", "La contraseña actual es obligatoria.")
	} else if s.hasher.Compare(u.PasswordHash, in.CurrentPassword) != nil {
		errs.Add("current_password", msgCurrentPassword)
	}

	switch {
	case in.Password == "":
		errs.Add("password", "La nueva contraseña es obligatoria.")
	case in.Password != in.PasswordConfirmation:
		errs.Add("password", "La confirmación de la nueva contraseña no coincide.")
	case len([]rune(in.Password)) < 8:
		errs.Add("password", "La nueva contraseña debe tener al menos 8 caracteres.")
	}

	if err := errs.Err(); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.ChangePassword(ctx, id, hash, s.now()); err != nil {
		return err
	}
	return s.revokeSessions(ctx, id)
}

// Delete elimina al usuario con sus mascotas y tokens, y cierra sus sesiones.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.revokeSessions(ctx, id)
}

func (s *Service) revokeSessions(ctx context.Context, userID string) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// checkBirthdate parsea YYYY-MM-DD (o RFC3339) y exige edad >= MinAge a la fecha actual.
func (s *Service) checkBirthdate(raw string) (time.Time, string) {
	raw = strings.TrimSpace(raw)
	bd, err := time.Parse("2006-01-02", raw)
	if err != nil {
		t, err2 := time.Parse(time.RFC3339, raw)
		if err2 != nil {
			return time.Time{}, msgBirthdateFormat
		}
		bd = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}

	now := s.now().UTC()
	limit := time.Date(now.Year()-MinAge, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if bd.After(limit) {
		return time.Time{}, msgMinAge
	}
	return bd, ""
}

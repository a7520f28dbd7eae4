package pets

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-manager/internal/platform/validation"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100

	maxLen = 255

	// MaxAge es el tope de la columna age (INTEGER).
	MaxAge = math.MaxInt32
)

const (
	msgNameRequired    = "El nombre de la mascota es obligatorio."
	msgSpeciesRequired = "La especie de la mascota es obligatoria."
	msgNameString      = "El nombre de la mascota debe ser una cadena de texto."
	msgSpeciesString   = "La especie de la mascota debe ser una cadena de texto."
	msgAgeInteger      = "La edad debe ser un número entero."
	msgAgeMin          = "La edad no puede ser negativa."
	msgAgeMax          = "La edad no debe ser mayor a 2147483647."
)

// Rules de decodificación/validación compartidas por create y update.
var Rules = validation.Rules{
	Messages: map[string]string{
		"name.required":    msgNameRequired,
		"name.type":        msgNameString,
		"species.required": msgSpeciesRequired,
		"species.type":     msgSpeciesString,
		"breed.type":       "La raza debe ser una cadena de texto.",
		"age.type":         msgAgeInteger,
		"age.min":          msgAgeMin,
		"age.max":          msgAgeMax,
	},
	Attributes: map[string]string{
		"name":    "nombre",
		"species": "especie",
		"breed":   "raza",
		"age":     "edad",
	},
}

type Service struct {
	repo     Repository
	validate *validation.Validator
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validation.New(),
		now:      time.Now,
	}
}

// CreateInput no tiene owner: el dueño siempre lo inyecta el handler desde el actor autenticado.
type CreateInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Species string  `json:"species" validate:"required,max=255"`
	Breed   *string `json:"breed" validate:"omitempty,max=255"`
	Age     *int    `json:"age" validate:"omitempty,min=0,max=2147483647"`
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if err := Authorize(Actor{ID: ownerUserID}, nil, ActionCreate).Err(ActionCreate); err != nil {
		return Pet{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.TrimSpace(in.Species)
	in.Breed = trimOptional(in.Breed)

	if err := s.validate.Struct(in, Rules).Err(); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        in.Name,
		Species:     in.Species,
		Breed:       in.Breed,
		Age:         in.Age,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, actor Actor, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Pet{}, err
	}
	if err := Authorize(actor, &p, ActionView).Err(ActionView); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// ListAll pagina el directorio completo. page y perPage se acotan a >= 1 (perPage <= MaxPerPage).
func (s *Service) ListAll(ctx context.Context, page, perPage int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	// Una página fuera de rango satura el offset: el repo devuelve vacío con el total real.
	offset := math.MaxInt
	if page-1 <= math.MaxInt/perPage {
		offset = (page - 1) * perPage
	}

	items, total, err := s.repo.ListPage(ctx, perPage, offset)
	if err != nil {
		return Page{}, err
	}

	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	return Page{
		Items:    items,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		LastPage: last,
	}, nil
}

// UpdateInput: todos los campos opcionales; breed y age aceptan null para limpiar.
type UpdateInput struct {
	Name    Patch[string] `json:"name"`
	Species Patch[string] `json:"species"`
	Breed   Patch[string] `json:"breed"`
	Age     Patch[int]    `json:"age"`
}

// Update aplica solo los campos presentes. Orden: existe (404) -> válido (422) -> dueño (403) -> persistir.
func (s *Service) Update(ctx context.Context, actor Actor, id string, in UpdateInput) (Pet, error) {
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Pet{}, err
	}

	updated, errs := applyUpdate(current, in)
	if err := errs.Err(); err != nil {
		return Pet{}, err
	}

	if err := Authorize(actor, &current, ActionUpdate).Err(ActionUpdate); err != nil {
		return Pet{}, err
	}

	updated.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, updated); err != nil {
		return Pet{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor Actor, id string) error {
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if err := Authorize(actor, &current, ActionDelete).Err(ActionDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, current.ID)
}

func applyUpdate(p Pet, in UpdateInput) (Pet, validation.Errors) {
	errs := validation.Errors{}

	if in.Name.Set {
		name := strings.TrimSpace(in.Name.Value)
		switch {
		case in.Name.Null || name == "":
			errs.Add("name", msgNameString)
		case len([]rune(name)) > maxLen:
			errs.Add("name", "El nombre no debe ser mayor a 255 caracteres.")
		default:
			p.Name = name
		}
	}

	if in.Species.Set {
		species := strings.TrimSpace(in.Species.Value)
		switch {
		case in.Species.Null || species == "":
			errs.Add("species", msgSpeciesString)
		case len([]rune(species)) > maxLen:
			errs.Add("species", "La especie no debe ser mayor a 255 caracteres.")
		default:
			p.Species = species
		}
	}

	if in.Breed.Set {
		if in.Breed.Null {
			p.Breed = nil
		} else if breed := strings.TrimSpace(in.Breed.Value); len([]rune(breed)) > maxLen {
			errs.Add("breed", "La raza no debe ser mayor a 255 caracteres.")
		} else {
			p.Breed = trimOptional(&breed)
		}
	}

	if in.Age.Set {
		switch {
		case in.Age.Null:
			p.Age = nil
		case in.Age.Value < 0:
			errs.Add("age", msgAgeMin)
		case in.Age.Value > MaxAge:
			errs.Add("age", msgAgeMax)
		default:
			age := in.Age.Value
			p.Age = &age
		}
	}

	return p, errs
}

// trimOptional: "" se normaliza a nil (la raza vacía equivale a no informada).
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

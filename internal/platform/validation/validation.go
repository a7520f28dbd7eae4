// Package validation reúne los errores por campo (respuesta 422) y la validación de payloads.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedJSON indica un body que no es JSON.
var ErrMalformedJSON = errors.New("malformed json")

// Errors mapea campo -> mensajes. Es el shape de "errors" en las respuestas 422.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Err devuelve nil si no hay errores, para poder hacer `return errs.Err()`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Error devuelve el primer mensaje (orden alfabético de campos), como "message" de la respuesta.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if len(e[f]) > 0 {
			return e[f][0]
		}
	}
	return "validation failed"
}

// Rules define mensajes por "campo.regla" y nombres legibles por campo.
type Rules struct {
	Messages   map[string]string
	Attributes map[string]string
}

func (r Rules) message(field, tag, param string) string {
	if m, ok := r.Messages[field+"."+tag]; ok {
		return m
	}
	attr := field
	if a, ok := r.Attributes[field]; ok {
		attr = a
	}
	switch tag {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio.", attr)
	case "email":
		return fmt.Sprintf("El campo %s debe ser una dirección de correo válida.", attr)
	case "max":
		return fmt.Sprintf("El campo %s no debe ser mayor a %s caracteres.", attr, param)
	case "min":
		return fmt.Sprintf("El campo %s debe tener al menos %s caracteres.", attr, param)
	case "eqfield":
		return fmt.Sprintf("La confirmación de %s no coincide.", attr)
	case "type":
		return fmt.Sprintf("El campo %s no tiene un tipo válido.", attr)
	default:
		return fmt.Sprintf("El campo %s no es válido.", attr)
	}
}

// Validator envuelve go-playground/validator usando los nombres json como nombre de campo.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct valida s y traduce cada falla a un mensaje según rules.
func (v *Validator) Struct(s any, rules Rules) Errors {
	errs := Errors{}
	err := v.v.Struct(s)
	if err == nil {
		return errs
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		errs.Add("_", err.Error())
		return errs
	}
	for _, fe := range ves {
		field := fe.Field()
		errs.Add(field, rules.message(field, fe.Tag(), fe.Param()))
	}
	return errs
}

// Var valida un valor suelto con tags del validator (p.ej. "required,email").
func (v *Validator) Var(value any, tag string) error {
	return v.v.Var(value, tag)
}

// Decode lee JSON en dst. Un body vacío se trata como objeto vacío.
// Un tipo incorrecto en un campo se reporta como Errors (regla "type"); JSON roto como ErrMalformedJSON.
func Decode(r io.Reader, dst any, rules Rules) error {
	dec := json.NewDecoder(r)
	err := dec.Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		errs := Errors{}
		errs.Add(field, rules.message(field, "type", ""))
		return errs
	}
	return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
}

package pets

import "time"

// Pet es el registro de una mascota. OwnerUserID se fija al crear y no cambia.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species string
	Breed   *string
	Age     *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Page es un resultado paginado del listado global.
type Page struct {
	Items    []Pet
	Total    int
	Page     int
	PerPage  int
	LastPage int
}

// From es la posición (desde 1) del primer item de la página; 0 si está vacía.
func (p Page) From() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Page-1)*p.PerPage + 1
}

// To es la posición del último item; 0 si la página está vacía.
func (p Page) To() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.From() + len(p.Items) - 1
}

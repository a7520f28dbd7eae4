package pets

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-manager/internal/http/respond"
	"pet-manager/internal/middleware"
	"pet-manager/internal/platform/logger"
	"pet-manager/internal/platform/validation"
)

const msgPetNotFound = "Mascota no encontrada."

// RegisterRoutes monta /pets. Debe ir dentro de un grupo con middleware.RequireAuth.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc, log))
		pr.Post("/", createPetHandler(svc, log))

		// /all antes de /{petID} para que no lo capture el parámetro.
		pr.Get("/all", listAllPetsHandler(svc, log))

		pr.Get("/{petID}", getPetHandler(svc, log))
		pr.Put("/{petID}", updatePetHandler(svc, log))
		pr.Patch("/{petID}", updatePetHandler(svc, log))
		pr.Delete("/{petID}", deletePetHandler(svc, log))
	})
}

type petResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     *string   `json:"breed"`
	Age       *int      `json:"age"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type petMessageResponse struct {
	Message string      `json:"message"`
	Pet     petResponse `json:"pet"`
}

// pageResponse replica la metadata de paginación del listado global.
type pageResponse struct {
	CurrentPage int           `json:"current_page"`
	Data        []petResponse `json:"data"`
	From        *int          `json:"from"`
	LastPage    int           `json:"last_page"`
	PerPage     int           `json:"per_page"`
	To          *int          `json:"to"`
	Total       int           `json:"total"`
}

// listPetsHandler godoc
// @Summary Mascotas del usuario autenticado
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} petResponse
// @Failure 401 {object} respond.Message
// @Router /pets [get]
func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponses(items))
	}
}

// listAllPetsHandler godoc
// @Summary Directorio paginado de todas las mascotas
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página (1..n)" default(1)
// @Param limit query int false "Tamaño de página (máx. 100)" default(20)
// @Success 200 {object} pageResponse
// @Failure 401 {object} respond.Message
// @Router /pets/all [get]
func listAllPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := queryInt(q.Get("page"), 1)
		limit := queryInt(q.Get("limit"), DefaultPerPage)

		p, err := svc.ListAll(r.Context(), page, limit)
		if err != nil {
			writeError(w, log, err)
			return
		}

		out := pageResponse{
			CurrentPage: p.Page,
			Data:        toPetResponses(p.Items),
			LastPage:    p.LastPage,
			PerPage:     p.PerPage,
			Total:       p.Total,
		}
		if len(p.Items) > 0 {
			from, to := p.From(), p.To()
			out.From, out.To = &from, &to
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// createPetHandler godoc
// @Summary Crear mascota (el dueño es el usuario autenticado)
// @Tags pets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body CreateInput true "Datos de la mascota"
// @Success 201 {object} petMessageResponse
// @Failure 422 {object} respond.ValidationFailure
// @Router /pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in CreateInput
		if err := validation.Decode(r.Body, &in, Rules); err != nil {
			respond.DecodeFailure(w, err)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusCreated, petMessageResponse{
			Message: "Mascota creada exitosamente.",
			Pet:     toPetResponse(p),
		})
	}
}

// getPetHandler godoc
// @Summary Ver una mascota
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {object} respond.Message
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		p, err := svc.Get(r.Context(), Actor{ID: claims.UserID}, chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota (solo el dueño; solo los campos enviados)
// @Tags pets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param petID path string true "ID de la mascota"
// @Param payload body UpdateInput true "Campos a modificar"
// @Success 200 {object} petMessageResponse
// @Failure 403 {object} respond.Message
// @Failure 404 {object} respond.Message
// @Failure 422 {object} respond.ValidationFailure
// @Router /pets/{petID} [put]
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in UpdateInput
		if err := validation.Decode(r.Body, &in, Rules); err != nil {
			respond.DecodeFailure(w, err)
			return
		}

		p, err := svc.Update(r.Context(), Actor{ID: claims.UserID}, chi.URLParam(r, "petID"), in)
		if err != nil {
			writeError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, petMessageResponse{
			Message: "Mascota actualizada exitosamente.",
			Pet:     toPetResponse(p),
		})
	}
}

// deletePetHandler godoc
// @Summary Eliminar mascota (solo el dueño)
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} respond.Message
// @Failure 403 {object} respond.Message
// @Failure 404 {object} respond.Message
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Delete(r.Context(), Actor{ID: claims.UserID}, chi.URLParam(r, "petID")); err != nil {
			writeError(w, log, err)
			return
		}
		respond.Text(w, http.StatusOK, "Mascota eliminada exitosamente.")
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var (
		verrs  validation.Errors
		denied *DeniedError
	)
	switch {
	case errors.As(err, &verrs):
		respond.Invalid(w, verrs)
	case errors.Is(err, ErrNotFound):
		respond.Text(w, http.StatusNotFound, msgPetNotFound)
	case errors.As(err, &denied):
		respond.Text(w, http.StatusForbidden, denied.Reason)
	case errors.Is(err, ErrForbidden):
		respond.Text(w, http.StatusForbidden, "No autorizado.")
	default:
		log.Error("pet request failed", map[string]any{"error": err.Error()})
		respond.Internal(w)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Age:       p.Age,
		UserID:    p.OwnerUserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPetResponses(items []Pet) []petResponse {
	out := make([]petResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetResponse(p))
	}
	return out
}

// queryInt parsea un entero de query string; vacío o inválido => def.
func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

package cats

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pet-manager/internal/http/respond"
	"pet-manager/internal/platform/logger"
)

const (
	MsgBreedsFailed = "Error al obtener las razas de gatos de la API externa."
	MsgRandomFailed = "Error al obtener aleatoriamente la información de un gato del API externa."
)

// RegisterRoutes monta /cats (público). El rate limit por IP se aplica desde el router.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/cats", func(cr chi.Router) {
		cr.Get("/breeds", listBreedsHandler(svc, log))
		cr.Get("/random", randomCatHandler(svc, log))
	})
}

// listBreedsHandler godoc
// @Summary Razas de gatos (TheCatAPI)
// @Tags cats
// @Produce json
// @Param page query int false "Página (1..n)" default(1)
// @Param limit query int false "Cantidad por página" default(5)
// @Success 200 {array} object
// @Failure 429 {object} respond.Message
// @Failure 500 {object} respond.Message
// @Router /cats/breeds [get]
func listBreedsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := queryInt(q, "page", DefaultPage)
		limit := queryInt(q, "limit", DefaultLimit)

		breeds, err := svc.ListBreeds(r.Context(), limit, page)
		if err != nil {
			log.Error("cat api breeds failed", map[string]any{"error": err.Error(), "page": page, "limit": limit})
			respond.Text(w, http.StatusInternalServerError, MsgBreedsFailed)
			return
		}
		respond.JSON(w, http.StatusOK, breeds)
	}
}

// randomCatHandler godoc
// @Summary Imagen aleatoria de un gato con su raza (TheCatAPI)
// @Tags cats
// @Produce json
// @Success 200 {array} object
// @Failure 429 {object} respond.Message
// @Failure 500 {object} respond.Message
// @Router /cats/random [get]
func randomCatHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, err := svc.RandomImage(r.Context())
		if err != nil {
			log.Error("cat api random failed", map[string]any{"error": err.Error()})
			respond.Text(w, http.StatusInternalServerError, MsgRandomFailed)
			return
		}
		respond.JSON(w, http.StatusOK, cat)
	}
}

// queryInt: ausente => def; no numérico => 0 (el servicio lo acota a 1).
func queryInt(q map[string][]string, key string, def int) int {
	vals, ok := q[key]
	if !ok || len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(vals[0]))
	if err != nil {
		return 0
	}
	return n
}

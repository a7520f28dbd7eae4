package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-manager/internal/http/respond"
	"pet-manager/internal/middleware"
	"pet-manager/internal/platform/logger"
	"pet-manager/internal/platform/validation"
)

// RegisterRoutes monta /user. Debe ir dentro de un grupo con middleware.RequireAuth.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/user", func(ur chi.Router) {
		ur.Get("/", showUserHandler(svc, log))
		ur.Put("/", updateUserHandler(svc, log))
		ur.Delete("/", destroyUserHandler(svc, log))
		ur.Put("/password", updatePasswordHandler(svc, log))
	})
}

// UserResponse es la representación pública de un usuario (sin hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Birthdate time.Time `json:"birthdate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userMessageResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Birthdate: u.Birthdate,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// showUserHandler godoc
// @Summary Usuario autenticado
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} respond.Message
// @Router /user [get]
func showUserHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		u, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(u))
	}
}

// updateUserHandler godoc
// @Summary Actualizar perfil (nombre, email, fecha de nacimiento)
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body UpdateProfileInput true "Campos a modificar"
// @Success 200 {object} userMessageResponse
// @Failure 422 {object} respond.ValidationFailure
// @Router /user [put]
func updateUserHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in UpdateProfileInput
		if err := validation.Decode(r.Body, &in, validation.Rules{}); err != nil {
			respond.DecodeFailure(w, err)
			return
		}

		u, err := svc.UpdateProfile(r.Context(), claims.UserID, in)
		if err != nil {
			writeError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, userMessageResponse{
			Message: "Información de usuario actualizada exitosamente.",
			User:    ToResponse(u),
		})
	}
}

// updatePasswordHandler godoc
// @Summary Cambiar contraseña (revoca todos los tokens)
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body ChangePasswordInput true "Contraseña actual y nueva"
// @Success 200 {object} respond.Message
// @Failure 422 {object} respond.ValidationFailure
// @Router /user/password [put]
func updatePasswordHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in ChangePasswordInput
		if err := validation.Decode(r.Body, &in, validation.Rules{}); err != nil {
			respond.DecodeFailure(w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), claims.UserID, in); err != nil {
			writeError(w, log, err)
			return
		}
		log.Info("password changed, tokens revoked", map[string]any{"user_id": claims.UserID})
		respond.Text(w, http.StatusOK, "Contraseña actualizada exitosamente.")
	}
}

// destroyUserHandler godoc
// @Summary Eliminar la cuenta (mascotas y tokens incluidos)
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.Message
// @Router /user [delete]
func destroyUserHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Delete(r.Context(), claims.UserID); err != nil {
			writeError(w, log, err)
			return
		}
		log.Info("user deleted", map[string]any{"user_id": claims.UserID})
		respond.Text(w, http.StatusOK, "Usuario eliminado exitosamente.")
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		respond.Invalid(w, verrs)
	case errors.Is(err, ErrNotFound):
		// El token resolvió pero el usuario ya no existe.
		respond.Unauthenticated(w)
	default:
		log.Error("user request failed", map[string]any{"error": err.Error()})
		respond.Internal(w)
	}
}

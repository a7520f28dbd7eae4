package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-manager/internal/domain/users"
	"pet-manager/internal/http/respond"
	"pet-manager/internal/middleware"
	"pet-manager/internal/platform/logger"
	"pet-manager/internal/platform/validation"
)

const tokenName = "auth_token"

// Deps agrupa lo que necesitan los handlers de autenticación.
type Deps struct {
	Users         *users.Service
	Authenticator *Authenticator
	Tokens        *TokenService
	Sessions      *SessionManager
	Log           logger.Logger
}

// RegisterRoutes monta /register, /login (públicas) y /logout (bearer).
// Se espera middleware.AuthContext aplicado más arriba.
func RegisterRoutes(r chi.Router, d Deps) {
	r.Post("/register", registerHandler(d))
	r.Post("/login", loginHandler(d))

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth)
		pr.Post("/logout", logoutHandler(d))
	})
}

// RegisterWebRoutes monta el flujo con sesión bajo /web (JSON en lugar de vistas).
func RegisterWebRoutes(r chi.Router, d Deps) {
	r.Route("/web", func(wr chi.Router) {
		wr.Use(LoadSession(d.Sessions, d.Log))
		wr.Use(VerifyCSRF)

		wr.Get("/csrf", webCSRFHandler())
		wr.Post("/register", webRegisterHandler(d))
		wr.Post("/login", webLoginHandler(d))

		wr.Group(func(ar chi.Router) {
			ar.Use(RequireSessionUser)
			ar.Post("/logout", webLogoutHandler(d))
			ar.Get("/dashboard", webDashboardHandler(d))
		})
	})
}

type tokenResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerResponse struct {
	Message     string             `json:"message"`
	User        users.UserResponse `json:"user"`
	AccessToken string             `json:"access_token,omitempty"`
	TokenType   string             `json:"token_type,omitempty"`
}

type csrfResponse struct {
	CSRFToken string `json:"csrf_token"`
}

type webUserResponse struct {
	Message   string             `json:"message,omitempty"`
	User      users.UserResponse `json:"user"`
	CSRFToken string             `json:"csrf_token,omitempty"`
}

type webLogoutResponse struct {
	Message   string `json:"message"`
	CSRFToken string `json:"csrf_token"`
}

// registerHandler godoc
// @Summary Registrar usuario y emitir token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body users.RegisterInput true "Datos de registro"
// @Success 201 {object} registerResponse
// @Failure 422 {object} respond.ValidationFailure
// @Router /register [post]
func registerHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in users.RegisterInput
		if err := validation.Decode(r.Body, &in, validation.Rules{}); err != nil {
			respond.DecodeFailure(w, err)
			return
		}

		u, err := d.Users.Register(r.Context(), in)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}

		plain, _, err := d.Tokens.Issue(r.Context(), u.ID, tokenName)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}

		d.Log.Info("user registered", map[string]any{"user_id": u.ID})
		respond.JSON(w, http.StatusCreated, registerResponse{
			Message:     "Usuario registrado exitosamente.",
			User:        users.ToResponse(u),
			AccessToken: plain,
			TokenType:   "Bearer",
		})
	}
}

// loginHandler godoc
// @Summary Login con email y contraseña (throttle por email+IP)
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body Credentials true "Credenciales"
// @Success 200 {object} tokenResponse
// @Failure 422 {object} respond.ValidationFailure
// @Router /login [post]
func loginHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c Credentials
		if err := validation.Decode(r.Body, &c, loginRules); err != nil {
			respond.DecodeFailure(w, err)
			return
		}
		c.IP = middleware.ClientIP(r)

		u, err := d.Authenticator.Attempt(r.Context(), c)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}

		plain, _, err := d.Tokens.Issue(r.Context(), u.ID, tokenName)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}

		respond.JSON(w, http.StatusOK, tokenResponse{
			Message:     "Login exitoso.",
			AccessToken: plain,
			TokenType:   "Bearer",
		})
	}
}

// logoutHandler godoc
// @Summary Revocar el token usado en el request
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.Message
// @Failure 401 {object} respond.Message
// @Router /logout [post]
func logoutHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := d.Tokens.Revoke(r.Context(), claims.TokenID); err != nil {
			writeError(w, d.Log, err)
			return
		}
		respond.Text(w, http.StatusOK, "Sesión cerrada exitosamente.")
	}
}

// webCSRFHandler godoc
// @Summary Token CSRF de la sesión actual
// @Tags web
// @Produce json
// @Success 200 {object} csrfResponse
// @Router /web/csrf [get]
func webCSRFHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := SessionFrom(r.Context())
		respond.JSON(w, http.StatusOK, csrfResponse{CSRFToken: s.CSRFToken})
	}
}

// webRegisterHandler godoc
// @Summary Registro con inicio de sesión automático
// @Tags web
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "Token CSRF"
// @Param payload body users.RegisterInput true "Datos de registro"
// @Success 201 {object} webUserResponse
// @Failure 422 {object} respond.ValidationFailure
// @Router /web/register [post]
func webRegisterHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in users.RegisterInput
		if err := validation.Decode(r.Body, &in, validation.Rules{}); err != nil {
			respond.DecodeFailure(w, err)
			return
		}

		u, err := d.Users.Register(r.Context(), in)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}

		s, _ := SessionFrom(r.Context())
		s, err = d.Sessions.Regenerate(r.Context(), s, u.ID, false)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}
		if err := setSessionCookie(w, d.Sessions, s); err != nil {
			writeError(w, d.Log, err)
			return
		}

		respond.JSON(w, http.StatusCreated, webUserResponse{
			Message:   "¡Registro exitoso!",
			User:      users.ToResponse(u),
			CSRFToken: s.CSRFToken,
		})
	}
}

// webLoginHandler godoc
// @Summary Login con sesión (regenera el id de sesión)
// @Tags web
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "Token CSRF"
// @Param payload body Credentials true "Credenciales"
// @Success 200 {object} webUserResponse
// @Failure 422 {object} respond.ValidationFailure
// @Router /web/login [post]
func webLoginHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c Credentials
		if err := validation.Decode(r.Body, &c, loginRules); err != nil {
			respond.DecodeFailure(w, err)
			return
		}
		c.IP = middleware.ClientIP(r)

		u, err := d.Authenticator.Attempt(r.Context(), c)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}

		s, _ := SessionFrom(r.Context())
		s, err = d.Sessions.Regenerate(r.Context(), s, u.ID, c.Remember)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}
		if err := setSessionCookie(w, d.Sessions, s); err != nil {
			writeError(w, d.Log, err)
			return
		}

		respond.JSON(w, http.StatusOK, webUserResponse{
			Message:   "¡Login exitoso!",
			User:      users.ToResponse(u),
			CSRFToken: s.CSRFToken,
		})
	}
}

// webLogoutHandler godoc
// @Summary Cerrar sesión (invalida la sesión y rota el CSRF)
// @Tags web
// @Produce json
// @Param X-CSRF-Token header string true "Token CSRF"
// @Success 200 {object} webLogoutResponse
// @Failure 401 {object} respond.Message
// @Router /web/logout [post]
func webLogoutHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := SessionFrom(r.Context())

		guest, err := d.Sessions.Invalidate(r.Context(), s)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}
		if err := setSessionCookie(w, d.Sessions, guest); err != nil {
			writeError(w, d.Log, err)
			return
		}

		respond.JSON(w, http.StatusOK, webLogoutResponse{
			Message:   "Sesión cerrada exitosamente.",
			CSRFToken: guest.CSRFToken,
		})
	}
}

// webDashboardHandler godoc
// @Summary Usuario de la sesión actual
// @Tags web
// @Produce json
// @Success 200 {object} webUserResponse
// @Failure 401 {object} respond.Message
// @Router /web/dashboard [get]
func webDashboardHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := SessionFrom(r.Context())

		u, err := d.Users.Get(r.Context(), s.UserID)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}
		respond.JSON(w, http.StatusOK, webUserResponse{User: users.ToResponse(u)})
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var (
		verrs     validation.Errors
		throttled *ThrottledError
	)
	switch {
	case errors.As(err, &verrs):
		respond.Invalid(w, verrs)
	case errors.As(err, &throttled):
		errs := validation.Errors{}
		errs.Add("email", throttled.Message())
		respond.Invalid(w, errs)
	case errors.Is(err, ErrInvalidCredentials):
		errs := validation.Errors{}
		errs.Add("email", MsgFailed)
		respond.Invalid(w, errs)
	case errors.Is(err, users.ErrNotFound):
		respond.Unauthenticated(w)
	default:
		log.Error("auth request failed", map[string]any{"error": err.Error()})
		respond.Internal(w)
	}
}

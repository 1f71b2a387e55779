package auth

import (
	"net/http"

	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/middleware"
	"pet-care-hub/internal/platform/apperr"
	"pet-care-hub/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /auth/*. signup/login/refresh son públicas;
// logout pide access token, así que va envuelta en RequireAuth.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signupHandler(svc))
		ar.Post("/login", loginHandler(svc))
		ar.Post("/refresh-token", refreshHandler(svc))
		ar.With(middleware.RequireAuth).Post("/logout", logoutHandler(svc))
	})
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// signupHandler godoc
// @Summary      Registro
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "email, password, name"
// @Success      201   {object}  users.Summary
// @Failure      400   {string}  string  "missing name/email/password"
// @Failure      409   {string}  string  "email already exists"
// @Router       /api/auth/signup [post]
func signupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		u, err := svc.Signup(r.Context(), users.SignupInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, u.Summary())
	}
}

// loginHandler godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "credenciales"
// @Success      200   {object}  Session
// @Failure      400   {string}  string  "bad username or password"
// @Router       /api/auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		sess, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, sess)
	}
}

// refreshHandler godoc
// @Summary      Rotar refresh token
// @Description  Authorization: Bearer <refresh token>. Un token reusado invalida todas las sesiones.
// @Tags         auth
// @Produce      json
// @Success      200   {object}  Session
// @Failure      401   {string}  string  "unauthorized"
// @Failure      403   {string}  string  "forbidden"
// @Router       /api/auth/refresh-token [post]
func refreshHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svc.Refresh(r.Context(), middleware.BearerToken(r))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, sess)
	}
}

func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := httpx.ActorID(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req logoutRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, apperr.ErrUnauthorized)
			return
		}

		if err := svc.Logout(r.Context(), actor, req.RefreshToken); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

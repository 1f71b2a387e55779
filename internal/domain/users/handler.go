package users

import (
	"net/http"
	"time"

	"pet-care-hub/internal/platform/apperr"
	"pet-care-hub/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /users/search, /users/{userID} (GET, PUT).
// Las vistas /users/{userID}/pets|groups|clubs las registra cada módulo dueño.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/users/search/{q}", searchUsersHandler(svc))
	r.Get("/users/{userID}", getUserHandler(svc))
	r.Put("/users/{userID}", updateUserHandler(svc))
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// searchUsersHandler godoc
// @Summary      Buscar usuarios
// @Description  Substring case-insensitive sobre nombre o email
// @Tags         users
// @Produce      json
// @Param        q   path      string  true  "texto a buscar"
// @Success      200 {array}   Summary
// @Failure      401 {string}  string  "unauthorized"
// @Router       /api/users/search/{q} [get]
func searchUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Search(r.Context(), chi.URLParam(r, "q"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, items)
	}
}

func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// updateUserHandler godoc
// @Summary      Actualizar perfil
// @Description  Solo el propio usuario. name y/o password.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userID path   string             true  "user id"
// @Param        body   body   updateUserRequest  true  "campos a cambiar"
// @Success      200 {object}  userResponse
// @Failure      400 {string}  string  "invalid input"
// @Failure      403 {string}  string  "forbidden"
// @Router       /api/users/{userID} [put]
func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := httpx.ActorID(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		userID := chi.URLParam(r, "userID")
		if userID != actor {
			httpx.WriteError(w, r, apperr.ErrForbidden)
			return
		}

		var req updateUserRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		u, err := svc.UpdateProfile(r.Context(), userID, UpdateProfileInput{
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

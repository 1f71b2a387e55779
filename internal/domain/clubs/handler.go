package clubs

import (
	"net/http"
	"time"

	"pet-care-hub/internal/domain/books"
	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/clubs", func(cr chi.Router) {
		cr.Post("/", createClubHandler(svc))
		cr.Get("/", listClubsHandler(svc))

		cr.Route("/{clubID}", func(one chi.Router) {
			one.Get("/", getClubHandler(svc))
			one.Patch("/", updateClubHandler(svc))
			one.Delete("/", deleteClubHandler(svc))

			one.Post("/users", addUsersHandler(svc))
			one.Delete("/users/{userID}", removeUserHandler(svc))
			one.Delete("/books/{bookID}", removeBookHandler(svc))
		})
	})

	r.Get("/users/{userID}/clubs", userClubsHandler(svc))
}

type createClubRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Users       []string `json:"users"`
	Books       []string `json:"books"`
}

type updateClubRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type usersRequest struct {
	Users []string `json:"users"`
}

type clubResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Members     []users.Summary      `json:"members"`
	Books       []books.BookResponse `json:"books"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// createClubHandler godoc
// @Summary      Crear club de lectura
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Param        body  body      createClubRequest  true  "name, description, users, books"
// @Success      201   {object}  clubResponse
// @Failure      400   {string}  string  "name is required"
// @Router       /api/clubs [post]
func createClubHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := httpx.ActorID(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createClubRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		c, err := svc.Create(r.Context(), actor, CreateInput{
			Name:        req.Name,
			Description: req.Description,
			UserIDs:     req.Users,
			BookIDs:     req.Books,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeView(w, r, svc, c.ID, http.StatusCreated)
	}
}

func listClubsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toClubResponses(items))
	}
}

func getClubHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeView(w, r, svc, chi.URLParam(r, "clubID"), http.StatusOK)
	}
}

func updateClubHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateClubRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		clubID := chi.URLParam(r, "clubID")
		if _, err := svc.Update(r.Context(), clubID, UpdateInput{Name: req.Name, Description: req.Description}); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeView(w, r, svc, clubID, http.StatusOK)
	}
}

func deleteClubHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "clubID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req usersRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		clubID := chi.URLParam(r, "clubID")
		if err := svc.AddUsers(r.Context(), clubID, req.Users); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeView(w, r, svc, clubID, http.StatusOK)
	}
}

func removeUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RemoveUser(r.Context(), chi.URLParam(r, "clubID"), chi.URLParam(r, "userID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func removeBookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RemoveBook(r.Context(), chi.URLParam(r, "clubID"), chi.URLParam(r, "bookID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func userClubsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListForUser(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toClubResponses(items))
	}
}

func writeView(w http.ResponseWriter, r *http.Request, svc *Service, clubID string, status int) {
	v, err := svc.View(r.Context(), clubID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, status, toClubResponse(v))
}

func toClubResponses(items []View) []clubResponse {
	out := make([]clubResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toClubResponse(v))
	}
	return out
}

func toClubResponse(v View) clubResponse {
	return clubResponse{
		ID:          v.Club.ID,
		Name:        v.Club.Name,
		Description: v.Club.Description,
		Members:     v.Members,
		Books:       books.ToBookResponses(v.Books),
		CreatedAt:   v.Club.CreatedAt,
		UpdatedAt:   v.Club.UpdatedAt,
	}
}

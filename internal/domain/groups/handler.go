package groups

import (
	"net/http"
	"time"

	"pet-care-hub/internal/domain/pets"
	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/groups", func(gr chi.Router) {
		gr.Post("/", createGroupHandler(svc))
		gr.Get("/", listGroupsHandler(svc))

		gr.Route("/{groupID}", func(one chi.Router) {
			one.Get("/", getGroupHandler(svc))
			one.Patch("/", updateGroupHandler(svc))
			one.Delete("/", deleteGroupHandler(svc))

			one.Post("/users", addUsersHandler(svc))
			one.Post("/pets", addPetsHandler(svc))
			one.Delete("/users/{userID}", removeUserHandler(svc))
			one.Delete("/pets/{petID}", removePetHandler(svc))
		})
	})

	r.Get("/users/{userID}/groups", userGroupsHandler(svc))
}

type createGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Users       []string `json:"users"`
	Pets        []string `json:"pets"`
}

type updateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type usersRequest struct {
	Users []string `json:"users"`
}

type petsRequest struct {
	Pets []string `json:"pets"`
}

type groupResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Members     []users.Summary `json:"members"`
	Pets        []petSummary    `json:"pets"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type petSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	ImgURL  string `json:"imgUrl"`
}

// createGroupHandler godoc
// @Summary      Crear grupo
// @Description  El usuario autenticado siempre queda como miembro
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        body  body      createGroupRequest  true  "name, description, users, pets"
// @Success      201   {object}  groupResponse
// @Failure      400   {string}  string  "name is required"
// @Failure      404   {string}  string  "user not found"
// @Router       /api/groups [post]
func createGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := httpx.ActorID(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createGroupRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		g, err := svc.Create(r.Context(), actor, CreateInput{
			Name:        req.Name,
			Description: req.Description,
			UserIDs:     req.Users,
			PetIDs:      req.Pets,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeView(w, r, svc, g.ID, http.StatusCreated)
	}
}

func listGroupsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toGroupResponses(items))
	}
}

func getGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeView(w, r, svc, chi.URLParam(r, "groupID"), http.StatusOK)
	}
}

func updateGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateGroupRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		groupID := chi.URLParam(r, "groupID")
		if _, err := svc.Update(r.Context(), groupID, UpdateInput{Name: req.Name, Description: req.Description}); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeView(w, r, svc, groupID, http.StatusOK)
	}
}

func deleteGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "groupID")); err != nil {
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

		groupID := chi.URLParam(r, "groupID")
		if err := svc.AddUsers(r.Context(), groupID, req.Users); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeView(w, r, svc, groupID, http.StatusOK)
	}
}

// addPetsHandler godoc
// @Summary      Agregar mascotas al grupo
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupID  path      string       true  "group id"
// @Param        body     body      petsRequest  true  "ids de mascotas"
// @Success      200      {object}  groupResponse
// @Failure      404      {string}  string  "pet not found"
// @Router       /api/groups/{groupID}/pets [post]
func addPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req petsRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		groupID := chi.URLParam(r, "groupID")
		if err := svc.AddPets(r.Context(), groupID, req.Pets); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeView(w, r, svc, groupID, http.StatusOK)
	}
}

func removeUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RemoveUser(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "userID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func removePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RemovePet(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "petID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func userGroupsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListForUser(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toGroupResponses(items))
	}
}

func writeView(w http.ResponseWriter, r *http.Request, svc *Service, groupID string, status int) {
	v, err := svc.View(r.Context(), groupID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, status, toGroupResponse(v))
}

func toGroupResponses(items []View) []groupResponse {
	out := make([]groupResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toGroupResponse(v))
	}
	return out
}

func toGroupResponse(v View) groupResponse {
	ps := make([]petSummary, 0, len(v.Pets))
	for _, p := range v.Pets {
		ps = append(ps, toPetSummary(p))
	}
	return groupResponse{
		ID:          v.Group.ID,
		Name:        v.Group.Name,
		Description: v.Group.Description,
		Members:     v.Members,
		Pets:        ps,
		CreatedAt:   v.Group.CreatedAt,
		UpdatedAt:   v.Group.UpdatedAt,
	}
}

func toPetSummary(p pets.Pet) petSummary {
	return petSummary{ID: p.ID, Name: p.Name, Species: p.Species, ImgURL: p.ImgURL}
}

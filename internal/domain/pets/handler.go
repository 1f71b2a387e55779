package pets

import (
	"net/http"
	"time"

	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/apperr"
	"pet-care-hub/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		pr.Route("/{petID}", func(one chi.Router) {
			one.Get("/", getPetHandler(svc))
			one.Patch("/", updatePetHandler(svc))

			one.Post("/tasks", addTaskHandler(svc))
			one.Put("/tasks/{taskID}", updateTaskHandler(svc))
			one.Delete("/tasks/{taskID}", deleteTaskHandler(svc))
			one.Put("/tasks/{taskID}/status", setTaskStatusHandler(svc))

			one.Post("/treatments", addTreatmentHandler(svc))
			one.Delete("/treatments/{treatmentID}", deleteTreatmentHandler(svc))

			one.Put("/members/{userID}", addMemberHandler(svc))
			one.Delete("/members/{userID}", removeMemberHandler(svc))
		})
	})

	// Vistas por usuario
	r.Get("/users/{userID}/pets", userPetsHandler(svc))
	r.Get("/users/{userID}/tasks", userTasksHandler(svc))
	r.Get("/users/{userID}/today-tasks", userTodayTasksHandler(svc))
}

type createPetRequest struct {
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     string  `json:"breed"`
	BirthDate string  `json:"birthDate"` // RFC3339 o YYYY-MM-DD, opcional
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
	ImgURL    string  `json:"imgUrl"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string  `json:"name"`
	Species   *string  `json:"species"`
	Breed     *string  `json:"breed"`
	BirthDate *string  `json:"birthDate"`
	Height    *float64 `json:"height"`
	Weight    *float64 `json:"weight"`
	ImgURL    *string  `json:"imgUrl"`
}

type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DateFrom    *string `json:"dateFrom"`
	DateTo      *string `json:"dateTo"`
}

type taskStatusRequest struct {
	IsCompleted *bool `json:"isCompleted"`
}

type treatmentRequest struct {
	Treatment string `json:"treatment"`
	Date      string `json:"date"`
}

type petResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Species    string              `json:"species"`
	Breed      string              `json:"breed"`
	BirthDate  *time.Time          `json:"birthDate,omitempty"`
	Height     float64             `json:"height"`
	Weight     float64             `json:"weight"`
	ImgURL     string              `json:"imgUrl"`
	Tasks      []taskResponse      `json:"tasks"`
	Treatments []treatmentResponse `json:"medical"`
	Members    []users.Summary     `json:"members,omitempty"`
	Groups     []GroupSummary      `json:"groups,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DateFrom    time.Time `json:"dateFrom"`
	DateTo      time.Time `json:"dateTo"`
	IsCompleted bool      `json:"isCompleted"`
}

type treatmentResponse struct {
	ID        string    `json:"id"`
	Treatment string    `json:"treatment"`
	Date      time.Time `json:"date"`
}

type petTasksResponse struct {
	PetID   string         `json:"petId"`
	PetName string         `json:"petName"`
	Tasks   []taskResponse `json:"tasks"`
}

// createPetHandler godoc
// @Summary      Crear mascota
// @Description  El usuario autenticado queda como miembro
// @Tags         pets
// @Accept       json
// @Produce      json
// @Param        body  body      createPetRequest  true  "datos de la mascota"
// @Success      201   {object}  petResponse
// @Failure      400   {string}  string  "name is required"
// @Router       /api/pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := httpx.ActorID(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		bd, err := httpx.ParseOptionalDate("birthDate", &req.BirthDate)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.Create(r.Context(), actor, CreateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: bd,
			Height:    req.Height,
			Weight:    req.Weight,
			ImgURL:    req.ImgURL,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		v, err := svc.View(r.Context(), p.ID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toViewResponse(v))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]petResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toViewResponse(v))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary      Ver mascota
// @Tags         pets
// @Produce      json
// @Param        petID  path      string  true  "pet id"
// @Success      200    {object}  petResponse
// @Failure      404    {string}  string  "pet not found"
// @Router       /api/pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.View(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toViewResponse(v))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		bd, err := httpx.ParseOptionalDate("birthDate", req.BirthDate)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		petID := chi.URLParam(r, "petID")
		if _, err := svc.Update(r.Context(), petID, UpdateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: bd,
			Height:    req.Height,
			Weight:    req.Weight,
			ImgURL:    req.ImgURL,
		}); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		v, err := svc.View(r.Context(), petID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toViewResponse(v))
	}
}

// addTaskHandler godoc
// @Summary      Agregar tarea
// @Tags         pets
// @Accept       json
// @Produce      json
// @Param        petID  path      string       true  "pet id"
// @Param        body   body      taskRequest  true  "title, description, dateFrom, dateTo"
// @Success      201    {object}  taskResponse
// @Failure      400    {string}  string  "title is required"
// @Failure      404    {string}  string  "pet not found"
// @Router       /api/pets/{petID}/tasks [post]
func addTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req taskRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		in, err := req.toInput()
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		t, err := svc.AddTask(r.Context(), chi.URLParam(r, "petID"), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toTaskResponse(t))
	}
}

func updateTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req taskRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		from, err := httpx.ParseOptionalDate("dateFrom", req.DateFrom)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		to, err := httpx.ParseOptionalDate("dateTo", req.DateTo)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		t, err := svc.UpdateTask(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "taskID"), TaskPatch{
			Title:       req.Title,
			Description: req.Description,
			DateFrom:    from,
			DateTo:      to,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toTaskResponse(t))
	}
}

func setTaskStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req taskStatusRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if req.IsCompleted == nil {
			httpx.WriteError(w, r, apperr.Invalid("isCompleted is required"))
			return
		}

		t, err := svc.SetTaskCompleted(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "taskID"), *req.IsCompleted)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toTaskResponse(t))
	}
}

func deleteTaskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteTask(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "taskID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req treatmentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		date, err := httpx.ParseDate("date", req.Date)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		t, err := svc.AddTreatment(r.Context(), chi.URLParam(r, "petID"), TreatmentInput{
			Description: req.Treatment,
			Date:        date,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toTreatmentResponse(t))
	}
}

func deleteTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteTreatment(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "treatmentID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addMemberHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		if err := svc.AddMember(r.Context(), petID, chi.URLParam(r, "userID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		v, err := svc.View(r.Context(), petID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toViewResponse(v))
	}
}

func removeMemberHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RemoveMember(r.Context(), chi.URLParam(r, "petID"), chi.URLParam(r, "userID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func userPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListForUser(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// userTasksHandler godoc
// @Summary      Tareas del usuario
// @Description  Mascotas directas y de sus grupos, cada mascota una vez
// @Tags         users
// @Produce      json
// @Param        userID  path     string  true  "user id"
// @Success      200     {array}  petTasksResponse
// @Router       /api/users/{userID}/tasks [get]
func userTasksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.TasksForUser(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetTasksResponse(items))
	}
}

func userTodayTasksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.TodayTasksForUser(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetTasksResponse(items))
	}
}

func (req taskRequest) toInput() (TaskInput, error) {
	var in TaskInput
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.DateFrom == nil || req.DateTo == nil {
		return TaskInput{}, apperr.Invalid("dateFrom and dateTo are required")
	}
	from, err := httpx.ParseDate("dateFrom", *req.DateFrom)
	if err != nil {
		return TaskInput{}, err
	}
	to, err := httpx.ParseDate("dateTo", *req.DateTo)
	if err != nil {
		return TaskInput{}, err
	}
	in.DateFrom, in.DateTo = from, to
	return in, nil
}

func toViewResponse(v View) petResponse {
	out := toPetResponse(v.Pet)
	out.Members = v.Members
	out.Groups = v.Groups
	return out
}

func toPetResponse(p Pet) petResponse {
	tasks := make([]taskResponse, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, toTaskResponse(t))
	}
	treatments := make([]treatmentResponse, 0, len(p.Treatments))
	for _, t := range p.Treatments {
		treatments = append(treatments, toTreatmentResponse(t))
	}
	return petResponse{
		ID:         p.ID,
		Name:       p.Name,
		Species:    p.Species,
		Breed:      p.Breed,
		BirthDate:  p.BirthDate,
		Height:     p.Height,
		Weight:     p.Weight,
		ImgURL:     p.ImgURL,
		Tasks:      tasks,
		Treatments: treatments,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toTaskResponse(t Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DateFrom:    t.DateFrom,
		DateTo:      t.DateTo,
		IsCompleted: t.IsCompleted,
	}
}

func toTreatmentResponse(t Treatment) treatmentResponse {
	return treatmentResponse{ID: t.ID, Treatment: t.Description, Date: t.Date}
}

func toPetTasksResponse(items []PetTasks) []petTasksResponse {
	out := make([]petTasksResponse, 0, len(items))
	for _, pt := range items {
		tasks := make([]taskResponse, 0, len(pt.Tasks))
		for _, t := range pt.Tasks {
			tasks = append(tasks, toTaskResponse(t))
		}
		out = append(out, petTasksResponse{PetID: pt.PetID, PetName: pt.PetName, Tasks: tasks})
	}
	return out
}

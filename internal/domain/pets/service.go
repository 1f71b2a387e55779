package pets

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/apperr"

	"github.com/google/uuid"
)

// GroupDirectory resuelve grupos sin que pets importe groups (groups ya importa pets).
type GroupDirectory interface {
	Summaries(ctx context.Context, ids []string) ([]GroupSummary, error)
}

type Service struct {
	repo   Repository
	users  *users.Service
	edges  *memberships.Service
	groups GroupDirectory
	loc    *time.Location
	now    func() time.Time
}

func NewService(repo Repository, usersSvc *users.Service, edges *memberships.Service) *Service {
	return &Service{
		repo:  repo,
		users: usersSvc,
		edges: edges,
		loc:   time.UTC,
		now:   time.Now,
	}
}

// SetGroupDirectory se llama después de construir groups.Service.
func (s *Service) SetGroupDirectory(g GroupDirectory) { s.groups = g }

// SetLocation fija la zona usada para "hoy" en TodayTasksForUser.
func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	BirthDate *time.Time
	Height    float64
	Weight    float64
	ImgURL    string
}

// Create da de alta la mascota y deja al creador como miembro.
func (s *Service) Create(ctx context.Context, actorID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(actorID) == "" {
		return Pet{}, apperr.ErrUnauthorized
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pet{}, apperr.Invalid("name is required")
	}
	if in.Height < 0 || in.Weight < 0 {
		return Pet{}, apperr.Invalid("height and weight must not be negative")
	}

	now := s.now()
	p := Pet{
		ID:         uuid.NewString(),
		Name:       name,
		Species:    strings.TrimSpace(in.Species),
		Breed:      strings.TrimSpace(in.Breed),
		BirthDate:  in.BirthDate,
		Height:     in.Height,
		Weight:     in.Weight,
		ImgURL:     strings.TrimSpace(in.ImgURL),
		Tasks:      []Task{},
		Treatments: []Treatment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	if err := s.edges.Link(ctx, memberships.KindUserPet, actorID, p.ID); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, apperr.Invalid("pet id is required")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, notFound(err, "pet")
	}
	return p, nil
}

// Exists se usa antes de crear aristas hacia mascotas.
func (s *Service) Exists(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// View devuelve la mascota con miembros y grupos resueltos.
func (s *Service) View(ctx context.Context, id string) (View, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.populate(ctx, p)
}

func (s *Service) List(ctx context.Context) ([]View, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(items))
	for _, p := range items {
		v, err := s.populate(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ListByIDs conserva el orden de ids y omite los que ya no existen.
func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]Pet, error) {
	if len(ids) == 0 {
		return []Pet{}, nil
	}
	items, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Pet, len(items))
	for _, p := range items {
		byID[p.ID] = p
	}
	out := make([]Pet, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string
	Species   *string
	Breed     *string
	BirthDate *time.Time
	Height    *float64
	Weight    *float64
	ImgURL    *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, apperr.Invalid("name must not be empty")
		}
		p.Name = name
	}
	if in.Species != nil {
		p.Species = strings.TrimSpace(*in.Species)
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.BirthDate != nil {
		bd := *in.BirthDate
		p.BirthDate = &bd
	}
	if in.Height != nil {
		if *in.Height < 0 {
			return Pet{}, apperr.Invalid("height must not be negative")
		}
		p.Height = *in.Height
	}
	if in.Weight != nil {
		if *in.Weight < 0 {
			return Pet{}, apperr.Invalid("weight must not be negative")
		}
		p.Weight = *in.Weight
	}
	if in.ImgURL != nil {
		p.ImgURL = strings.TrimSpace(*in.ImgURL)
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, notFound(err, "pet")
	}
	return p, nil
}

type TaskInput struct {
	Title       string
	Description string
	DateFrom    time.Time
	DateTo      time.Time
}

func (s *Service) AddTask(ctx context.Context, petID string, in TaskInput) (Task, error) {
	t := Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		DateFrom:    in.DateFrom,
		DateTo:      in.DateTo,
	}
	if err := validateTask(t); err != nil {
		return Task{}, err
	}
	if _, err := s.GetByID(ctx, petID); err != nil {
		return Task{}, err
	}
	if err := s.repo.AddTask(ctx, petID, t); err != nil {
		return Task{}, notFound(err, "pet")
	}
	return t, nil
}

type TaskPatch struct {
	Title       *string
	Description *string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// UpdateTask aplica el patch. Si cambia DateFrom la tarea vuelve a ser
// candidata a notificación.
func (s *Service) UpdateTask(ctx context.Context, petID, taskID string, in TaskPatch) (Task, error) {
	t, err := s.task(ctx, petID, taskID)
	if err != nil {
		return Task{}, err
	}

	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	reset := false
	if in.DateFrom != nil {
		reset = !in.DateFrom.Equal(t.DateFrom)
		t.DateFrom = *in.DateFrom
	}
	if in.DateTo != nil {
		t.DateTo = *in.DateTo
	}
	if err := validateTask(t); err != nil {
		return Task{}, err
	}

	if err := s.repo.UpdateTask(ctx, petID, t, reset); err != nil {
		return Task{}, notFound(err, "task")
	}
	return s.task(ctx, petID, t.ID)
}

// SetTaskCompleted solo escribe is_completed. Si un tick del scanner ya leyó
// la tarea como pendiente, el aviso sale igual (carrera conocida).
func (s *Service) SetTaskCompleted(ctx context.Context, petID, taskID string, completed bool) (Task, error) {
	t, err := s.task(ctx, petID, taskID)
	if err != nil {
		return Task{}, err
	}
	if err := s.repo.SetTaskCompleted(ctx, petID, t.ID, completed); err != nil {
		return Task{}, notFound(err, "task")
	}
	return s.task(ctx, petID, t.ID)
}

func (s *Service) DeleteTask(ctx context.Context, petID, taskID string) error {
	if _, err := s.task(ctx, petID, taskID); err != nil {
		return err
	}
	return notFound(s.repo.DeleteTask(ctx, petID, taskID), "task")
}

type TreatmentInput struct {
	Description string
	Date        time.Time
}

func (s *Service) AddTreatment(ctx context.Context, petID string, in TreatmentInput) (Treatment, error) {
	t := Treatment{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
	}
	if t.Description == "" {
		return Treatment{}, apperr.Invalid("treatment is required")
	}
	if t.Date.IsZero() {
		return Treatment{}, apperr.Invalid("date is required")
	}
	if _, err := s.GetByID(ctx, petID); err != nil {
		return Treatment{}, err
	}
	if err := s.repo.AddTreatment(ctx, petID, t); err != nil {
		return Treatment{}, notFound(err, "pet")
	}
	return t, nil
}

func (s *Service) DeleteTreatment(ctx context.Context, petID, treatmentID string) error {
	if _, err := s.GetByID(ctx, petID); err != nil {
		return err
	}
	return notFound(s.repo.DeleteTreatment(ctx, petID, strings.TrimSpace(treatmentID)), "treatment")
}

func (s *Service) AddMember(ctx context.Context, petID, userID string) error {
	if _, err := s.GetByID(ctx, petID); err != nil {
		return err
	}
	if err := s.users.Exists(ctx, userID); err != nil {
		return err
	}
	return s.edges.Link(ctx, memberships.KindUserPet, userID, petID)
}

func (s *Service) RemoveMember(ctx context.Context, petID, userID string) error {
	if _, err := s.GetByID(ctx, petID); err != nil {
		return err
	}
	return s.edges.Unlink(ctx, memberships.KindUserPet, userID, petID)
}

// ListForUser devuelve solo las mascotas de las que el usuario es miembro directo.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Pet, error) {
	if err := s.users.Exists(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.edges.RightsOf(ctx, memberships.KindUserPet, userID)
	if err != nil {
		return nil, err
	}
	return s.ListByIDs(ctx, ids)
}

// TasksForUser junta tareas de mascotas directas y de mascotas de sus grupos.
// Cada mascota aparece una sola vez.
func (s *Service) TasksForUser(ctx context.Context, userID string) ([]PetTasks, error) {
	if err := s.users.Exists(ctx, userID); err != nil {
		return nil, err
	}

	petIDs, err := s.edges.RightsOf(ctx, memberships.KindUserPet, userID)
	if err != nil {
		return nil, err
	}
	groupIDs, err := s.edges.RightsOf(ctx, memberships.KindUserGroup, userID)
	if err != nil {
		return nil, err
	}
	for _, gid := range groupIDs {
		viaGroup, err := s.edges.LeftsOf(ctx, memberships.KindPetGroup, gid)
		if err != nil {
			return nil, err
		}
		petIDs = append(petIDs, viaGroup...)
	}

	items, err := s.ListByIDs(ctx, dedupe(petIDs))
	if err != nil {
		return nil, err
	}
	out := make([]PetTasks, 0, len(items))
	for _, p := range items {
		out = append(out, PetTasks{PetID: p.ID, PetName: p.Name, Tasks: p.Tasks})
	}
	return out, nil
}

// TodayTasksForUser: mascotas directas, tareas cuyo DateTo cae hoy (zona
// configurada), ordenadas por DateFrom. Mascotas sin tareas de hoy no salen.
func (s *Service) TodayTasksForUser(ctx context.Context, userID string) ([]PetTasks, error) {
	items, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1)

	out := make([]PetTasks, 0, len(items))
	for _, p := range items {
		today := make([]Task, 0)
		for _, t := range p.Tasks {
			if !t.DateTo.Before(start) && t.DateTo.Before(end) {
				today = append(today, t)
			}
		}
		if len(today) == 0 {
			continue
		}
		sort.SliceStable(today, func(i, j int) bool {
			return today[i].DateFrom.Before(today[j].DateFrom)
		})
		out = append(out, PetTasks{PetID: p.ID, PetName: p.Name, Tasks: today})
	}
	return out, nil
}

// ListTasksDue lo usa el scanner de notificaciones.
func (s *Service) ListTasksDue(ctx context.Context, from, to time.Time) ([]DueTask, error) {
	if !from.Before(to) {
		return []DueTask{}, nil
	}
	return s.repo.ListTasksDue(ctx, from, to)
}

func (s *Service) MarkTaskNotified(ctx context.Context, petID, taskID string, at time.Time) error {
	return s.repo.MarkTaskNotified(ctx, petID, taskID, at)
}

func (s *Service) populate(ctx context.Context, p Pet) (View, error) {
	v := View{Pet: p, Members: []users.Summary{}, Groups: []GroupSummary{}}

	memberIDs, err := s.edges.LeftsOf(ctx, memberships.KindUserPet, p.ID)
	if err != nil {
		return View{}, err
	}
	if v.Members, err = s.users.Summaries(ctx, memberIDs); err != nil {
		return View{}, err
	}

	if s.groups == nil {
		return v, nil
	}
	groupIDs, err := s.edges.RightsOf(ctx, memberships.KindPetGroup, p.ID)
	if err != nil {
		return View{}, err
	}
	if v.Groups, err = s.groups.Summaries(ctx, groupIDs); err != nil {
		return View{}, err
	}
	return v, nil
}

func (s *Service) task(ctx context.Context, petID, taskID string) (Task, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Task{}, err
	}
	taskID = strings.TrimSpace(taskID)
	for _, t := range p.Tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return Task{}, apperr.NotFound("task")
}

func validateTask(t Task) error {
	if t.Title == "" {
		return apperr.Invalid("title is required")
	}
	if t.DateFrom.IsZero() || t.DateTo.IsZero() {
		return apperr.Invalid("dateFrom and dateTo are required")
	}
	if t.DateTo.Before(t.DateFrom) {
		return apperr.Invalid("dateTo must not be before dateFrom")
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFound(what)
	}
	return err
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-care-hub/internal/domain/pets"

	sq "github.com/Masterminds/squirrel"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var (
	petColumns  = []string{"id", "name", "species", "breed", "birth_date", "height", "weight", "img_url", "created_at", "updated_at"}
	taskColumns = []string{"id", "pet_id", "title", "description", "date_from", "date_to", "is_completed", "notified_at"}
)

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, name, species, breed,
			birth_date, height, weight, img_url,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.Name,
		p.Species,
		p.Breed,
		toNullTime(p.BirthDate),
		p.Height,
		p.Weight,
		p.ImgURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr(err)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			birth_date = $5,
			height = $6,
			weight = $7,
			img_url = $8,
			updated_at = $9
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Species,
		p.Breed,
		toNullTime(p.BirthDate),
		p.Height,
		p.Weight,
		p.ImgURL,
		p.UpdatedAt,
	))
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}
	items, err := r.list(ctx, psql.Select(petColumns...).From("pets").Where(sq.Eq{"id": id}))
	if err != nil {
		return pets.Pet{}, err
	}
	if len(items) == 0 {
		return pets.Pet{}, ErrNotFound
	}
	return items[0], nil
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	return r.list(ctx, psql.Select(petColumns...).From("pets").OrderBy("created_at DESC", "id"))
}

func (r *PetsRepo) ListByIDs(ctx context.Context, ids []string) ([]pets.Pet, error) {
	if len(ids) == 0 {
		return []pets.Pet{}, nil
	}
	return r.list(ctx, psql.Select(petColumns...).From("pets").Where(sq.Eq{"id": ids}))
}

// list trae las mascotas y después sus hijos en dos queries (IN por pet_id).
func (r *PetsRepo) list(ctx context.Context, b sq.SelectBuilder) ([]pets.Pet, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	index := make(map[string]int)
	for rows.Next() {
		var p pets.Pet
		var bd sql.NullTime
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Species,
			&p.Breed,
			&bd,
			&p.Height,
			&p.Weight,
			&p.ImgURL,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		// birth_date es DATE: pgx lo devuelve como medianoche UTC
		p.BirthDate = fromNullTime(bd)
		p.Tasks = []pets.Task{}
		p.Treatments = []pets.Treatment{}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	for _, p := range out {
		ids = append(ids, p.ID)
	}
	if err := r.loadTasks(ctx, ids, func(petID string, t pets.Task) {
		i := index[petID]
		out[i].Tasks = append(out[i].Tasks, t)
	}); err != nil {
		return nil, err
	}
	if err := r.loadTreatments(ctx, ids, func(petID string, t pets.Treatment) {
		i := index[petID]
		out[i].Treatments = append(out[i].Treatments, t)
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PetsRepo) loadTasks(ctx context.Context, petIDs []string, add func(string, pets.Task)) error {
	query, args, err := psql.Select(taskColumns...).From("pet_tasks").
		Where(sq.Eq{"pet_id": petIDs}).OrderBy("position").ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		petID, t, err := scanTask(rows)
		if err != nil {
			return err
		}
		add(petID, t)
	}
	return rows.Err()
}

func (r *PetsRepo) loadTreatments(ctx context.Context, petIDs []string, add func(string, pets.Treatment)) error {
	query, args, err := psql.Select("id", "pet_id", "description", "date").From("pet_treatments").
		Where(sq.Eq{"pet_id": petIDs}).OrderBy("position").ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			petID string
			t     pets.Treatment
		)
		if err := rows.Scan(&t.ID, &petID, &t.Description, &t.Date); err != nil {
			return err
		}
		add(petID, t)
	}
	return rows.Err()
}

func (r *PetsRepo) AddTask(ctx context.Context, petID string, t pets.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_tasks (id, pet_id, title, description, date_from, date_to, is_completed, notified_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, t.ID, petID, t.Title, t.Description, t.DateFrom, t.DateTo, t.IsCompleted, toNullTime(t.NotifiedAt))
	return mapErr(err)
}

func (r *PetsRepo) UpdateTask(ctx context.Context, petID string, t pets.Task, resetNotified bool) error {
	b := psql.Update("pet_tasks").
		Set("title", t.Title).
		Set("description", t.Description).
		Set("date_from", t.DateFrom).
		Set("date_to", t.DateTo).
		Where(sq.Eq{"pet_id": petID, "id": t.ID})
	if resetNotified {
		b = b.Set("notified_at", nil)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return mustAffect(r.db.ExecContext(ctx, query, args...))
}

func (r *PetsRepo) SetTaskCompleted(ctx context.Context, petID, taskID string, completed bool) error {
	return mustAffect(r.db.ExecContext(ctx,
		`UPDATE pet_tasks SET is_completed = $3 WHERE pet_id = $1 AND id = $2`, petID, taskID, completed))
}

func (r *PetsRepo) DeleteTask(ctx context.Context, petID, taskID string) error {
	return mustAffect(r.db.ExecContext(ctx,
		`DELETE FROM pet_tasks WHERE pet_id = $1 AND id = $2`, petID, taskID))
}

func (r *PetsRepo) MarkTaskNotified(ctx context.Context, petID, taskID string, at time.Time) error {
	return mustAffect(r.db.ExecContext(ctx,
		`UPDATE pet_tasks SET notified_at = $3 WHERE pet_id = $1 AND id = $2`, petID, taskID, at))
}

func (r *PetsRepo) AddTreatment(ctx context.Context, petID string, t pets.Treatment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_treatments (id, pet_id, description, date) VALUES ($1,$2,$3,$4)
	`, t.ID, petID, t.Description, t.Date)
	return mapErr(err)
}

func (r *PetsRepo) DeleteTreatment(ctx context.Context, petID, treatmentID string) error {
	return mustAffect(r.db.ExecContext(ctx,
		`DELETE FROM pet_treatments WHERE pet_id = $1 AND id = $2`, petID, treatmentID))
}

func (r *PetsRepo) ListTasksDue(ctx context.Context, from, to time.Time) ([]pets.DueTask, error) {
	rows, err := r.db.QueryContext(ctx, dueTasksQuery, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.DueTask, 0)
	for rows.Next() {
		var d pets.DueTask
		var notified sql.NullTime
		if err := rows.Scan(
			&d.Task.ID, &d.PetID, &d.Task.Title, &d.Task.Description,
			&d.Task.DateFrom, &d.Task.DateTo, &d.Task.IsCompleted, &notified,
			&d.PetName,
		); err != nil {
			return nil, err
		}
		d.Task.NotifiedAt = fromNullTime(notified)
		out = append(out, d)
	}
	return out, rows.Err()
}

// dueTasksQuery: abiertas, sin avisar, from <= date_from < to.
const dueTasksQuery = `
	SELECT t.id, t.pet_id, t.title, t.description,
	       t.date_from, t.date_to, t.is_completed, t.notified_at,
	       p.name
	FROM pet_tasks t
	JOIN pets p ON p.id = t.pet_id
	WHERE NOT t.is_completed
	  AND t.notified_at IS NULL
	  AND t.date_from >= $1 AND t.date_from < $2
	ORDER BY t.date_from, t.id
`

func scanTask(s rowScanner) (string, pets.Task, error) {
	var (
		petID    string
		t        pets.Task
		notified sql.NullTime
	)
	err := s.Scan(&t.ID, &petID, &t.Title, &t.Description, &t.DateFrom, &t.DateTo, &t.IsCompleted, &notified)
	t.NotifiedAt = fromNullTime(notified)
	return petID, t, err
}

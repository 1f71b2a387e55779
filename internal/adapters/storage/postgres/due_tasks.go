package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/domain/notifications"

	sq "github.com/Masterminds/squirrel"
)

// DueTasks resuelve tareas vencidas y sus destinatarios con joins, en una
// transacción de solo lectura (tres queries en total, no una por mascota).
type DueTasks struct {
	db   *sql.DB
	pets *PetsRepo
}

func NewDueTasks(db *sql.DB) *DueTasks {
	return &DueTasks{db: db, pets: NewPetsRepo(db)}
}

func (d *DueTasks) FindDue(ctx context.Context, from, to time.Time) ([]notifications.Job, error) {
	var jobs []notifications.Job
	err := withTx(ctx, d.db, &sql.TxOptions{ReadOnly: true}, func(tx *sql.Tx) error {
		var err error
		jobs, err = findJobs(ctx, tx, from, to)
		if err != nil || len(jobs) == 0 {
			return err
		}

		petIDs := make([]string, 0, len(jobs))
		seen := make(map[string]bool)
		for _, j := range jobs {
			if !seen[j.PetID] {
				seen[j.PetID] = true
				petIDs = append(petIDs, j.PetID)
			}
		}

		direct, err := directEmails(ctx, tx, petIDs)
		if err != nil {
			return err
		}
		byGroup, err := groupEmails(ctx, tx, petIDs)
		if err != nil {
			return err
		}

		for i := range jobs {
			jobs[i].DirectEmails = direct[jobs[i].PetID]
			jobs[i].GroupEmails = byGroup[jobs[i].PetID]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (d *DueTasks) MarkNotified(ctx context.Context, petID, taskID string, at time.Time) error {
	return d.pets.MarkTaskNotified(ctx, petID, taskID, at)
}

func findJobs(ctx context.Context, tx *sql.Tx, from, to time.Time) ([]notifications.Job, error) {
	rows, err := tx.QueryContext(ctx, dueTasksQuery, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notifications.Job, 0)
	for rows.Next() {
		var (
			j         notifications.Job
			dateTo    time.Time
			completed bool
			notified  sql.NullTime
		)
		if err := rows.Scan(
			&j.TaskID, &j.PetID, &j.Title, &j.Description,
			&j.DateFrom, &dateTo, &completed, &notified,
			&j.PetName,
		); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// directEmails: pet_id -> emails de sus miembros directos.
func directEmails(ctx context.Context, tx *sql.Tx, petIDs []string) (map[string][]string, error) {
	query, args, err := psql.Select("m.right_id", "u.email").
		From("memberships m").
		Join("users u ON u.id = m.left_id").
		Where(sq.Eq{"m.kind": string(memberships.KindUserPet), "m.right_id": petIDs}).
		OrderBy("m.right_id", "u.email").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var petID, email string
		if err := rows.Scan(&petID, &email); err != nil {
			return nil, err
		}
		out[petID] = append(out[petID], email)
	}
	return out, rows.Err()
}

// groupEmails: pet_id -> grupos de la mascota con los emails de sus miembros.
func groupEmails(ctx context.Context, tx *sql.Tx, petIDs []string) (map[string][]notifications.GroupEmails, error) {
	query, args, err := psql.Select("pg.left_id", "pg.right_id", "u.email").
		From("memberships pg").
		Join("memberships ug ON ug.kind = ? AND ug.right_id = pg.right_id", string(memberships.KindUserGroup)).
		Join("users u ON u.id = ug.left_id").
		Where(sq.Eq{"pg.kind": string(memberships.KindPetGroup), "pg.left_id": petIDs}).
		OrderBy("pg.left_id", "pg.right_id", "u.email").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]notifications.GroupEmails)
	for rows.Next() {
		var petID, groupID, email string
		if err := rows.Scan(&petID, &groupID, &email); err != nil {
			return nil, err
		}
		list := out[petID]
		if n := len(list); n > 0 && list[n-1].GroupID == groupID {
			list[n-1].Emails = append(list[n-1].Emails, email)
		} else {
			list = append(list, notifications.GroupEmails{GroupID: groupID, Emails: []string{email}})
		}
		out[petID] = list
	}
	return out, rows.Err()
}

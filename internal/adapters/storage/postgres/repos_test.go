package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"pet-care-hub/internal/domain/books"
	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/domain/pets"
	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestUsersRepo_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE lower(email) = lower($1)`)).
		WithArgs("ana@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "ana@x.com", "Ana", "hash", t0, t0))
	mock.ExpectQuery(`SELECT token FROM user_refresh_tokens`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow("r1").AddRow("r2"))

	u, err := repo.GetByEmail(context.Background(), " ana@x.com ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, []string{"r1", "r2"}, u.RefreshTokens)
}

func TestUsersRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUsersRepo_Create_UniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := repo.Create(context.Background(), users.User{ID: "u1", Email: "a@x.com", Name: "A", CreatedAt: t0, UpdatedAt: t0})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUsersRepo_ReplaceRefreshToken(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_refresh_tokens`).WithArgs("u1", "old").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_refresh_tokens`).WithArgs("u1", "new").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.ReplaceRefreshToken(context.Background(), "u1", "old", "new")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUsersRepo_ReplaceRefreshToken_Unknown(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_refresh_tokens`).WithArgs("u1", "old").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.ReplaceRefreshToken(context.Background(), "u1", "old", "new")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUsersRepo_Search(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectQuery(`FROM users WHERE \(name ILIKE \$1 OR email ILIKE \$2\) ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "omen@x.com", "Menahem", "h", t0, t0))

	got, err := repo.Search(context.Background(), "men")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].ID)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}

func TestPetsRepo_GetByID_LoadsChildren(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectQuery(`FROM pets WHERE id = \$1`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(petColumns).
			AddRow("p1", "Rex", "dog", "lab", nil, 50.0, 30.5, "", t0, t0))
	mock.ExpectQuery(`FROM pet_tasks WHERE pet_id IN \(\$1\) ORDER BY position`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow("t1", "p1", "walk", "", t0, t0.Add(time.Hour), false, nil).
			AddRow("t2", "p1", "feed", "", t0, t0.Add(time.Hour), true, t0))
	mock.ExpectQuery(`FROM pet_treatments WHERE pet_id IN \(\$1\) ORDER BY position`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "pet_id", "description", "date"}).
			AddRow("m1", "p1", "rabies", t0))

	p, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Rex", p.Name)
	assert.Nil(t, p.BirthDate)
	require.Len(t, p.Tasks, 2)
	assert.Nil(t, p.Tasks[0].NotifiedAt)
	require.NotNil(t, p.Tasks[1].NotifiedAt)
	assert.True(t, p.Tasks[1].IsCompleted)
	require.Len(t, p.Treatments, 1)
	assert.Equal(t, "rabies", p.Treatments[0].Description)
}

func TestPetsRepo_UpdateTask_LeavesCompletionAndNotified(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectExec(`UPDATE pet_tasks SET title = \$1, description = \$2, date_from = \$3, date_to = \$4 WHERE id = \$5 AND pet_id = \$6`).
		WithArgs("walk", "park", t0, t0, "t1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateTask(context.Background(), "p1", pets.Task{ID: "t1", Title: "walk", Description: "park", DateFrom: t0, DateTo: t0}, false)
	require.NoError(t, err)
}

func TestPetsRepo_UpdateTask_ResetNotified(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectExec(`date_to = \$4, notified_at = \$5 WHERE`).
		WithArgs("walk", "", t0, t0, sqlmock.AnyArg(), "t1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateTask(context.Background(), "p1", pets.Task{ID: "t1", Title: "walk", DateFrom: t0, DateTo: t0}, true)
	require.NoError(t, err)
}

func TestPetsRepo_SetTaskCompleted_OnlyTouchesFlag(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectExec(`UPDATE pet_tasks SET is_completed = \$3 WHERE pet_id = \$1 AND id = \$2`).
		WithArgs("p1", "t1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetTaskCompleted(context.Background(), "p1", "t1", true))
}

func TestPetsRepo_MarkTaskNotified_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectExec(`UPDATE pet_tasks SET notified_at`).
		WithArgs("p1", "t9", t0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkTaskNotified(context.Background(), "p1", "t9", t0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPetsRepo_AddTask_MissingPet(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectExec(`INSERT INTO pet_tasks`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	err := repo.AddTask(context.Background(), "nope", petTask("t1"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEdgesRepo_Link(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEdgesRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO memberships (kind,left_id,right_id) VALUES ($1,$2,$3),($4,$5,$6) ON CONFLICT DO NOTHING`)).
		WithArgs("user_group", "u1", "g1", "user_group", "u2", "g1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.Link(context.Background(),
		memberships.Edge{Kind: memberships.KindUserGroup, LeftID: "u1", RightID: "g1"},
		memberships.Edge{Kind: memberships.KindUserGroup, LeftID: "u2", RightID: "g1"},
	)
	require.NoError(t, err)
}

func TestEdgesRepo_Link_RollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEdgesRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO memberships`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Link(context.Background(), memberships.Edge{Kind: memberships.KindUserPet, LeftID: "u1", RightID: "p1"})
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestEdgesRepo_UnlinkAll_RightSide(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEdgesRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM memberships WHERE kind = $1 AND right_id = $2`)).
		WithArgs("pet_group", "g1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.UnlinkAll(context.Background(), memberships.KindPetGroup, memberships.SideRight, "g1"))
}

func TestEdgesRepo_Rights(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEdgesRepo(db)

	mock.ExpectQuery(`SELECT right_id FROM memberships`).
		WithArgs("user_pet", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"right_id"}).AddRow("p1").AddRow("p2"))

	ids, err := repo.Rights(context.Background(), memberships.KindUserPet, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)
}

func TestReadingsRepo_DecodesProgressAndReview(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReadingsRepo(db)

	mock.ExpectQuery(`FROM readings WHERE id = \$1`).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(readingColumns).AddRow(
			"r1", "u1", "b1", t0, t0.Add(48*time.Hour),
			[]byte(`[{"percentage":40,"at":"2024-03-01T10:00:00Z"},{"percentage":100,"comment":"done","at":"2024-03-03T10:00:00Z"}]`),
			int64(4), "good", t0, t0,
		))

	rd, err := repo.GetReading(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, rd.Progress, 2)
	assert.Equal(t, 100, rd.Percentage())
	require.NotNil(t, rd.EndDate)
	require.NotNil(t, rd.Review)
	assert.Equal(t, books.Review{Rating: 4, Description: "good"}, *rd.Review)
}

func TestReadingsRepo_CreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReadingsRepo(db)

	mock.ExpectExec(`INSERT INTO readings`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := repo.CreateReading(context.Background(), books.Reading{ID: "r1", UserID: "u1", BookID: "b1", StartDate: t0})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

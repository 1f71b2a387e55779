package notifications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	mem "pet-care-hub/internal/adapters/storage/memory"
	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/domain/pets"
	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/logger"
	"pet-care-hub/internal/ports/mail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, m mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

type world struct {
	users   *users.Service
	pets    *pets.Service
	edges   *memberships.Service
	sender  *fakeSender
	scanner *Scanner
	now     time.Time
}

func newWorld(t *testing.T) *world {
	t.Helper()
	usersSvc := users.NewService(mem.NewUserRepo())
	edges := memberships.NewService(mem.NewEdgeRepo())
	petsSvc := pets.NewService(mem.NewPetRepo(), usersSvc, edges)

	w := &world{
		users:  usersSvc,
		pets:   petsSvc,
		edges:  edges,
		sender: &fakeSender{},
		now:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	finder := NewServiceFinder(petsSvc, usersSvc, edges)
	w.scanner = NewScanner(finder, finder, NewNotifier(w.sender, "noreply@x.com"), logger.Nop(), ScannerOptions{
		Interval:   time.Minute,
		MaxCatchUp: time.Hour,
	})
	w.scanner.now = func() time.Time { return w.now }
	return w
}

func (w *world) user(t *testing.T, email string) string {
	t.Helper()
	u, err := w.users.Signup(context.Background(), users.SignupInput{Email: email, Password: "pw", Name: email})
	require.NoError(t, err)
	return u.ID
}

func (w *world) task(t *testing.T, petID, title string, from time.Time) pets.Task {
	t.Helper()
	task, err := w.pets.AddTask(context.Background(), petID, pets.TaskInput{
		Title:       title,
		Description: title + " description",
		DateFrom:    from,
		DateTo:      from.Add(time.Hour),
	})
	require.NoError(t, err)
	return task
}

func sortedTo(m mail.Message) []string {
	out := append([]string(nil), m.To...)
	sort.Strings(out)
	return out
}

// Mascota con miembro directo U1 y grupo G con miembro U2; tarea que empezó hace 30s.
func TestScanner_DirectAndGroupRecipients(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	u1 := w.user(t, "u1@x.com")
	u2 := w.user(t, "u2@x.com")
	p, err := w.pets.Create(ctx, u1, pets.CreateInput{Name: "Rex"})
	require.NoError(t, err)
	require.NoError(t, w.edges.Link(ctx, memberships.KindPetGroup, p.ID, "g1"))
	require.NoError(t, w.edges.Link(ctx, memberships.KindUserGroup, u2, "g1"))

	task := w.task(t, p.ID, "walk", w.now.Add(-30*time.Second))

	rep, err := w.scanner.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Found)
	assert.Equal(t, 1, rep.Sent)

	require.Len(t, w.sender.sent, 1)
	msg := w.sender.sent[0]
	assert.Equal(t, []string{"u1@x.com", "u2@x.com"}, sortedTo(msg))
	assert.Equal(t, "walk", msg.Subject)
	assert.Equal(t, "walk description", msg.Body)
	assert.Equal(t, "noreply@x.com", msg.From)

	got, _ := w.pets.GetByID(ctx, p.ID)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, task.ID, got.Tasks[0].ID)
	assert.NotNil(t, got.Tasks[0].NotifiedAt, "sent task should be stamped")
}

func TestScanner_CompletedTaskNotNotified(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	u1 := w.user(t, "u1@x.com")
	p, _ := w.pets.Create(ctx, u1, pets.CreateInput{Name: "Rex"})
	task := w.task(t, p.ID, "feed", w.now.Add(-30*time.Second))
	_, err := w.pets.SetTaskCompleted(ctx, p.ID, task.ID, true)
	require.NoError(t, err)

	rep, err := w.scanner.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Found)
	assert.Empty(t, w.sender.sent)
}

func TestScanner_UserInBothDirectAndGroupGetsOneCopy(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	u1 := w.user(t, "u1@x.com")
	p, _ := w.pets.Create(ctx, u1, pets.CreateInput{Name: "Rex"})
	_ = w.edges.Link(ctx, memberships.KindPetGroup, p.ID, "g1")
	_ = w.edges.Link(ctx, memberships.KindUserGroup, u1, "g1")
	w.task(t, p.ID, "walk", w.now.Add(-10*time.Second))

	_, err := w.scanner.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, w.sender.sent, 1)
	assert.Equal(t, []string{"u1@x.com"}, w.sender.sent[0].To)
}

func TestScanner_WindowsAreContiguousAndNotResent(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	u1 := w.user(t, "u1@x.com")
	p, _ := w.pets.Create(ctx, u1, pets.CreateInput{Name: "Rex"})
	first := w.now

	rep1, err := w.scanner.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Add(-time.Minute), rep1.From)
	assert.Equal(t, first, rep1.To)

	// tarea exactamente en el borde del primer tick: la toma el segundo
	w.task(t, p.ID, "edge", first)
	w.now = first.Add(90 * time.Second)

	rep2, err := w.scanner.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, rep1.To, rep2.From, "next window starts where the last ended")
	assert.Equal(t, 1, rep2.Sent)

	// volver a correr con la misma hora no re-envía
	rep3, err := w.scanner.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, rep3.Found)
	assert.Len(t, w.sender.sent, 1)
}

func TestScanner_CatchUpIsCapped(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	u1 := w.user(t, "u1@x.com")
	p, _ := w.pets.Create(ctx, u1, pets.CreateInput{Name: "Rex"})

	_, err := w.scanner.Tick(ctx)
	require.NoError(t, err)
	start := w.now

	w.task(t, p.ID, "too old", start.Add(30*time.Minute))
	w.task(t, p.ID, "recent", start.Add(150*time.Minute))
	w.now = start.Add(3 * time.Hour)

	rep, err := w.scanner.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, w.now.Add(-time.Hour), rep.From)
	assert.Equal(t, 1, rep.Found)
	require.Len(t, w.sender.sent, 1)
	assert.Equal(t, "recent", w.sender.sent[0].Subject)
}

func TestScanner_TransportFailureDropsJob(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.sender.err = errors.New("smtp down")

	u1 := w.user(t, "u1@x.com")
	p, _ := w.pets.Create(ctx, u1, pets.CreateInput{Name: "Rex"})
	w.task(t, p.ID, "walk", w.now.Add(-30*time.Second))

	rep, err := w.scanner.Tick(ctx)
	require.NoError(t, err, "transport failures do not fail the tick")
	assert.Equal(t, 1, rep.Failed)

	got, _ := w.pets.GetByID(ctx, p.ID)
	assert.Nil(t, got.Tasks[0].NotifiedAt)

	// no hay reintento: la ventana ya pasó
	w.sender.err = nil
	w.now = w.now.Add(time.Minute)
	rep, err = w.scanner.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Found)
}

func TestScanner_NoRecipientsIsSkipped(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	u1 := w.user(t, "u1@x.com")
	p, _ := w.pets.Create(ctx, u1, pets.CreateInput{Name: "Rex"})
	require.NoError(t, w.pets.RemoveMember(ctx, p.ID, u1))
	w.task(t, p.ID, "walk", w.now.Add(-30*time.Second))

	rep, err := w.scanner.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Skipped)
	assert.Empty(t, w.sender.sent)
}

type failingFinder struct{ calls int }

func (f *failingFinder) FindDue(ctx context.Context, from, to time.Time) ([]Job, error) {
	f.calls++
	return nil, errors.New("db down")
}

func TestScanner_FinderErrorKeepsCursor(t *testing.T) {
	ff := &failingFinder{}
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewScanner(ff, nil, NewNotifier(&fakeSender{}, ""), logger.Nop(), ScannerOptions{Interval: time.Minute})
	s.now = func() time.Time { return now }

	_, err := s.Tick(context.Background())
	require.Error(t, err)
	assert.True(t, s.Cursor().IsZero(), "cursor must not advance on failure")
}

type blockingFinder struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingFinder) FindDue(ctx context.Context, from, to time.Time) ([]Job, error) {
	close(b.entered)
	<-b.release
	return nil, nil
}

func TestScanner_OverlappingTickRejected(t *testing.T) {
	bf := &blockingFinder{entered: make(chan struct{}), release: make(chan struct{})}
	s := NewScanner(bf, nil, NewNotifier(&fakeSender{}, ""), logger.Nop(), ScannerOptions{Interval: time.Minute})

	done := make(chan error, 1)
	go func() {
		_, err := s.Tick(context.Background())
		done <- err
	}()
	<-bf.entered

	_, err := s.Tick(context.Background())
	assert.ErrorIs(t, err, ErrTickInProgress)

	close(bf.release)
	require.NoError(t, <-done)
}

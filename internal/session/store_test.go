package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmokaya/mindscreen/internal/domain"
)

// fakeClock is a mutable time source shared with the store under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	// A long reap interval keeps the background reaper out of the way;
	// tests drive expiry through the clock and ReapExpired directly.
	opts = append([]StoreOption{WithReapInterval(time.Hour)}, opts...)
	s := NewStore(opts...)
	t.Cleanup(s.Shutdown)
	return s
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create("Amina", "KE")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.PhaseGreeting, created.Phase)
	assert.Equal(t, "Amina", created.UserName)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 1, store.Count())
}

func TestGetUnknownSession(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("nonexistent")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestGetReturnsDeepCopy(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create("Amina", "KE")
	require.NoError(t, err)

	first, err := store.Get(created.ID)
	require.NoError(t, err)
	first.UserName = "mutated"
	first.Responses = append(first.Responses, domain.Response{QuestionID: "phq9_1"})

	second, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amina", second.UserName)
	assert.Empty(t, second.Responses)
}

func TestExpiryAtReadTime(t *testing.T) {
	clock := newFakeClock()
	store := newTestStore(t, WithClock(clock.Now), WithTTL(30*time.Minute))

	created, err := store.Create("Amina", "KE")
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)

	_, err = store.Get(created.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, 0, store.Count())
}

func TestActivityRefreshExtendsTTL(t *testing.T) {
	clock := newFakeClock()
	store := newTestStore(t, WithClock(clock.Now), WithTTL(30*time.Minute))

	created, err := store.Create("Amina", "KE")
	require.NoError(t, err)

	// Touch the session just before expiry, then cross the original
	// deadline. The refresh must keep it alive.
	clock.Advance(29 * time.Minute)
	_, err = store.Get(created.ID)
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	_, err = store.Get(created.ID)
	assert.NoError(t, err)
}

func TestReapExpired(t *testing.T) {
	clock := newFakeClock()
	store := newTestStore(t, WithClock(clock.Now), WithTTL(30*time.Minute))

	stale, err := store.Create("Old", "US")
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)
	fresh, err := store.Create("New", "US")
	require.NoError(t, err)
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, store.ReapExpired())

	_, err = store.Get(stale.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestCapacityEvictsOldest(t *testing.T) {
	clock := newFakeClock()
	store := newTestStore(t, WithClock(clock.Now), WithMaxSessions(2))

	first, err := store.Create("First", "US")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := store.Create("Second", "US")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	third, err := store.Create("Third", "US")
	require.NoError(t, err)

	_, err = store.Get(first.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = store.Get(second.ID)
	assert.NoError(t, err)
	_, err = store.Get(third.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, store.Count())
}

func TestApplyAtomicity(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create("Amina", "KE")
	require.NoError(t, err)

	updated, err := store.Apply(created.ID, func(s *domain.Session) error {
		s.Phase = domain.PhaseScreening
		s.SelectedTool = domain.ToolPHQ9
		s.Responses = append(s.Responses, domain.Response{
			QuestionID: "phq9_1",
			RawText:    "never",
			Score:      0,
		})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseScreening, updated.Phase)
	assert.Equal(t, domain.ToolPHQ9, updated.SelectedTool)
	require.Len(t, updated.Responses, 1)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Phase, got.Phase)
	assert.Len(t, got.Responses, 1)
}

func TestApplyMutationErrorCommitsNothing(t *testing.T) {
	clock := newFakeClock()
	store := newTestStore(t, WithTTL(time.Minute), WithClock(clock.Now))

	created, err := store.Create("Amina", "KE")
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	errStale := errors.New("stale")
	_, err = store.Apply(created.ID, func(s *domain.Session) error {
		return errStale
	})
	assert.ErrorIs(t, err, errStale)

	// A failed mutation does not count as activity either: the session
	// expires on its original schedule, not 30s later.
	clock.Advance(45 * time.Second)
	_, err = store.Get(created.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAppendHelpers(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create("Amina", "KE")
	require.NoError(t, err)

	require.NoError(t, store.AppendConversation(created.ID, "hi", "hello Amina", domain.PhaseGreeting))
	require.NoError(t, store.AppendResponse(created.ID, "gad7_1", "sometimes", 1))

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 1)
	assert.Equal(t, "hi", got.History[0].UserMessage)
	require.Len(t, got.Responses, 1)
	assert.Equal(t, "gad7_1", got.Responses[0].QuestionID)
	assert.False(t, got.Responses[0].CreatedAt.IsZero())

	// Absent sessions report not found, same as every other operation.
	assert.ErrorIs(t, store.AppendResponse("missing", "q", "a", 0), domain.ErrSessionNotFound)
}

func TestApplyConcurrentSameSession(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create("Amina", "KE")
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := store.Apply(created.ID, func(s *domain.Session) error {
				s.History = append(s.History, domain.ConversationTurn{
					UserMessage: "hi",
					Phase:       s.Phase,
				})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, workers)
}

func TestConcurrentDistinctSessions(t *testing.T) {
	store := newTestStore(t)

	const sessions = 20
	ids := make([]string, sessions)
	for i := range ids {
		sess, err := store.Create("User", "US")
		require.NoError(t, err)
		ids[i] = sess.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := store.Apply(id, func(s *domain.Session) error {
					s.History = append(s.History, domain.ConversationTurn{UserMessage: "x"})
					return nil
				})
				assert.NoError(t, err)
			}
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		got, err := store.Get(id)
		require.NoError(t, err)
		assert.Len(t, got.History, 20)
	}
}

func TestReaperDoesNotRaceLiveTraffic(t *testing.T) {
	store := newTestStore(t, WithTTL(50*time.Millisecond))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Reap continuously while sessions are created, touched, and
	// deleted. Nothing should panic or end half-mutated.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				store.ReapExpired()
			}
		}
	}()

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				sess, err := store.Create("User", "US")
				if !assert.NoError(t, err) {
					return
				}
				_, _ = store.Apply(sess.ID, func(s *domain.Session) error {
					s.History = append(s.History, domain.ConversationTurn{UserMessage: "x"})
					return nil
				})
				if got, err := store.Get(sess.ID); err == nil {
					assert.Len(t, got.History, 1)
				}
				_ = store.Delete(sess.ID)
			}
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(stop)
	wg.Wait()
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create("Amina", "KE")
	require.NoError(t, err)

	require.NoError(t, store.Delete(created.ID))
	assert.ErrorIs(t, store.Delete(created.ID), domain.ErrSessionNotFound)
	_, err = store.Get(created.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestShutdownClearsStore(t *testing.T) {
	store := NewStore(WithReapInterval(time.Hour))

	_, err := store.Create("Amina", "KE")
	require.NoError(t, err)

	store.Shutdown()
	assert.Equal(t, 0, store.Count())

	// Idempotent.
	store.Shutdown()
}

func TestIDsSortedByCreation(t *testing.T) {
	clock := newFakeClock()
	store := newTestStore(t, WithClock(clock.Now))

	a, _ := store.Create("A", "US")
	clock.Advance(time.Minute)
	b, _ := store.Create("B", "US")
	clock.Advance(time.Minute)
	c, _ := store.Create("C", "US")

	assert.Equal(t, []string{a.ID, b.ID, c.ID}, store.IDs())
}

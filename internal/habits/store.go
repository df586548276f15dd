package habits

import (
	"context"
	"log/slog"
	"sync"

	"stride/internal/platform/metrics"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// Repository is the backend's habit table interface.
type Repository interface {
	ListHabitsByUser(ctx context.Context, userID id.UserID) ([]Habit, error)
	ListHabitTypes(ctx context.Context, companyID id.CompanyID) ([]HabitType, error)
	InsertHabit(ctx context.Context, habit NewHabit) (*Habit, error)
}

// Store owns one client session's habit slice. Same discipline as the session
// store: one mutating or fetching flow at a time, sequence-numbered so a
// superseded flow cannot clobber newer state, failures keep prior data
// visible (stale-but-present).
type Store struct {
	repo    Repository
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	state State
	seq   uint64
}

// Option configures the Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New constructs an empty habit store.
func New(repo Repository, opts ...Option) *Store {
	s := &Store{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Snapshot returns a copy of the current state. The slices are shared
// read-only views; callers must not mutate them.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FetchHabits replaces the habit slice with the member's history, newest
// first per the backend's date ordering.
func (s *Store) FetchHabits(ctx context.Context, userID id.UserID) error {
	seq, err := s.begin("fetch-habits")
	if err != nil {
		return err
	}

	habits, err := s.repo.ListHabitsByUser(ctx, userID)
	if err != nil {
		s.fail(seq, err)
		return err
	}

	s.settle(seq, func(st *State) {
		st.Habits = habits
	})
	return nil
}

// FetchHabitTypes replaces the habit-type catalog for the company.
func (s *Store) FetchHabitTypes(ctx context.Context, companyID id.CompanyID) error {
	seq, err := s.begin("fetch-habit-types")
	if err != nil {
		return err
	}

	types, err := s.repo.ListHabitTypes(ctx, companyID)
	if err != nil {
		s.fail(seq, err)
		return err
	}

	s.settle(seq, func(st *State) {
		st.HabitTypes = types
	})
	return nil
}

// LogHabit inserts the habit and prepends the returned row to the in-memory
// list without a re-fetch. Ordering assumption: the backend sorts history by
// date descending and a just-logged habit carries the newest date, so
// prepending preserves server order. A backdated entry lands at the head
// until the next fetch.
func (s *Store) LogHabit(ctx context.Context, habit NewHabit) (*Habit, error) {
	seq, err := s.begin("log-habit")
	if err != nil {
		return nil, err
	}

	created, err := s.repo.InsertHabit(ctx, habit)
	if err != nil {
		s.fail(seq, err)
		return nil, err
	}

	s.settle(seq, func(st *State) {
		st.Habits = append([]Habit{*created}, st.Habits...)
	})
	if s.metrics != nil {
		s.metrics.IncrementHabitsLogged()
	}
	s.logger.InfoContext(ctx, "habit logged",
		"habit_id", created.ID.String(),
		"user_id", created.UserID.String(),
		"type", created.Type,
		"points_earned", created.PointsEarned,
	)
	return created, nil
}

// ClearError resets the error overlay. Idempotent.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
}

func (s *Store) begin(op string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Loading {
		return 0, dErrors.New(dErrors.CodeInFlight, op+" rejected: another operation is in progress")
	}
	s.seq++
	s.state.Loading = true
	s.state.Err = ""
	return s.seq, nil
}

func (s *Store) settle(seq uint64, apply func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return
	}
	if apply != nil {
		apply(&s.state)
	}
	s.state.Loading = false
}

func (s *Store) fail(seq uint64, err error) {
	s.settle(seq, func(st *State) {
		st.Err = dErrors.Message(err)
	})
}

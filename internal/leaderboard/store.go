package leaderboard

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// Repository is the backend's leaderboards table interface. Entries come back
// ordered by points descending; rank assignment is the store's job.
type Repository interface {
	ListCompanyEntries(ctx context.Context, period Period) ([]CompanyEntry, error)
	ListIndividualEntries(ctx context.Context, companyID id.CompanyID, period Period) ([]IndividualEntry, error)
}

// Store owns one client session's leaderboard slices. Fetches follow the
// shared store discipline: in-flight guard, sequence-numbered settles,
// stale-but-present data on failure.
type Store struct {
	repo   Repository
	logger *slog.Logger

	mu    sync.Mutex
	state State
	seq   uint64
}

// Option configures the Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New constructs a leaderboard store starting on the weekly period.
func New(repo Repository, opts ...Option) *Store {
	s := &Store{repo: repo}
	s.state.Period = PeriodWeekly
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetPeriod switches the ranking window. Synchronous; the caller decides when
// to re-fetch. Switching does not clear the previous period's rows.
func (s *Store) SetPeriod(period Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Period = period
}

// FetchCompanyLeaderboard replaces the cross-company board for the current
// period, assigning 1-based ranks in server order.
func (s *Store) FetchCompanyLeaderboard(ctx context.Context) error {
	seq, period, err := s.begin("fetch-company-leaderboard")
	if err != nil {
		return err
	}

	entries, err := s.repo.ListCompanyEntries(ctx, period)
	if err != nil {
		s.fail(seq, err)
		return err
	}
	rankCompanies(entries)

	s.settle(seq, func(st *State) {
		st.Company = entries
	})
	return nil
}

// FetchIndividualLeaderboard replaces the within-company board for the
// current period.
func (s *Store) FetchIndividualLeaderboard(ctx context.Context, companyID id.CompanyID) error {
	seq, period, err := s.begin("fetch-individual-leaderboard")
	if err != nil {
		return err
	}

	entries, err := s.repo.ListIndividualEntries(ctx, companyID, period)
	if err != nil {
		s.fail(seq, err)
		return err
	}
	rankIndividuals(entries)

	s.settle(seq, func(st *State) {
		st.Individual = entries
	})
	return nil
}

// RefreshAll fetches both boards concurrently under one flow. Either fetch
// failing fails the whole refresh and leaves both slices as they were.
func (s *Store) RefreshAll(ctx context.Context, companyID id.CompanyID) error {
	seq, period, err := s.begin("refresh-leaderboards")
	if err != nil {
		return err
	}

	var (
		companies   []CompanyEntry
		individuals []IndividualEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, gerr := s.repo.ListCompanyEntries(gctx, period)
		if gerr != nil {
			return gerr
		}
		companies = entries
		return nil
	})
	g.Go(func() error {
		entries, gerr := s.repo.ListIndividualEntries(gctx, companyID, period)
		if gerr != nil {
			return gerr
		}
		individuals = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		s.fail(seq, err)
		return err
	}
	rankCompanies(companies)
	rankIndividuals(individuals)

	s.settle(seq, func(st *State) {
		st.Company = companies
		st.Individual = individuals
	})
	return nil
}

// ClearError resets the error overlay. Idempotent.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
}

// begin also captures the period so a SetPeriod racing with a fetch cannot
// mix windows inside one flow.
func (s *Store) begin(op string) (uint64, Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Loading {
		return 0, "", dErrors.New(dErrors.CodeInFlight, op+" rejected: another operation is in progress")
	}
	s.seq++
	s.state.Loading = true
	s.state.Err = ""
	return s.seq, s.state.Period, nil
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

func rankCompanies(entries []CompanyEntry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

func rankIndividuals(entries []IndividualEntry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

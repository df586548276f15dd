package rewards

import (
	"context"
	"log/slog"
	"sync"

	"stride/internal/platform/audit"
	"stride/internal/platform/metrics"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// Repository is the backend's rewards interface. Redeem is the one remote
// procedure in the system; the backend guarantees its balance check, stock
// decrement, and redemption insert happen atomically.
type Repository interface {
	ListRewards(ctx context.Context, companyID id.CompanyID) ([]Reward, error)
	ListRedemptions(ctx context.Context, userID id.UserID) ([]Redemption, error)
	Redeem(ctx context.Context, userID id.UserID, rewardID id.RewardID, pointsCost int) error
}

// Store owns one client session's reward catalog and redemption history.
// Point balances are never mutated locally; the backend is the only
// bookkeeper and the cached Principal goes stale until its next fetch.
type Store struct {
	repo    Repository
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Logger

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

func WithAuditLogger(a *audit.Logger) Option {
	return func(s *Store) { s.audit = a }
}

// New constructs an empty reward store.
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

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FetchRewards replaces the catalog, cheapest first per backend ordering.
func (s *Store) FetchRewards(ctx context.Context, companyID id.CompanyID) error {
	seq, err := s.begin("fetch-rewards")
	if err != nil {
		return err
	}

	rewards, err := s.repo.ListRewards(ctx, companyID)
	if err != nil {
		s.fail(seq, err)
		return err
	}

	s.settle(seq, func(st *State) {
		st.Rewards = rewards
	})
	return nil
}

// FetchRedemptions replaces the member's redemption history, newest first.
func (s *Store) FetchRedemptions(ctx context.Context, userID id.UserID) error {
	seq, err := s.begin("fetch-redemptions")
	if err != nil {
		return err
	}

	redemptions, err := s.repo.ListRedemptions(ctx, userID)
	if err != nil {
		s.fail(seq, err)
		return err
	}

	s.settle(seq, func(st *State) {
		st.Redemptions = redemptions
	})
	return nil
}

// RedeemReward invokes the atomic redemption procedure and reports success as
// a boolean rather than an error: a rejected redemption (insufficient points,
// out of stock) is an expected outcome the caller branches on, with the
// detail available in Err. On success the redemption list is unconditionally
// re-fetched; the prior list stays in place on any failure.
func (s *Store) RedeemReward(ctx context.Context, userID id.UserID, rewardID id.RewardID, pointsCost int) bool {
	seq, err := s.begin("redeem-reward")
	if err != nil {
		return false
	}

	if err := s.repo.Redeem(ctx, userID, rewardID, pointsCost); err != nil {
		s.fail(seq, err)
		s.observeRedemption(ctx, "rejected", userID, rewardID, pointsCost, err)
		return false
	}

	redemptions, fetchErr := s.repo.ListRedemptions(ctx, userID)
	s.settle(seq, func(st *State) {
		if fetchErr != nil {
			// The redemption itself went through; only the refresh failed.
			st.Err = dErrors.Message(fetchErr)
			return
		}
		st.Redemptions = redemptions
	})
	s.observeRedemption(ctx, "accepted", userID, rewardID, pointsCost, nil)
	return true
}

// ClearError resets the error overlay. Idempotent.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
}

func (s *Store) observeRedemption(ctx context.Context, outcome string, userID id.UserID, rewardID id.RewardID, pointsCost int, err error) {
	if s.metrics != nil {
		s.metrics.IncrementRedemptions(outcome)
	}
	if outcome == "accepted" {
		if s.audit != nil {
			s.audit.Log(ctx, audit.EventRewardRedeemed,
				"user_id", userID.String(),
				"detail", rewardID.String(),
			)
		}
		s.logger.InfoContext(ctx, "reward redeemed",
			"user_id", userID.String(),
			"reward_id", rewardID.String(),
			"points_cost", pointsCost,
		)
		return
	}
	s.logger.WarnContext(ctx, "reward redemption rejected",
		"user_id", userID.String(),
		"reward_id", rewardID.String(),
		"points_cost", pointsCost,
		"error", err,
	)
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

package habits_test

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"stride/internal/habits"
	"stride/internal/habits/mocks"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
	"stride/pkg/testutil"
)

type HabitStoreSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	repo  *mocks.MockRepository
	store *habits.Store
	ctx   context.Context
}

func TestHabitStoreSuite(t *testing.T) {
	suite.Run(t, new(HabitStoreSuite))
}

func (s *HabitStoreSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = mocks.NewMockRepository(s.ctrl)
	s.store = habits.New(s.repo,
		habits.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.ctx = context.Background()
}

func (s *HabitStoreSuite) habit(date string) habits.Habit {
	return habits.Habit{
		ID:           id.NewHabitID(),
		UserID:       id.NewUserID(),
		CompanyID:    id.NewCompanyID(),
		Type:         "meditation",
		Duration:     10,
		Date:         date,
		PointsEarned: 10,
	}
}

func (s *HabitStoreSuite) TestFetchHabitsReplacesSlice() {
	userID := id.NewUserID()
	history := []habits.Habit{s.habit("2025-01-02"), s.habit("2025-01-01")}
	s.repo.EXPECT().ListHabitsByUser(gomock.Any(), userID).Return(history, nil)

	s.Require().NoError(s.store.FetchHabits(s.ctx, userID))

	state := s.store.Snapshot()
	s.Equal(history, state.Habits)
	s.False(state.Loading)
	s.Empty(state.Err)
}

func (s *HabitStoreSuite) TestFetchFailureKeepsPriorData() {
	userID := id.NewUserID()
	history := []habits.Habit{s.habit("2025-01-02")}
	s.repo.EXPECT().ListHabitsByUser(gomock.Any(), userID).Return(history, nil)
	s.Require().NoError(s.store.FetchHabits(s.ctx, userID))

	s.repo.EXPECT().ListHabitsByUser(gomock.Any(), userID).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "backend request failed"))
	err := s.store.FetchHabits(s.ctx, userID)
	s.Require().Error(err)

	state := s.store.Snapshot()
	s.Equal(history, state.Habits, "stale data stays visible after a failed fetch")
	s.NotEmpty(state.Err)
	s.False(state.Loading)
}

func (s *HabitStoreSuite) TestLogHabitPrependsReturnedRow() {
	userID := id.NewUserID()
	existing := []habits.Habit{s.habit("2025-01-01")}
	s.repo.EXPECT().ListHabitsByUser(gomock.Any(), userID).Return(existing, nil)
	s.Require().NoError(s.store.FetchHabits(s.ctx, userID))

	payload := habits.NewHabit{
		UserID:       userID,
		CompanyID:    existing[0].CompanyID,
		Type:         "meditation",
		Duration:     10,
		Date:         "2025-01-02",
		PointsEarned: 10,
	}
	created := habits.Habit{
		ID:           id.NewHabitID(),
		UserID:       payload.UserID,
		CompanyID:    payload.CompanyID,
		Type:         payload.Type,
		Duration:     payload.Duration,
		Date:         payload.Date,
		PointsEarned: payload.PointsEarned,
	}
	s.repo.EXPECT().InsertHabit(gomock.Any(), payload).Return(&created, nil)

	row, err := s.store.LogHabit(s.ctx, payload)
	s.Require().NoError(err)
	s.Equal(created.ID, row.ID)

	state := s.store.Snapshot()
	s.Require().Len(state.Habits, 2)
	s.Equal(created.ID, state.Habits[0].ID, "new row is prepended")
	s.Equal(existing[0].ID, state.Habits[1].ID, "prior rows are preserved")
}

func (s *HabitStoreSuite) TestLogHabitFailureLeavesListUnchanged() {
	s.repo.EXPECT().InsertHabit(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInvalidInput, "duration must be positive"))

	_, err := s.store.LogHabit(s.ctx, habits.NewHabit{Type: "meditation"})
	s.Require().Error(err)

	state := s.store.Snapshot()
	s.Empty(state.Habits)
	s.NotEmpty(state.Err)
}

func (s *HabitStoreSuite) TestFetchHabitTypes() {
	companyID := id.NewCompanyID()
	types := []habits.HabitType{{CompanyID: companyID, Name: "Meditation", PointsPerMinute: 1}}
	s.repo.EXPECT().ListHabitTypes(gomock.Any(), companyID).Return(types, nil)

	s.Require().NoError(s.store.FetchHabitTypes(s.ctx, companyID))
	s.Equal(types, s.store.Snapshot().HabitTypes)
}

func (s *HabitStoreSuite) TestConcurrentMutationsRejectedWhileInFlight() {
	userID := id.NewUserID()
	started := make(chan struct{})
	release := make(chan struct{})

	s.repo.EXPECT().ListHabitsByUser(gomock.Any(), userID).
		DoAndReturn(func(context.Context, id.UserID) ([]habits.Habit, error) {
			close(started)
			<-release
			return nil, nil
		})

	done := make(chan error, 1)
	go func() {
		done <- s.store.FetchHabits(s.ctx, userID)
	}()
	<-started

	result := testutil.RunConcurrent(4, func(int) error {
		_, err := s.store.LogHabit(s.ctx, habits.NewHabit{Type: "running"})
		return err
	})
	s.Equal(int32(4), result.InFlight)

	close(release)
	s.Require().NoError(<-done)
}

func (s *HabitStoreSuite) TestClearErrorIsIdempotent() {
	s.store.ClearError()
	s.Empty(s.store.Snapshot().Err)
}

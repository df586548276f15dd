package leaderboard_test

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"stride/internal/leaderboard"
	"stride/internal/leaderboard/mocks"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

type LeaderboardStoreSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	repo  *mocks.MockRepository
	store *leaderboard.Store
	ctx   context.Context
}

func TestLeaderboardStoreSuite(t *testing.T) {
	suite.Run(t, new(LeaderboardStoreSuite))
}

func (s *LeaderboardStoreSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = mocks.NewMockRepository(s.ctrl)
	s.store = leaderboard.New(s.repo,
		leaderboard.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.ctx = context.Background()
}

func (s *LeaderboardStoreSuite) TestDefaultsToWeeklyPeriod() {
	s.Equal(leaderboard.PeriodWeekly, s.store.Snapshot().Period)
}

func (s *LeaderboardStoreSuite) TestFetchCompanyLeaderboardAssignsRanks() {
	entries := []leaderboard.CompanyEntry{
		{ID: "e1", Points: 300, Company: leaderboard.CompanyInfo{Name: "Acme Inc."}},
		{ID: "e2", Points: 200, Company: leaderboard.CompanyInfo{Name: "Globex"}},
		{ID: "e3", Points: 200, Company: leaderboard.CompanyInfo{Name: "Initech"}},
	}
	s.repo.EXPECT().ListCompanyEntries(gomock.Any(), leaderboard.PeriodWeekly).
		Return(entries, nil)

	s.Require().NoError(s.store.FetchCompanyLeaderboard(s.ctx))

	board := s.store.Snapshot().Company
	s.Require().Len(board, 3)
	s.Equal([]int{1, 2, 3}, []int{board[0].Rank, board[1].Rank, board[2].Rank},
		"ranks follow server order, ties included")
	s.Equal("Acme Inc.", board[0].Company.Name)
}

func (s *LeaderboardStoreSuite) TestFetchIndividualLeaderboardUsesCurrentPeriod() {
	companyID := id.NewCompanyID()
	s.store.SetPeriod(leaderboard.PeriodMonthly)

	entries := []leaderboard.IndividualEntry{
		{ID: "e1", Points: 80, User: leaderboard.UserInfo{Name: "Taylor"}},
	}
	s.repo.EXPECT().ListIndividualEntries(gomock.Any(), companyID, leaderboard.PeriodMonthly).
		Return(entries, nil)

	s.Require().NoError(s.store.FetchIndividualLeaderboard(s.ctx, companyID))

	board := s.store.Snapshot().Individual
	s.Require().Len(board, 1)
	s.Equal(1, board[0].Rank)
}

func (s *LeaderboardStoreSuite) TestFetchFailureKeepsPriorBoard() {
	s.repo.EXPECT().ListCompanyEntries(gomock.Any(), gomock.Any()).
		Return([]leaderboard.CompanyEntry{{ID: "e1", Points: 100}}, nil)
	s.Require().NoError(s.store.FetchCompanyLeaderboard(s.ctx))

	s.repo.EXPECT().ListCompanyEntries(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "backend request failed"))
	s.Require().Error(s.store.FetchCompanyLeaderboard(s.ctx))

	state := s.store.Snapshot()
	s.Len(state.Company, 1)
	s.NotEmpty(state.Err)
}

func (s *LeaderboardStoreSuite) TestRefreshAllFetchesBothBoards() {
	companyID := id.NewCompanyID()
	s.repo.EXPECT().ListCompanyEntries(gomock.Any(), leaderboard.PeriodWeekly).
		Return([]leaderboard.CompanyEntry{{ID: "c1", Points: 100}}, nil)
	s.repo.EXPECT().ListIndividualEntries(gomock.Any(), companyID, leaderboard.PeriodWeekly).
		Return([]leaderboard.IndividualEntry{{ID: "i1", Points: 50}}, nil)

	s.Require().NoError(s.store.RefreshAll(s.ctx, companyID))

	state := s.store.Snapshot()
	s.Require().Len(state.Company, 1)
	s.Require().Len(state.Individual, 1)
	s.Equal(1, state.Company[0].Rank)
	s.Equal(1, state.Individual[0].Rank)
}

func (s *LeaderboardStoreSuite) TestRefreshAllFailureLeavesBothBoardsUntouched() {
	companyID := id.NewCompanyID()
	s.repo.EXPECT().ListCompanyEntries(gomock.Any(), gomock.Any()).
		Return([]leaderboard.CompanyEntry{{ID: "c1", Points: 100}}, nil)
	s.repo.EXPECT().ListIndividualEntries(gomock.Any(), companyID, gomock.Any()).
		Return([]leaderboard.IndividualEntry{{ID: "i1", Points: 50}}, nil)
	s.Require().NoError(s.store.RefreshAll(s.ctx, companyID))

	// Both fetches run even when one fails; both fail here so the outcome is
	// deterministic regardless of which goroutine loses the race.
	s.repo.EXPECT().ListCompanyEntries(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "backend request failed"))
	s.repo.EXPECT().ListIndividualEntries(gomock.Any(), companyID, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "backend request failed"))
	s.Require().Error(s.store.RefreshAll(s.ctx, companyID))

	state := s.store.Snapshot()
	s.Len(state.Company, 1)
	s.Len(state.Individual, 1)
	s.NotEmpty(state.Err)
}

func (s *LeaderboardStoreSuite) TestSetPeriodDoesNotClearBoards() {
	s.repo.EXPECT().ListCompanyEntries(gomock.Any(), leaderboard.PeriodWeekly).
		Return([]leaderboard.CompanyEntry{{ID: "c1", Points: 100}}, nil)
	s.Require().NoError(s.store.FetchCompanyLeaderboard(s.ctx))

	s.store.SetPeriod(leaderboard.PeriodAllTime)

	state := s.store.Snapshot()
	s.Equal(leaderboard.PeriodAllTime, state.Period)
	s.Len(state.Company, 1)
}

func TestParsePeriod(t *testing.T) {
	for _, valid := range []string{"weekly", "monthly", "all-time"} {
		period, err := leaderboard.ParsePeriod(valid)
		if err != nil {
			t.Fatalf("ParsePeriod(%q): %v", valid, err)
		}
		if string(period) != valid {
			t.Fatalf("ParsePeriod(%q) = %q", valid, period)
		}
	}
	if _, err := leaderboard.ParsePeriod("yearly"); err == nil {
		t.Fatal("ParsePeriod accepted an unknown period")
	}
}

package backend

import (
	"context"

	"stride/internal/leaderboard"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// LeaderboardStore reads the leaderboards table with its nested company and
// user projections. It satisfies leaderboard.Repository.
type LeaderboardStore struct {
	client *Client
}

// NewLeaderboardStore wraps the backend client for leaderboard access.
func NewLeaderboardStore(client *Client) *LeaderboardStore {
	return &LeaderboardStore{client: client}
}

// ListCompanyEntries returns the cross-company board for a period, points
// descending.
func (l *LeaderboardStore) ListCompanyEntries(ctx context.Context, period leaderboard.Period) ([]leaderboard.CompanyEntry, error) {
	resp, err := l.client.From("leaderboards").
		Select("id,company_id,points,period,companies(name,logo_url)").
		Eq("period", string(period)).
		Order("points", false).
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var rows []leaderboard.CompanyEntry
	if err := resp.JSON(&rows); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode company leaderboard rows")
	}
	return rows, nil
}

// ListIndividualEntries returns the within-company board for a period, points
// descending.
func (l *LeaderboardStore) ListIndividualEntries(ctx context.Context, companyID id.CompanyID, period leaderboard.Period) ([]leaderboard.IndividualEntry, error) {
	resp, err := l.client.From("leaderboards").
		Select("id,user_id,company_id,points,period,users(name,avatar_url)").
		Eq("company_id", companyID.String()).
		Eq("period", string(period)).
		Order("points", false).
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var rows []leaderboard.IndividualEntry
	if err := resp.JSON(&rows); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode individual leaderboard rows")
	}
	return rows, nil
}

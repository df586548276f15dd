package backend

import (
	"bytes"
	"context"

	"stride/internal/rewards"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// RewardStore reads the rewards and reward_redemptions tables and invokes the
// redemption procedure. It satisfies rewards.Repository.
type RewardStore struct {
	client *Client
}

// NewRewardStore wraps the backend client for reward access.
func NewRewardStore(client *Client) *RewardStore {
	return &RewardStore{client: client}
}

// ListRewards returns the company's catalog, cheapest first.
func (r *RewardStore) ListRewards(ctx context.Context, companyID id.CompanyID) ([]rewards.Reward, error) {
	resp, err := r.client.From("rewards").
		Select("*").
		Eq("company_id", companyID.String()).
		Order("point_cost", true).
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var rows []rewards.Reward
	if err := resp.JSON(&rows); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode reward rows")
	}
	return rows, nil
}

// ListRedemptions returns the member's redemption history, newest first, with
// the redeemed reward's name and cost joined in.
func (r *RewardStore) ListRedemptions(ctx context.Context, userID id.UserID) ([]rewards.Redemption, error) {
	resp, err := r.client.From("reward_redemptions").
		Select("*,rewards(name,point_cost)").
		Eq("user_id", userID.String()).
		Order("date", false).
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var rows []rewards.Redemption
	if err := resp.JSON(&rows); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode redemption rows")
	}
	return rows, nil
}

// Redeem invokes the redeem_reward procedure. The procedure checks the
// balance, decrements points and stock, and inserts the redemption record
// atomically; it answers true on success and false when the member cannot
// afford the reward.
func (r *RewardStore) Redeem(ctx context.Context, userID id.UserID, rewardID id.RewardID, pointsCost int) error {
	resp, err := r.client.RPC(ctx, "redeem_reward", map[string]any{
		"p_user_id":     userID.String(),
		"p_reward_id":   rewardID.String(),
		"p_points_cost": pointsCost,
	})
	if err != nil {
		return err
	}
	if err := resp.Error(); err != nil {
		return err
	}
	if bytes.Equal(bytes.TrimSpace(resp.Body), []byte("false")) {
		return dErrors.New(dErrors.CodeInsufficientPoints, "insufficient points to redeem reward")
	}
	return nil
}

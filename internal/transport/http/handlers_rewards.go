package http

import (
	"net/http"

	id "stride/pkg/domain"
	"stride/pkg/validation"
)

type redeemRequest struct {
	RewardID   string `json:"reward_id" validate:"required,uuid"`
	PointsCost int    `json:"points_cost" validate:"required,gt=0"`
}

type redeemResponse struct {
	Redeemed bool   `json:"redeemed"`
	Error    string `json:"error,omitempty"`
}

func (h *Handlers) handleListRewards(w http.ResponseWriter, r *http.Request) {
	container, _, companyID, err := h.sessionScope(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	if err := container.Rewards.FetchRewards(r.Context(), companyID); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rewards": container.Rewards.Snapshot().Rewards})
}

func (h *Handlers) handleListRedemptions(w http.ResponseWriter, r *http.Request) {
	container, userID, _, err := h.sessionScope(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	if err := container.Rewards.FetchRedemptions(r.Context(), userID); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"redemptions": container.Rewards.Snapshot().Redemptions})
}

// handleRedeem mirrors the store contract: the outcome is a boolean, not an
// error status, so a rejected redemption is still a 200 the client branches
// on.
func (h *Handlers) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if err := validation.Validate(req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	rewardID, err := id.ParseRewardID(req.RewardID)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	container, userID, _, err := h.sessionScope(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	redeemed := container.Rewards.RedeemReward(r.Context(), userID, rewardID, req.PointsCost)
	resp := redeemResponse{Redeemed: redeemed}
	if !redeemed {
		resp.Error = container.Rewards.Snapshot().Err
	}
	respondJSON(w, http.StatusOK, resp)
}

// Package rewards holds the reward-catalog and redemption data store.
package rewards

import (
	id "stride/pkg/domain"
)

// Reward is a company-scoped catalog item.
type Reward struct {
	ID          id.RewardID  `json:"id"`
	CompanyID   id.CompanyID `json:"company_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	PointCost   int          `json:"point_cost"`
	Stock       int          `json:"stock"`
	ImageURL    string       `json:"image_url,omitempty"`
}

// RedemptionStatus is the fulfilment state a redemption moves through.
type RedemptionStatus string

const (
	StatusPending  RedemptionStatus = "pending"
	StatusApproved RedemptionStatus = "approved"
	StatusRejected RedemptionStatus = "rejected"
)

// RewardInfo is the nested reward projection on redemption rows.
type RewardInfo struct {
	Name      string `json:"name"`
	PointCost int    `json:"point_cost"`
}

// Redemption is one spend of points against a reward.
type Redemption struct {
	ID          id.RedemptionID  `json:"id"`
	UserID      id.UserID        `json:"user_id"`
	RewardID    id.RewardID      `json:"reward_id"`
	Date        string           `json:"date"`
	Status      RedemptionStatus `json:"status"`
	PointsSpent int              `json:"points_spent"`
	Reward      RewardInfo       `json:"rewards"`
}

// State is the reward store's observable state.
type State struct {
	Rewards     []Reward
	Redemptions []Redemption
	Loading     bool
	Err         string
}

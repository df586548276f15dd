// Package leaderboard holds the ranking data store: the cross-company board
// and the within-company individual board, both period-scoped.
package leaderboard

import (
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// Period selects the ranking window.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAllTime Period = "all-time"
)

// ParsePeriod validates a period string from the API.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodWeekly, PeriodMonthly, PeriodAllTime:
		return Period(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "period must be one of [weekly monthly all-time]")
	}
}

// CompanyInfo is the nested company projection on cross-company entries.
type CompanyInfo struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

// UserInfo is the nested member projection on individual entries.
type UserInfo struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// CompanyEntry is one row of the cross-company board. Rank is assigned
// locally, 1-based, by the order the backend returned (points descending);
// the store never re-sorts.
type CompanyEntry struct {
	ID        string       `json:"id"`
	CompanyID id.CompanyID `json:"company_id"`
	Points    int          `json:"points"`
	Period    Period       `json:"period"`
	Rank      int          `json:"rank"`
	Company   CompanyInfo  `json:"companies"`
}

// IndividualEntry is one row of the within-company board.
type IndividualEntry struct {
	ID        string       `json:"id"`
	UserID    id.UserID    `json:"user_id"`
	CompanyID id.CompanyID `json:"company_id"`
	Points    int          `json:"points"`
	Period    Period       `json:"period"`
	Rank      int          `json:"rank"`
	User      UserInfo     `json:"users"`
}

// State is the leaderboard store's observable state.
type State struct {
	Company    []CompanyEntry
	Individual []IndividualEntry
	Period     Period
	Loading    bool
	Err        string
}

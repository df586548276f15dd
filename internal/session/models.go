package session

import (
	"time"

	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// This file contains pure domain models for the session core: entities that
// do not depend on transport or backend wire formats.

// Role is stored verbatim on the users table.
type Role string

const (
	RoleHRAdmin  Role = "HR Admin"
	RoleEmployee Role = "Employee"
)

// ParseRole maps the API's snake_case role names onto stored roles.
func ParseRole(s string) (Role, error) {
	switch s {
	case "hr_admin":
		return RoleHRAdmin, nil
	case "employee":
		return RoleEmployee, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "role must be one of [hr_admin employee]")
	}
}

// Theme is the stored UI theme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Principal is the authenticated member's profile row. It is a read-side
// projection fetched at sign-in/sign-up time: server-side point changes are
// not reflected until the next explicit fetch (a staleness contract, not a
// bug).
type Principal struct {
	ID              id.UserID    `json:"id"`
	Email           string       `json:"email"`
	Name            string       `json:"name"`
	Role            Role         `json:"role"`
	CompanyID       id.CompanyID `json:"company_id"`
	Points          int          `json:"points"`
	ThemePreference Theme        `json:"theme_preference"`
	AvatarURL       string       `json:"avatar_url,omitempty"`
}

// Company is a tenant. Every Principal belongs to exactly one Company.
type Company struct {
	ID          id.CompanyID `json:"id"`
	Name        string       `json:"name"`
	LogoURL     string       `json:"logo_url,omitempty"`
	WorkingDays []string     `json:"working_days"`
	Tier        string       `json:"tier"`
}

// DefaultWorkingDays is the working-day set a company starts with.
func DefaultWorkingDays() []string {
	return []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
}

// TierFree is the tier assigned to companies created at sign-up.
const TierFree = "free"

// Credentials is the backend-issued session observed by the store. The store
// never constructs or refreshes tokens itself; it records what the backend
// returned so the registry can persist it and sign-out can present it.
type Credentials struct {
	UserID       id.UserID
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// State is the session store's observable state.
// Invariant: once Loading is false, Authenticated == (User != nil).
type State struct {
	User          *Principal
	Loading       bool
	Err           string
	Authenticated bool
}

// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "stride/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a UserID where a CompanyID is expected.
type (
	UserID       uuid.UUID
	CompanyID    uuid.UUID
	HabitID      uuid.UUID
	HabitTypeID  uuid.UUID
	RewardID     uuid.UUID
	RedemptionID uuid.UUID
)

// SessionID is the opaque gateway session identifier handed to the browser.
type SessionID string

// Parse functions - use at trust boundaries (handlers, backend responses).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseCompanyID(s string) (CompanyID, error) {
	id, err := parseUUID(s, "company ID")
	return CompanyID(id), err
}

func ParseHabitID(s string) (HabitID, error) {
	id, err := parseUUID(s, "habit ID")
	return HabitID(id), err
}

func ParseHabitTypeID(s string) (HabitTypeID, error) {
	id, err := parseUUID(s, "habit type ID")
	return HabitTypeID(id), err
}

func ParseRewardID(s string) (RewardID, error) {
	id, err := parseUUID(s, "reward ID")
	return RewardID(id), err
}

func ParseRedemptionID(s string) (RedemptionID, error) {
	id, err := parseUUID(s, "redemption ID")
	return RedemptionID(id), err
}

func ParseSessionID(s string) (SessionID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "session ID cannot be empty")
	}
	return SessionID(s), nil
}

// NewSessionID mints a fresh opaque gateway session identifier.
func NewSessionID() SessionID {
	return SessionID("gws_" + uuid.New().String())
}

// New functions - mint random IDs, mostly for tests; row IDs normally come
// from the backend.

func NewUserID() UserID             { return UserID(uuid.New()) }
func NewCompanyID() CompanyID       { return CompanyID(uuid.New()) }
func NewHabitID() HabitID           { return HabitID(uuid.New()) }
func NewRewardID() RewardID         { return RewardID(uuid.New()) }
func NewRedemptionID() RedemptionID { return RedemptionID(uuid.New()) }

// String methods - for logging and debugging.

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id CompanyID) String() string    { return uuid.UUID(id).String() }
func (id HabitID) String() string      { return uuid.UUID(id).String() }
func (id HabitTypeID) String() string  { return uuid.UUID(id).String() }
func (id RewardID) String() string     { return uuid.UUID(id).String() }
func (id RedemptionID) String() string { return uuid.UUID(id).String() }
func (id SessionID) String() string    { return string(id) }

// IsZero reports whether the ID is the zero UUID.

func (id UserID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id CompanyID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id RewardID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+what)
	}
	return id, nil
}

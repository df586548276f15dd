// Package habits holds the habit-logging data store: the member's habit
// history plus the company's habit-type catalog.
package habits

import (
	id "stride/pkg/domain"
)

// Habit is one logged activity. Date is the activity day in ISO form
// (2025-01-02); the backend orders history by it, newest first.
type Habit struct {
	ID           id.HabitID   `json:"id"`
	UserID       id.UserID    `json:"user_id"`
	CompanyID    id.CompanyID `json:"company_id"`
	Type         string       `json:"type"`
	Duration     int          `json:"duration"`
	Date         string       `json:"date"`
	PointsEarned int          `json:"points_earned"`
}

// HabitType is a company-scoped catalog entry describing a loggable activity
// and its point yield.
type HabitType struct {
	ID              id.HabitTypeID `json:"id"`
	CompanyID       id.CompanyID   `json:"company_id"`
	Name            string         `json:"name"`
	PointsPerMinute int            `json:"points_per_minute"`
	Icon            string         `json:"icon,omitempty"`
	Color           string         `json:"color,omitempty"`
}

// NewHabit is the insert payload for LogHabit. The backend assigns the id.
type NewHabit struct {
	UserID       id.UserID    `json:"user_id"`
	CompanyID    id.CompanyID `json:"company_id"`
	Type         string       `json:"type"`
	Duration     int          `json:"duration"`
	Date         string       `json:"date"`
	PointsEarned int          `json:"points_earned"`
}

// State is the habit store's observable state. Habits and HabitTypes hold the
// last successful responses; a failed fetch leaves them in place.
type State struct {
	Habits     []Habit
	HabitTypes []HabitType
	Loading    bool
	Err        string
}

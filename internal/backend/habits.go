package backend

import (
	"context"

	"stride/internal/habits"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// HabitStore reads and writes the habits and habit_types tables. It satisfies
// habits.Repository.
type HabitStore struct {
	client *Client
}

// NewHabitStore wraps the backend client for habit access.
func NewHabitStore(client *Client) *HabitStore {
	return &HabitStore{client: client}
}

// ListHabitsByUser returns the member's logged habits, newest date first.
func (h *HabitStore) ListHabitsByUser(ctx context.Context, userID id.UserID) ([]habits.Habit, error) {
	resp, err := h.client.From("habits").
		Select("*").
		Eq("user_id", userID.String()).
		Order("date", false).
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var rows []habits.Habit
	if err := resp.JSON(&rows); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode habit rows")
	}
	return rows, nil
}

// ListHabitTypes returns the company's habit-type catalog.
func (h *HabitStore) ListHabitTypes(ctx context.Context, companyID id.CompanyID) ([]habits.HabitType, error) {
	resp, err := h.client.From("habit_types").
		Select("*").
		Eq("company_id", companyID.String()).
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var rows []habits.HabitType
	if err := resp.JSON(&rows); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode habit type rows")
	}
	return rows, nil
}

// InsertHabit inserts a habit and returns the stored row with its assigned id.
func (h *HabitStore) InsertHabit(ctx context.Context, habit habits.NewHabit) (*habits.Habit, error) {
	resp, err := h.client.From("habits").Single().ExecuteInsert(ctx, habit)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var row habits.Habit
	if err := resp.JSON(&row); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode inserted habit")
	}
	return &row, nil
}

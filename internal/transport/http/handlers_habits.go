package http

import (
	"net/http"

	"stride/internal/habits"
	"stride/internal/platform/middleware"
	"stride/internal/state"
	id "stride/pkg/domain"
	"stride/pkg/validation"
)

type logHabitRequest struct {
	Type         string `json:"type" validate:"required,notblank"`
	Duration     int    `json:"duration" validate:"required,gt=0"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	PointsEarned int    `json:"points_earned" validate:"gte=0"`
}

func (h *Handlers) handleListHabits(w http.ResponseWriter, r *http.Request) {
	container, userID, _, err := h.sessionScope(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	if err := container.Habits.FetchHabits(r.Context(), userID); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"habits": container.Habits.Snapshot().Habits})
}

func (h *Handlers) handleListHabitTypes(w http.ResponseWriter, r *http.Request) {
	container, _, companyID, err := h.sessionScope(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	if err := container.Habits.FetchHabitTypes(r.Context(), companyID); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"habit_types": container.Habits.Snapshot().HabitTypes})
}

func (h *Handlers) handleLogHabit(w http.ResponseWriter, r *http.Request) {
	var req logHabitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if err := validation.Validate(req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	container, userID, companyID, err := h.sessionScope(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	created, err := container.Habits.LogHabit(r.Context(), habits.NewHabit{
		UserID:       userID,
		CompanyID:    companyID,
		Type:         req.Type,
		Duration:     req.Duration,
		Date:         req.Date,
		PointsEarned: req.PointsEarned,
	})
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"habit": created})
}

// sessionScope resolves the request's container and typed identity IDs.
func (h *Handlers) sessionScope(r *http.Request) (*state.Container, id.UserID, id.CompanyID, error) {
	identity := middleware.GetIdentity(r.Context())

	userID, err := id.ParseUserID(identity.UserID)
	if err != nil {
		return nil, id.UserID{}, id.CompanyID{}, err
	}
	companyID, err := id.ParseCompanyID(identity.CompanyID)
	if err != nil {
		return nil, id.UserID{}, id.CompanyID{}, err
	}
	return h.manager.GetOrCreate(id.SessionID(identity.SessionID)), userID, companyID, nil
}

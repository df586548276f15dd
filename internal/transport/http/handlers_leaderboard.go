package http

import (
	"net/http"

	"stride/internal/leaderboard"
	"stride/pkg/validation"
)

type setPeriodRequest struct {
	Period string `json:"period" validate:"required,oneof=weekly monthly all-time"`
}

func (h *Handlers) handleLeaderboards(w http.ResponseWriter, r *http.Request) {
	container, _, companyID, err := h.sessionScope(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	if err := container.Leaderboard.RefreshAll(r.Context(), companyID); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	state := container.Leaderboard.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{
		"period":     state.Period,
		"company":    state.Company,
		"individual": state.Individual,
	})
}

func (h *Handlers) handleCompanyLeaderboard(w http.ResponseWriter, r *http.Request) {
	container, _, _, err := h.sessionScope(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	if err := container.Leaderboard.FetchCompanyLeaderboard(r.Context()); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	state := container.Leaderboard.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{
		"period":  state.Period,
		"entries": state.Company,
	})
}

func (h *Handlers) handleIndividualLeaderboard(w http.ResponseWriter, r *http.Request) {
	container, _, companyID, err := h.sessionScope(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	if err := container.Leaderboard.FetchIndividualLeaderboard(r.Context(), companyID); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	state := container.Leaderboard.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{
		"period":  state.Period,
		"entries": state.Individual,
	})
}

func (h *Handlers) handleSetPeriod(w http.ResponseWriter, r *http.Request) {
	var req setPeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if err := validation.Validate(req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	period, err := leaderboard.ParsePeriod(req.Period)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	container, _, _, err := h.sessionScope(r)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	container.Leaderboard.SetPeriod(period)
	w.WriteHeader(http.StatusNoContent)
}

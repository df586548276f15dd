package http

import (
	"net/http"
	"time"

	"stride/internal/device"
	"stride/internal/platform/middleware"
	"stride/internal/session"
	"stride/internal/session/registry"
	"stride/internal/state"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
	"stride/pkg/validation"
)

type signUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Name            string `json:"name" validate:"required,notblank"`
	Company         string `json:"company" validate:"required,notblank"`
	Role            string `json:"role" validate:"required,oneof=hr_admin employee"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type setThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=dark light"`
}

type sessionResponse struct {
	User      *session.Principal `json:"user"`
	ExpiresAt time.Time          `json:"expires_at"`
}

func (h *Handlers) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if err := validation.Validate(req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	role, err := session.ParseRole(req.Role)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	sid := id.NewSessionID()
	container := h.manager.GetOrCreate(sid)
	if err := container.Session.SignUp(r.Context(), req.Email, req.Password, req.Name, req.Company, role); err != nil {
		h.manager.Remove(sid)
		respondError(w, h.logger, r, err)
		return
	}

	h.establishSession(w, r, sid, container, http.StatusCreated)
}

func (h *Handlers) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if err := validation.Validate(req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	sid := id.NewSessionID()
	container := h.manager.GetOrCreate(sid)
	if err := container.Session.SignIn(r.Context(), req.Email, req.Password); err != nil {
		h.manager.Remove(sid)
		respondError(w, h.logger, r, err)
		return
	}

	h.establishSession(w, r, sid, container, http.StatusOK)
}

// establishSession records the freshly authenticated session in the registry
// and hands the browser its cookie.
func (h *Handlers) establishSession(w http.ResponseWriter, r *http.Request, sid id.SessionID, container *state.Container, status int) {
	snapshot := container.Session.Snapshot()
	creds := container.Session.Credentials()
	if snapshot.User == nil || creds == nil {
		h.manager.Remove(sid)
		respondError(w, h.logger, r, dErrors.New(dErrors.CodeInternal, "session settled without a user"))
		return
	}

	now := time.Now()
	record := &registry.Record{
		ID:                sid,
		UserID:            creds.UserID,
		CompanyID:         snapshot.User.CompanyID,
		Role:              snapshot.User.Role,
		Email:             snapshot.User.Email,
		AccessToken:       creds.AccessToken,
		RefreshToken:      creds.RefreshToken,
		DeviceDisplayName: device.DisplayName(r.UserAgent()),
		CreatedAt:         now,
		ExpiresAt:         creds.ExpiresAt,
		LastSeenAt:        now,
	}
	if err := h.registry.Save(r.Context(), record); err != nil {
		h.manager.Remove(sid)
		respondError(w, h.logger, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.IncrementActiveSessions(1)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    string(sid),
		Path:     "/",
		Expires:  creds.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, status, sessionResponse{User: snapshot.User, ExpiresAt: creds.ExpiresAt})
}

// handleSignOut tears the session down everywhere: remote revocation, the
// registry record, the state container, and the cookie. The registry delete
// happens regardless of the remote outcome, so a failed revocation still
// leaves the gateway signed out.
func (h *Handlers) handleSignOut(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	sid := id.SessionID(identity.SessionID)

	var remoteErr error
	if container := h.manager.Get(sid); container != nil {
		remoteErr = container.Session.SignOut(r.Context())
	} else if record, err := h.registry.Find(r.Context(), sid); err == nil {
		// Restored session with no live container (e.g. gateway restart).
		remoteErr = h.auth.SignOut(r.Context(), record.AccessToken)
	}

	if err := h.registry.Delete(r.Context(), sid); err != nil {
		h.logger.WarnContext(r.Context(), "failed to delete session record", "error", err)
	}
	h.manager.Remove(sid)
	if h.metrics != nil {
		h.metrics.DecrementActiveSessions(1)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	if remoteErr != nil {
		respondError(w, h.logger, r, remoteErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	if container := h.manager.Get(id.SessionID(identity.SessionID)); container != nil {
		if snapshot := container.Session.Snapshot(); snapshot.User != nil {
			respondJSON(w, http.StatusOK, map[string]any{"user": snapshot.User})
			return
		}
	}

	// No live container: fall back to the profile row.
	userID, err := id.ParseUserID(identity.UserID)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	principal, err := h.directory.FindPrincipalByID(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": principal})
}

func (h *Handlers) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req setThemeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if err := validation.Validate(req); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	theme := session.Theme(req.Theme)

	identity := middleware.GetIdentity(r.Context())
	if container := h.manager.Get(id.SessionID(identity.SessionID)); container != nil && container.Session.Snapshot().User != nil {
		if err := container.Session.SetTheme(r.Context(), theme); err != nil {
			respondError(w, h.logger, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	userID, err := id.ParseUserID(identity.UserID)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	if err := h.directory.UpdateThemePreference(r.Context(), userID, theme); err != nil {
		respondError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stride/internal/platform/audit"
	"stride/internal/platform/metrics"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// Authenticator is the backend's credential interface. Session persistence
// and token refresh live entirely behind it; the store only observes success
// or failure of each call.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*Credentials, error)
	SignIn(ctx context.Context, email, password string) (*Credentials, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Directory is the backend's users/companies table interface.
// Error Contract: Find methods return a not_found domain error when no row matches.
type Directory interface {
	FindPrincipalByID(ctx context.Context, userID id.UserID) (*Principal, error)
	CreatePrincipal(ctx context.Context, p *Principal) error
	FindCompanyByName(ctx context.Context, name string) (*Company, error)
	CreateCompany(ctx context.Context, c *Company) (*Company, error)
	UpdateThemePreference(ctx context.Context, userID id.UserID, theme Theme) error
}

// Store owns the authentication state for one client session. It is an
// explicit, injected state container - never a package-level singleton - so
// concurrent sessions and isolated tests get their own instance.
//
// State machine: Anonymous -> (SignIn/SignUp) -> loading -> Authenticated on
// success, back to Anonymous with Err set on failure. Err overlays either
// base state without changing Authenticated. SignOut returns to Anonymous
// even when the remote call fails (fail-closed, see DESIGN.md).
//
// Mutating calls while another is in flight are rejected with an
// operation_in_flight error, and each flow carries a sequence number so a
// superseded flow's completion is a harmless no-op.
type Store struct {
	auth      Authenticator
	directory Directory

	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Logger
	tracer  trace.Tracer

	mu          sync.Mutex
	state       State
	creds       *Credentials
	seq         uint64
	subscribers []func(State)
}

// Option configures the Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func WithAuditLogger(a *audit.Logger) Option {
	return func(s *Store) { s.audit = a }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Store) { s.tracer = t }
}

// New constructs an anonymous session store.
func New(auth Authenticator, directory Directory, opts ...Option) *Store {
	s := &Store{
		auth:      auth,
		directory: directory,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("stride/session")
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Credentials returns a copy of the backend credentials, or nil when anonymous.
func (s *Store) Credentials() *Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return nil
	}
	c := *s.creds
	return &c
}

// Subscribe registers fn to run after every settled state transition. The
// route guard uses this to re-evaluate access whenever Authenticated flips.
// Callbacks run outside the store lock and must not be assumed ordered
// across transitions.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// SignIn authenticates with email/password and loads the member's profile.
// Both steps must succeed before any state becomes visible: a failure at
// either leaves User and Authenticated untouched and records Err.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	seq, err := s.begin("sign-in")
	if err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, "session.sign_in",
		trace.WithAttributes(attribute.String("email", email)))

	creds, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.failAuth(ctx, seq, "password_rejected", err, "email", email)
		endSpan(span, err)
		return err
	}

	principal, err := s.directory.FindPrincipalByID(ctx, creds.UserID)
	if err != nil {
		s.failAuth(ctx, seq, "profile_fetch_failed", err,
			"email", email,
			"user_id", creds.UserID.String(),
		)
		endSpan(span, err)
		return err
	}

	s.commit(seq, principal, creds)
	s.auditLog(ctx, audit.EventUserSignedIn,
		"user_id", principal.ID.String(),
		"company_id", principal.CompanyID.String(),
		"email", principal.Email,
	)
	if s.metrics != nil {
		s.metrics.IncrementSignIns()
	}
	endSpan(span, nil)
	return nil
}

// SignUp provisions an account: auth identity, then company resolution, then
// the profile row. Each step aborts the remainder on failure; remote side
// effects already performed are not rolled back (accepted inconsistency
// window - the backend keeps no partial state visible to this store). On
// success the locally assembled Principal is committed without a re-fetch.
func (s *Store) SignUp(ctx context.Context, email, password, name, companyName string, role Role) error {
	seq, err := s.begin("sign-up")
	if err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, "session.sign_up",
		trace.WithAttributes(
			attribute.String("email", email),
			attribute.String("role", string(role)),
		))

	creds, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		s.failAuth(ctx, seq, "identity_creation_failed", err, "email", email)
		endSpan(span, err)
		return err
	}

	var companyID id.CompanyID
	switch role {
	case RoleHRAdmin:
		company, cerr := s.directory.CreateCompany(ctx, &Company{
			Name:        companyName,
			WorkingDays: DefaultWorkingDays(),
			Tier:        TierFree,
		})
		if cerr != nil {
			s.failAuth(ctx, seq, "company_creation_failed", cerr, "email", email)
			endSpan(span, cerr)
			return cerr
		}
		companyID = company.ID
		s.auditLog(ctx, audit.EventCompanyCreated,
			"company_id", companyID.String(),
			"detail", companyName,
		)
		if s.metrics != nil {
			s.metrics.IncrementCompaniesCreated()
		}
	case RoleEmployee:
		company, cerr := s.directory.FindCompanyByName(ctx, companyName)
		if cerr != nil {
			if dErrors.HasCode(cerr, dErrors.CodeNotFound) {
				cerr = dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("company %q not found", companyName))
			}
			s.failAuth(ctx, seq, "company_lookup_failed", cerr, "email", email)
			endSpan(span, cerr)
			return cerr
		}
		companyID = company.ID
	default:
		rerr := dErrors.New(dErrors.CodeInvalidInput, "unknown role")
		s.fail(seq, rerr)
		endSpan(span, rerr)
		return rerr
	}

	principal := &Principal{
		ID:              creds.UserID,
		Email:           email,
		Name:            name,
		Role:            role,
		CompanyID:       companyID,
		Points:          0,
		ThemePreference: ThemeDark,
	}
	if perr := s.directory.CreatePrincipal(ctx, principal); perr != nil {
		s.failAuth(ctx, seq, "profile_creation_failed", perr,
			"email", email,
			"user_id", creds.UserID.String(),
		)
		endSpan(span, perr)
		return perr
	}

	s.commit(seq, principal, creds)
	s.auditLog(ctx, audit.EventUserSignedUp,
		"user_id", principal.ID.String(),
		"company_id", companyID.String(),
		"email", email,
		"detail", string(role),
	)
	if s.metrics != nil {
		s.metrics.IncrementSignUps(roleLabel(role))
	}
	endSpan(span, nil)
	return nil
}

// SignOut invalidates the backend session and clears local state. Local state
// clears even when the remote call fails: a stale authenticated-looking UI is
// worse than an orphaned remote token, so the store fails closed and surfaces
// the error alongside the Anonymous state. Signing out while anonymous is a
// no-op.
func (s *Store) SignOut(ctx context.Context) error {
	seq, err := s.begin("sign-out")
	if err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, "session.sign_out")

	s.mu.Lock()
	var token string
	var userID string
	if s.creds != nil {
		token = s.creds.AccessToken
		userID = s.creds.UserID.String()
	}
	s.mu.Unlock()

	var remoteErr error
	if token != "" {
		remoteErr = s.auth.SignOut(ctx, token)
	}

	s.mu.Lock()
	if seq == s.seq {
		s.state.User = nil
		s.state.Authenticated = false
		s.state.Loading = false
		if remoteErr != nil {
			s.state.Err = dErrors.Message(remoteErr)
		}
		s.creds = nil
	}
	st := s.state
	s.mu.Unlock()
	s.notify(st)

	if remoteErr != nil {
		s.logger.WarnContext(ctx, "remote sign-out failed, local session cleared",
			"error", remoteErr,
			"user_id", userID,
		)
	}
	if userID != "" {
		s.auditLog(ctx, audit.EventUserSignedOut, "user_id", userID)
	}
	endSpan(span, remoteErr)
	return remoteErr
}

// SetTheme persists the member's theme preference and mirrors it locally.
func (s *Store) SetTheme(ctx context.Context, theme Theme) error {
	seq, err := s.begin("set-theme")
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		uerr := dErrors.New(dErrors.CodeUnauthorized, "sign in to change theme")
		s.fail(seq, uerr)
		return uerr
	}
	userID := s.state.User.ID
	s.mu.Unlock()

	if uerr := s.directory.UpdateThemePreference(ctx, userID, theme); uerr != nil {
		s.fail(seq, uerr)
		return uerr
	}

	s.settle(seq, func(st *State) {
		if st.User != nil {
			st.User.ThemePreference = theme
		}
	})
	return nil
}

// ClearError resets the error overlay. Pure, synchronous, idempotent.
func (s *Store) ClearError() {
	s.mu.Lock()
	if s.state.Err == "" {
		s.mu.Unlock()
		return
	}
	s.state.Err = ""
	st := s.state
	s.mu.Unlock()
	s.notify(st)
}

// begin claims the store for one flow. It rejects the call when another flow
// has not settled, preventing last-write-wins races on shared state.
func (s *Store) begin(op string) (uint64, error) {
	s.mu.Lock()
	if s.state.Loading {
		s.mu.Unlock()
		return 0, dErrors.New(dErrors.CodeInFlight, op+" rejected: another operation is in progress")
	}
	s.seq++
	seq := s.seq
	s.state.Loading = true
	s.state.Err = ""
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return seq, nil
}

// settle applies a state mutation for flow seq, re-deriving Authenticated.
// A stale seq (flow superseded after the in-flight guard was bypassed, e.g.
// a restored registry record) makes this a no-op.
func (s *Store) settle(seq uint64, apply func(*State)) bool {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return false
	}
	if apply != nil {
		apply(&s.state)
	}
	s.state.Loading = false
	s.state.Authenticated = s.state.User != nil
	st := s.state
	s.mu.Unlock()
	s.notify(st)
	return true
}

// commit atomically exposes the signed-in user and credentials.
func (s *Store) commit(seq uint64, principal *Principal, creds *Credentials) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	p := *principal
	c := *creds
	s.state.User = &p
	s.creds = &c
	s.state.Loading = false
	s.state.Authenticated = true
	st := s.state
	s.mu.Unlock()
	s.notify(st)
}

func (s *Store) fail(seq uint64, err error) {
	s.settle(seq, func(st *State) {
		st.Err = dErrors.Message(err)
	})
}

func (s *Store) failAuth(ctx context.Context, seq uint64, reason string, err error, attributes ...any) {
	s.fail(seq, err)
	args := append(attributes, "reason", reason, "error", err)
	s.logger.WarnContext(ctx, audit.EventAuthFailed, args...)
	s.auditLog(ctx, audit.EventAuthFailed, append(attributes, "detail", reason)...)
	if s.metrics != nil {
		s.metrics.IncrementAuthFailures()
	}
}

func (s *Store) auditLog(ctx context.Context, event string, attributes ...any) {
	if s.audit != nil {
		s.audit.Log(ctx, event, attributes...)
	}
}

func (s *Store) notify(st State) {
	s.mu.Lock()
	subs := make([]func(State), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
}

func roleLabel(role Role) string {
	if role == RoleHRAdmin {
		return "hr_admin"
	}
	return "employee"
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

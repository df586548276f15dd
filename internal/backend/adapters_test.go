package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"stride/internal/session"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

type AdapterSuite struct {
	suite.Suite
	ctx context.Context
}

func TestAdapterSuite(t *testing.T) {
	suite.Run(t, new(AdapterSuite))
}

func (s *AdapterSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *AdapterSuite) client(handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	s.T().Cleanup(server.Close)
	client, err := New(Config{URL: server.URL, APIKey: "service-key"})
	s.Require().NoError(err)
	return client
}

func (s *AdapterSuite) TestFindCompanyByNameNotFound() {
	// The row API answers 406 when a single-object read matches zero rows.
	store := NewDirectoryStore(s.client(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("eq.NoSuchCo", r.URL.Query().Get("name"))
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = w.Write([]byte(`{"message":"JSON object requested, multiple (or no) rows returned"}`))
	}))

	_, err := store.FindCompanyByName(s.ctx, "NoSuchCo")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *AdapterSuite) TestFindPrincipalByIDDecodesRow() {
	userID := id.NewUserID()
	companyID := id.NewCompanyID()
	store := NewDirectoryStore(s.client(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/rest/v1/users", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":               userID.String(),
			"email":            "taylor@acme.test",
			"name":             "Taylor",
			"role":             "Employee",
			"company_id":       companyID.String(),
			"points":           120,
			"theme_preference": "dark",
		})
	}))

	principal, err := store.FindPrincipalByID(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(userID, principal.ID)
	s.Equal(companyID, principal.CompanyID)
	s.Equal(session.RoleEmployee, principal.Role)
	s.Equal(120, principal.Points)
	s.Equal(session.ThemeDark, principal.ThemePreference)
}

func (s *AdapterSuite) TestCreateCompanySendsDefaults() {
	companyID := id.NewCompanyID()
	var body map[string]any
	store := NewDirectoryStore(s.client(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":           companyID.String(),
			"name":         body["name"],
			"working_days": body["working_days"],
			"tier":         body["tier"],
		})
	}))

	created, err := store.CreateCompany(s.ctx, &session.Company{
		Name:        "Acme Inc.",
		WorkingDays: session.DefaultWorkingDays(),
		Tier:        session.TierFree,
	})
	s.Require().NoError(err)
	s.Equal(companyID, created.ID)
	s.Equal("free", body["tier"])
	s.Len(body["working_days"], 5)

	// The insert body must not name the primary key: an explicit id, even the
	// zero UUID, would override the column default and collide on the second
	// company ever created.
	s.NotContains(body, "id")
}

func (s *AdapterSuite) TestRedeemFalseResultIsInsufficientPoints() {
	store := NewRewardStore(s.client(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/rest/v1/rpc/redeem_reward", r.URL.Path)
		var params map[string]any
		_ = json.NewDecoder(r.Body).Decode(&params)
		s.Equal(float64(50), params["p_points_cost"])
		_, _ = w.Write([]byte(`false`))
	}))

	err := store.Redeem(s.ctx, id.NewUserID(), id.NewRewardID(), 50)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInsufficientPoints))
}

func (s *AdapterSuite) TestRedeemTrueResultSucceeds() {
	store := NewRewardStore(s.client(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`true`))
	}))
	s.NoError(store.Redeem(s.ctx, id.NewUserID(), id.NewRewardID(), 50))
}

func (s *AdapterSuite) TestListHabitsOrdersByDateDescending() {
	userID := id.NewUserID()
	store := NewHabitStore(s.client(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("date.desc", r.URL.Query().Get("order"))
		s.Equal(fmt.Sprintf("eq.%s", userID), r.URL.Query().Get("user_id"))
		_, _ = w.Write([]byte(`[]`))
	}))

	rows, err := store.ListHabitsByUser(s.ctx, userID)
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *AdapterSuite) TestListRewardsOrdersByCostAscending() {
	store := NewRewardStore(s.client(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("point_cost.asc", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := store.ListRewards(s.ctx, id.NewCompanyID())
	s.Require().NoError(err)
}

func (s *AdapterSuite) TestListCompanyEntriesSelectsNestedCompany() {
	store := NewLeaderboardStore(s.client(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("id,company_id,points,period,companies(name,logo_url)", r.URL.Query().Get("select"))
		s.Equal("eq.weekly", r.URL.Query().Get("period"))
		s.Equal("points.desc", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(`[{"id":"e1","points":300,"period":"weekly","companies":{"name":"Acme Inc."}}]`))
	}))

	entries, err := store.ListCompanyEntries(s.ctx, "weekly")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("Acme Inc.", entries[0].Company.Name)
}

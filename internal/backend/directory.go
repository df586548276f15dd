package backend

import (
	"context"

	"stride/internal/session"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// DirectoryStore reads and writes the users and companies tables. It
// satisfies session.Directory.
type DirectoryStore struct {
	client *Client
}

// NewDirectoryStore wraps the backend client for directory access.
func NewDirectoryStore(client *Client) *DirectoryStore {
	return &DirectoryStore{client: client}
}

type userRow struct {
	ID              id.UserID    `json:"id"`
	Email           string       `json:"email"`
	Name            string       `json:"name"`
	Role            session.Role `json:"role"`
	CompanyID       id.CompanyID `json:"company_id"`
	Points          int          `json:"points"`
	ThemePreference string       `json:"theme_preference"`
	AvatarURL       string       `json:"avatar_url"`
}

type companyRow struct {
	ID          id.CompanyID `json:"id"`
	Name        string       `json:"name"`
	LogoURL     string       `json:"logo_url,omitempty"`
	WorkingDays []string     `json:"working_days"`
	Tier        string       `json:"tier"`
}

// newCompanyRow is the insert payload. It carries no id field at all: the
// backend assigns the primary key, and a zero-valued id in the body would
// override the column default.
type newCompanyRow struct {
	Name        string   `json:"name"`
	LogoURL     string   `json:"logo_url,omitempty"`
	WorkingDays []string `json:"working_days"`
	Tier        string   `json:"tier"`
}

// FindPrincipalByID fetches a member's profile row.
func (d *DirectoryStore) FindPrincipalByID(ctx context.Context, userID id.UserID) (*session.Principal, error) {
	resp, err := d.client.From("users").
		Select("*").
		Eq("id", userID.String()).
		Single().
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "profile not found")
	}

	var row userRow
	if err := resp.JSON(&row); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode user row")
	}
	return principalFromRow(row), nil
}

// CreatePrincipal inserts the member's profile row at sign-up. The row id is
// the auth identity's id, so the caller must have created the identity first.
func (d *DirectoryStore) CreatePrincipal(ctx context.Context, p *session.Principal) error {
	row := userRow{
		ID:              p.ID,
		Email:           p.Email,
		Name:            p.Name,
		Role:            p.Role,
		CompanyID:       p.CompanyID,
		Points:          p.Points,
		ThemePreference: string(p.ThemePreference),
		AvatarURL:       p.AvatarURL,
	}
	resp, err := d.client.From("users").ExecuteInsert(ctx, row)
	if err != nil {
		return err
	}
	return resp.Error()
}

// FindCompanyByName resolves a company by exact name match. Employee sign-up
// depends on this; a misspelled company name surfaces as not found.
func (d *DirectoryStore) FindCompanyByName(ctx context.Context, name string) (*session.Company, error) {
	resp, err := d.client.From("companies").
		Select("*").
		Eq("name", name).
		Single().
		Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "company not found")
	}

	var row companyRow
	if err := resp.JSON(&row); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode company row")
	}
	return companyFromRow(row), nil
}

// CreateCompany inserts a tenant and returns it with the assigned id.
func (d *DirectoryStore) CreateCompany(ctx context.Context, c *session.Company) (*session.Company, error) {
	row := newCompanyRow{
		Name:        c.Name,
		LogoURL:     c.LogoURL,
		WorkingDays: c.WorkingDays,
		Tier:        c.Tier,
	}
	resp, err := d.client.From("companies").Single().ExecuteInsert(ctx, row)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var created companyRow
	if err := resp.JSON(&created); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode created company")
	}
	return companyFromRow(created), nil
}

// UpdateThemePreference persists the member's theme choice.
func (d *DirectoryStore) UpdateThemePreference(ctx context.Context, userID id.UserID, theme session.Theme) error {
	resp, err := d.client.From("users").
		Eq("id", userID.String()).
		ExecuteUpdate(ctx, map[string]string{"theme_preference": string(theme)})
	if err != nil {
		return err
	}
	return resp.Error()
}

func principalFromRow(row userRow) *session.Principal {
	return &session.Principal{
		ID:              row.ID,
		Email:           row.Email,
		Name:            row.Name,
		Role:            row.Role,
		CompanyID:       row.CompanyID,
		Points:          row.Points,
		ThemePreference: session.Theme(row.ThemePreference),
		AvatarURL:       row.AvatarURL,
	}
}

func companyFromRow(row companyRow) *session.Company {
	return &session.Company{
		ID:          row.ID,
		Name:        row.Name,
		LogoURL:     row.LogoURL,
		WorkingDays: row.WorkingDays,
		Tier:        row.Tier,
	}
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"stride/internal/session"
	id "stride/pkg/domain"
	dErrors "stride/pkg/domain-errors"
)

// AuthClient drives the backend's email/password auth endpoints. It satisfies
// session.Authenticator.
type AuthClient struct {
	client     *Client
	sessionTTL time.Duration
}

// NewAuthClient wraps the backend client for auth calls. sessionTTL is the
// fallback credential lifetime when the backend response carries neither a
// token expiry claim nor an expires_in hint.
func NewAuthClient(client *Client, sessionTTL time.Duration) *AuthClient {
	return &AuthClient{client: client, sessionTTL: sessionTTL}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignUp creates an auth identity. The profile row is provisioned separately
// by the caller; a failure after this point orphans the identity, which the
// backend tolerates.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*session.Credentials, error) {
	resp, err := a.post(ctx, "/auth/v1/signup", authRequest{Email: email, Password: password}, "")
	if err != nil {
		return nil, err
	}
	return a.credentials(resp)
}

// SignIn exchanges email/password for a token pair.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*session.Credentials, error) {
	resp, err := a.post(ctx, "/auth/v1/token?grant_type=password", authRequest{Email: email, Password: password}, "")
	if err != nil {
		return nil, err
	}
	return a.grantCredentials(resp)
}

// SignOut revokes the session behind accessToken.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	resp, err := a.post(ctx, "/auth/v1/logout", nil, accessToken)
	if err != nil {
		return err
	}
	// 204 on success; some deployments answer 404 for an already-revoked
	// token, which is as signed-out as it gets.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return resp.Error()
}

// RefreshSession exchanges a refresh token for a fresh token pair. The
// registry uses this to revive restored sessions whose access token lapsed.
func (a *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*session.Credentials, error) {
	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{RefreshToken: refreshToken}
	resp, err := a.post(ctx, "/auth/v1/token?grant_type=refresh_token", body, "")
	if err != nil {
		return nil, err
	}
	return a.grantCredentials(resp)
}

// grantCredentials decodes a token grant response. The grant endpoints answer
// 400 for a rejected password or refresh token; to the member that is a
// credentials problem, not a malformed request. Sign-up keeps its 400s as-is,
// where they carry messages worth relaying, such as a duplicate email.
func (a *AuthClient) grantCredentials(resp *Response) (*session.Credentials, error) {
	creds, err := a.credentials(resp)
	if err != nil && dErrors.HasCode(err, dErrors.CodeInvalidInput) {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid credentials")
	}
	return creds, err
}

func (a *AuthClient) credentials(resp *Response) (*session.Credentials, error) {
	if err := resp.Error(); err != nil {
		return nil, err
	}

	var body authResponse
	if err := resp.JSON(&body); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode auth response")
	}
	if body.AccessToken == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "auth response carried no access token")
	}

	userID, err := id.ParseUserID(body.User.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "auth response carried malformed user id")
	}

	return &session.Credentials{
		UserID:       userID,
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		ExpiresAt:    a.expiresAt(body),
	}, nil
}

// expiresAt prefers the exp claim inside the access token, then the
// expires_in hint, then the configured session TTL. The token is issuer
// signed; parsing without verification is fine because the value only
// schedules local expiry, it grants nothing.
func (a *AuthClient) expiresAt(body authResponse) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(body.AccessToken, &claims); err == nil {
		if claims.ExpiresAt != nil && !claims.ExpiresAt.IsZero() {
			return claims.ExpiresAt.Time
		}
	}
	if body.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	}
	return time.Now().Add(a.sessionTTL)
}

func (a *AuthClient) post(ctx context.Context, path string, payload any, bearer string) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal auth payload: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.client.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", a.client.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+a.client.apiKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return a.client.do(req)
}

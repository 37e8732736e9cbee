package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bistroDesk/internal/shared/normalization"
)

// ErrAuthFailed covers every identity-backend failure; the message is
// surfaced inline on the login form.
var ErrAuthFailed = errors.New("auth failed")

// Account is the identity attached to an authenticated session.
type Account struct {
	ID       string
	Email    string
	FullName string
}

// AuthSession pairs an account with the access token the row API expects.
type AuthSession struct {
	AccessToken string
	Account     Account
}

// AuthClient speaks the backend's session API: sign-in, sign-up, sign-out
// and resolving the account behind an existing token.
type AuthClient struct {
	rest   *RESTClient
	apiKey string
}

func NewAuthClient(baseURL, apiKey string, timeout time.Duration, client *http.Client) *AuthClient {
	return &AuthClient{rest: NewRESTClient(baseURL, timeout, client), apiKey: apiKey}
}

// SignIn exchanges credentials for a session.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	payload := map[string]any{"email": email, "password": password}
	return c.sessionRequest(ctx, "/auth/v1/token?grant_type=password", payload)
}

// SignUp registers a new account, recording the full name as profile metadata.
func (c *AuthClient) SignUp(ctx context.Context, email, password, fullName string) (*AuthSession, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]any{"full_name": fullName},
	}
	return c.sessionRequest(ctx, "/auth/v1/signup", payload)
}

// SignOut revokes the session behind the token. Revocation failures are not
// fatal; the caller drops its local session either way.
func (c *AuthClient) SignOut(ctx context.Context, token string) error {
	req, err := c.newAuthRequest(ctx, http.MethodPost, "/auth/v1/logout", nil, token)
	if err != nil {
		return err
	}
	res, err := c.rest.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%w: sign-out status %d", ErrAuthFailed, res.StatusCode)
	}
	return nil
}

// CurrentSession resolves the account behind a previously issued token, used
// to restore a prior session at startup.
func (c *AuthClient) CurrentSession(ctx context.Context, token string) (*AuthSession, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: no prior session", ErrAuthFailed)
	}
	req, err := c.newAuthRequest(ctx, http.MethodGet, "/auth/v1/user", nil, token)
	if err != nil {
		return nil, err
	}
	res, err := c.rest.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, authStatusError(res)
	}
	var payload map[string]any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode user: %v", ErrAuthFailed, err)
	}
	account, ok := normalizeAccount(payload)
	if !ok {
		return nil, fmt.Errorf("%w: malformed user payload", ErrAuthFailed)
	}
	return &AuthSession{AccessToken: token, Account: account}, nil
}

func (c *AuthClient) sessionRequest(ctx context.Context, endpoint string, payload map[string]any) (*AuthSession, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrAuthFailed, err)
	}
	req, err := c.newAuthRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body), "")
	if err != nil {
		return nil, err
	}
	res, err := c.rest.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, authStatusError(res)
	}

	var decoded map[string]any
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode session: %v", ErrAuthFailed, err)
	}
	token := normalization.AsString(decoded["access_token"])
	user, _ := decoded["user"].(map[string]any)
	if user == nil {
		// Some deployments require email confirmation before a session exists.
		return nil, fmt.Errorf("%w: account created, confirmation pending", ErrAuthFailed)
	}
	account, ok := normalizeAccount(user)
	if !ok {
		return nil, fmt.Errorf("%w: malformed user payload", ErrAuthFailed)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: session missing access token", ErrAuthFailed)
	}
	return &AuthSession{AccessToken: token, Account: account}, nil
}

func (c *AuthClient) newAuthRequest(ctx context.Context, method, endpoint string, body io.Reader, token string) (*http.Request, error) {
	req, err := c.rest.NewRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("apikey", c.apiKey)
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}
	return req, nil
}

func normalizeAccount(user map[string]any) (Account, bool) {
	id := normalization.AsString(user["id"])
	if id == "" {
		return Account{}, false
	}
	account := Account{ID: id, Email: normalization.AsString(user["email"])}
	if meta, ok := user["user_metadata"].(map[string]any); ok {
		account.FullName = normalization.AsString(meta["full_name"])
	}
	return account, true
}

func authStatusError(res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
	message := normalizeAuthMessage(body)
	slog.Warn("auth request rejected", slog.Int("status", res.StatusCode), slog.String("message", message))
	if message != "" {
		return fmt.Errorf("%w: %s", ErrAuthFailed, message)
	}
	return fmt.Errorf("%w: status %d", ErrAuthFailed, res.StatusCode)
}

func normalizeAuthMessage(body []byte) string {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ""
	}
	return normalization.FirstNonEmpty(
		normalization.AsString(decoded["error_description"]),
		normalization.AsString(decoded["msg"]),
		normalization.AsString(decoded["message"]),
	)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pr-poehali-dev/onlimess/internal/client/models"
	"github.com/pr-poehali-dev/onlimess/internal/common"
)

// HTTPClient talks JSON over HTTP to the OnliMess store server.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "http://127.0.0.1:8080".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// do performs one request and decodes the response body into out (when out
// is non-nil). Non-2xx statuses are mapped onto the shared sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", common.ErrUnavailable, err)
		}
	}
	return nil
}

func (c *HTTPClient) mapError(resp *http.Response) error {
	var er errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)

	var base error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		base = common.ErrInvalidCredentials
	case http.StatusForbidden:
		base = common.ErrAccountFrozen
	case http.StatusBadRequest:
		base = common.ErrValidation
	case http.StatusConflict:
		base = common.ErrAlreadyExists
	case http.StatusNotFound:
		base = common.ErrNotFound
	default:
		base = common.ErrInternal
	}

	if er.Error != "" {
		return fmt.Errorf("%w: %s", base, er.Error)
	}
	return base
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	req := map[string]string{"username": username, "password": password}
	var session models.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &session); err != nil {
		return nil, err
	}
	c.token = session.AccessToken
	return &session, nil
}

func (c *HTTPClient) CompleteSetup(ctx context.Context, displayName, email string) (*models.Session, error) {
	req := map[string]string{"displayName": displayName, "email": email}
	var session models.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/setup", req, &session); err != nil {
		return nil, err
	}
	c.token = session.AccessToken
	return &session, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, username, password string) error {
	req := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/users", req, nil)
}

func (c *HTTPClient) ToggleFrozen(ctx context.Context, username string) error {
	path := "/api/auth/users/" + url.PathEscape(username) + "/toggle-frozen"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.RosterEntry, error) {
	var resp struct {
		Users []models.RosterEntry `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *HTTPClient) ListContacts(ctx context.Context) ([]models.Contact, error) {
	var resp struct {
		Contacts []models.Contact `json:"contacts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/contacts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Contacts, nil
}

func (c *HTTPClient) AddContact(ctx context.Context, email, displayName string) error {
	req := map[string]string{"email": email, "displayName": displayName}
	return c.do(ctx, http.MethodPost, "/api/contacts", req, nil)
}

func (c *HTTPClient) RenameContact(ctx context.Context, email, displayName string) error {
	req := map[string]string{"email": email, "displayName": displayName}
	return c.do(ctx, http.MethodPut, "/api/contacts", req, nil)
}

func (c *HTTPClient) RemoveContact(ctx context.Context, email string) error {
	req := map[string]string{"email": email}
	return c.do(ctx, http.MethodDelete, "/api/contacts", req, nil)
}

func (c *HTTPClient) ListMessages(ctx context.Context) ([]models.Message, error) {
	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/messages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, to, text string, timestamp int64) (*models.Message, error) {
	req := map[string]any{"to": to, "text": text, "timestamp": timestamp}
	var msg models.Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *HTTPClient) DeleteConversation(ctx context.Context, withIdentity string) error {
	req := map[string]string{"contact": withIdentity}
	return c.do(ctx, http.MethodDelete, "/api/messages", req, nil)
}

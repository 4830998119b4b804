// Package client is a typed Go client for the movies catalog API. It keeps
// the caller's token in an explicit Session rather than process globals.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "http://localhost:4000"

// ErrNotAuthenticated is returned by protected calls on an empty session.
var ErrNotAuthenticated = errors.New("not authenticated")

// Client provides typed access to the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client pointing at base. A nil session is replaced by an
// in-memory one.
func New(base string, session *Session, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if session == nil {
		session = NewSession("")
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		session:    session,
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// Session returns the session the client reads its token from.
func (c *Client) Session() *Session {
	return c.session
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

type request struct {
	method  string
	path    string
	body    any
	headers map[string]string
	auth    bool
}

func (c *Client) do(ctx context.Context, r request, v any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var token string
	if r.auth {
		token = c.session.Token()
		if token == "" {
			return ErrNotAuthenticated
		}
	}

	var reader io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, val := range r.headers {
		req.Header.Set(k, val)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		if r.auth && resp.StatusCode == http.StatusUnauthorized {
			// The server no longer accepts the stored token.
			_ = c.session.Clear()
		}
		return APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(payload.Error)
}

// --- Auth ---

type authPayload struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Signup registers an account. The server answers with an acknowledgement;
// the OTP arrives out of band.
func (c *Client) Signup(ctx context.Context, email, password, name string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	if name != "" {
		body["name"] = name
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/signup", body: body}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// VerifyOTP completes signup and stores the returned token in the session.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (User, error) {
	body := map[string]string{"email": email, "otp": otp}
	return c.authenticate(ctx, "/api/auth/verify-otp", body)
}

// Login authenticates and stores the returned token in the session.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/login", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (User, error) {
	var resp authPayload
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &resp); err != nil {
		return User{}, err
	}
	if err := c.session.Set(resp.Token, resp.User); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// Logout forgets the session locally. Tokens are stateless, so the server is
// not contacted.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Identity is the caller as resolved by the server.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func (c *Client) Me(ctx context.Context) (Identity, error) {
	var id Identity
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me", auth: true}, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// --- Entries ---

// Entry mirrors the API's entry payload. Optional fields are nil when absent.
type Entry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	Director   *string   `json:"director"`
	Budget     *float64  `json:"budget"`
	Location   *string   `json:"location"`
	Duration   *string   `json:"duration"`
	YearOrTime *string   `json:"yearOrTime"`
	PosterURL  *string   `json:"posterUrl"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EntryInput is the body of a create request.
type EntryInput struct {
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Director   *string  `json:"director,omitempty"`
	Budget     *float64 `json:"budget,omitempty"`
	Location   *string  `json:"location,omitempty"`
	Duration   *string  `json:"duration,omitempty"`
	YearOrTime *string  `json:"yearOrTime,omitempty"`
	PosterURL  *string  `json:"posterUrl,omitempty"`
}

// EntryPatch is a partial update. Nil fields are not sent; a pointer to ""
// clears an optional field.
type EntryPatch struct {
	Title      *string  `json:"title,omitempty"`
	Type       *string  `json:"type,omitempty"`
	Director   *string  `json:"director,omitempty"`
	Budget     *float64 `json:"budget,omitempty"`
	Location   *string  `json:"location,omitempty"`
	Duration   *string  `json:"duration,omitempty"`
	YearOrTime *string  `json:"yearOrTime,omitempty"`
	PosterURL  *string  `json:"posterUrl,omitempty"`
}

// ListOptions filters and pages ListEntries. Zero values use server defaults.
type ListOptions struct {
	Page   int
	Limit  int
	Search string
	Type   string
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Type != "" {
		q.Set("type", o.Type)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// EntryPage is one page of entries.
type EntryPage struct {
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int64   `json:"total"`
	TotalPages int     `json:"totalPages"`
	Data       []Entry `json:"data"`
}

// HasMore reports whether another page follows this one.
func (p EntryPage) HasMore() bool {
	return p.Page < p.TotalPages
}

func (c *Client) ListEntries(ctx context.Context, opts ListOptions) (EntryPage, error) {
	var page EntryPage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/entries" + opts.query(), auth: true}, &page); err != nil {
		return EntryPage{}, err
	}
	return page, nil
}

func (c *Client) GetEntry(ctx context.Context, id string) (Entry, error) {
	var e Entry
	if err := c.do(ctx, request{method: http.MethodGet, path: entryPath(id), auth: true}, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// NewIdempotencyKey returns a random key suitable for CreateEntry.
func NewIdempotencyKey() string {
	return uuid.NewString()
}

// CreateEntry stores a new entry. A non-empty idempotencyKey lets the call be
// retried without creating duplicates.
func (c *Client) CreateEntry(ctx context.Context, in EntryInput, idempotencyKey string) (Entry, error) {
	r := request{method: http.MethodPost, path: "/api/entries", body: in, auth: true}
	if idempotencyKey != "" {
		r.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	var e Entry
	if err := c.do(ctx, r, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (c *Client) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (Entry, error) {
	var e Entry
	if err := c.do(ctx, request{method: http.MethodPut, path: entryPath(id), body: patch, auth: true}, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: entryPath(id), auth: true}, nil)
}

func entryPath(id string) string {
	return "/api/entries/" + url.PathEscape(id)
}

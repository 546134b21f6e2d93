package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/memorymap/internal/client/models"
	"github.com/dmitrijs2005/memorymap/internal/common"
	"github.com/dmitrijs2005/memorymap/internal/logging"
	"github.com/dmitrijs2005/memorymap/internal/netx"
)

const (
	maxResponseBytes = 10 << 20
	avatarField      = "profile_picture"
)

type HTTPClient struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	log      logging.Logger
	timeout  time.Duration
	validate *validator.Validate
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

func WithTokenSource(ts TokenSource) Option {
	return func(h *HTTPClient) { h.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.log = l }
}

// WithTimeout bounds every request. Zero (the default) means no bound beyond
// the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.timeout = d }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		tokens:   StaticToken(""),
		log:      logging.Nop(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	var res models.AuthResult
	req := models.LoginRequest{Email: email, Password: password}
	status, err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &res)
	if err != nil {
		return models.AuthResult{}, err
	}
	if err := c.check(status, &res); err != nil {
		return models.AuthResult{}, err
	}
	return res, nil
}

type registerResponse struct {
	Token string `json:"token" validate:"required"`
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	var res registerResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &res)
	if err != nil {
		return "", err
	}
	if err := c.check(status, &res); err != nil {
		return "", err
	}
	return res.Token, nil
}

func (c *HTTPClient) GetMe(ctx context.Context) (models.UserProfile, error) {
	var u models.UserProfile
	status, err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &u)
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := c.check(status, &u); err != nil {
		return models.UserProfile{}, err
	}
	return u, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (models.UserProfile, error) {
	var u models.UserProfile
	status, err := c.doJSON(ctx, http.MethodPut, "/users/"+url.PathEscape(userID), upd, &u)
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := c.check(status, &u); err != nil {
		return models.UserProfile{}, err
	}
	return u, nil
}

type uploadResponse struct {
	AvatarURL string `json:"avatar_url"`
	URL       string `json:"url"`
}

func (c *HTTPClient) UploadProfilePicture(ctx context.Context, userID, filename string, data []byte) (string, error) {
	body, contentType, err := netx.MultipartFile(avatarField, filename, data)
	if err != nil {
		return "", fmt.Errorf("build upload body: %w", err)
	}

	var res uploadResponse
	path := "/users/" + url.PathEscape(userID) + "/profile-picture"
	status, err := c.do(ctx, http.MethodPost, path, body, contentType, &res)
	if err != nil {
		return "", err
	}

	if res.AvatarURL != "" {
		return res.AvatarURL, nil
	}
	if res.URL != "" {
		return res.URL, nil
	}
	return "", malformed(status, "upload response has no avatar_url or url")
}

func (c *HTTPClient) ListEntries(ctx context.Context, userID string) ([]models.Entry, error) {
	var entries []models.Entry
	status, err := c.doJSON(ctx, http.MethodGet, "/entries/user/"+url.PathEscape(userID), nil, &entries)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if err := c.check(status, &entries[i]); err != nil {
			return nil, err
		}
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

type createEntryResponse struct {
	EntryID string `json:"entryId" validate:"required"`
}

func (c *HTTPClient) CreateEntry(ctx context.Context, draft models.EntryDraft) (string, error) {
	var res createEntryResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/entries", draft, &res)
	if err != nil {
		return "", err
	}
	if err := c.check(status, &res); err != nil {
		return "", err
	}
	return res.EntryID, nil
}

func (c *HTTPClient) Verify(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/auth/verify", nil, "", nil)
	return err
}

// check runs the struct's `validate` tags against a decoded 2xx body.
func (c *HTTPClient) check(status int, v any) error {
	if err := c.validate.Struct(v); err != nil {
		return malformed(status, err.Error())
	}
	return nil
}

func malformed(status int, detail string) *APIError {
	return &APIError{Status: status, Message: "malformed response: " + detail, Malformed: true}
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends one request. A 2xx body is decoded into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	log := c.log.With("method", method, "path", path, "request_id", requestID)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return 0, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return resp.StatusCode, &TransportError{Method: method, Path: path, Err: err}
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: StatusMessage(resp.StatusCode), RequestID: requestID}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			switch {
			case eb.Error != "":
				apiErr.Message = eb.Error
			case eb.Message != "":
				apiErr.Message = eb.Message
			}
		}
		log.Warn(ctx, "request rejected", "status", resp.StatusCode, "message", apiErr.Message)
		return resp.StatusCode, apiErr
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		e := malformed(resp.StatusCode, err.Error())
		e.RequestID = requestID
		log.Warn(ctx, "undecodable response", "status", resp.StatusCode, "error", err)
		return resp.StatusCode, e
	}
	return resp.StatusCode, nil
}

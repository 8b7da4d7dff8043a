// Package api implements the authenticated HTTP client for the Amora
// backend: bearer-token injection on every call, and transparent recovery
// from expired access tokens via a single-flight refresh protocol.
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
	"sync"
	"time"

	"github.com/avetisovm/amora/internal/client/models"
	"github.com/avetisovm/amora/internal/client/session"
	"github.com/avetisovm/amora/internal/common"
	"github.com/avetisovm/amora/internal/logging"
)

// inactiveUserDetail is the backend's marker for a deactivated/banned
// account on a 400 response.
const inactiveUserDetail = "Inactive user"

const defaultTimeout = 15 * time.Second

// Client is the operation surface the rest of the client programs against.
// Feature code never deals with tokens, refresh or logout: those are handled
// here, centrally.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Register(ctx context.Context, email, password string) (*models.User, error)
	GoogleCallback(ctx context.Context, thirdPartyAccessToken string) (*models.TokenPair, error)

	Me(ctx context.Context) (*models.User, error)
	GetProfile(ctx context.Context) (*models.Profile, error)
	CreateProfile(ctx context.Context, params *models.ProfileParams) (*models.Profile, error)
	UpdateProfile(ctx context.Context, params *models.ProfileParams) (*models.Profile, error)
	UpdateAccount(ctx context.Context, email string) (*models.User, error)
	Deactivate(ctx context.Context) error
	Discover(ctx context.Context, filter DiscoverFilter) ([]models.Profile, error)

	UploadPhoto(ctx context.Context, path string, isPrimary bool) (*models.Photo, error)
	DeletePhoto(ctx context.Context, photoID string) error

	Like(ctx context.Context, toUserID string, superlike bool) (*models.LikeResult, error)
	Matches(ctx context.Context) ([]models.Match, error)
	Messages(ctx context.Context, matchID string, limit, offset int) ([]models.Message, error)

	Reports(ctx context.Context, page, size int) (*models.ReportsPage, error)
	TakeAction(ctx context.Context, targetUserID, actionType, reason string) error
	ReportUser(ctx context.Context, reportedID, reason, details string) (*models.Report, error)
	BlockUser(ctx context.Context, blockedID string) error
	Users(ctx context.Context, page, size int, search string) (*models.UsersPage, error)
	UserDetails(ctx context.Context, userID string) (*models.UserDetails, error)
	UserActivity(ctx context.Context, userID string, page, size int) (*models.ActivityPage, error)

	// ImageURL resolves a photo URL against the API host.
	ImageURL(raw string) string
}

// HTTPClient implements Client against the REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	session *session.Store
	log     logging.Logger

	// onSessionExpired fires after the store has been cleared by a terminal
	// auth failure (ban, deactivation, failed refresh). The CLI uses it to
	// drop back to the login prompt.
	onSessionExpired func()

	// single-flight refresh state. Calls that hit a 401 while a refresh is
	// already running park on a waiter channel and share its outcome.
	mu         sync.Mutex
	refreshing bool
	waiters    []chan error
}

type Option func(*HTTPClient)

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

func WithSessionExpiredHook(fn func()) Option {
	return func(c *HTTPClient) { c.onSessionExpired = fn }
}

func NewHTTPClient(baseURL string, store *session.Store, log logging.Logger, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: store,
		log:     log.With("component", "api"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// do performs one API call with bearer injection and the auth response state
// machine. body must be replayable, hence bytes not a reader.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, out any) error {
	retried := false

	for {
		req, err := c.newRequest(ctx, method, path, query, body, contentType)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("%w: read response: %v", common.ErrUnavailable, err)
		}

		switch {
		case resp.StatusCode < http.StatusMultipleChoices:
			return decodeInto(data, out)

		case isTerminalBan(resp.StatusCode, data):
			// Ban or deactivation: no retry, session is gone.
			c.expireSession(ctx)
			return fmt.Errorf("%w: %s", common.ErrAccountInactive, detailOf(data))

		case resp.StatusCode == http.StatusUnauthorized && !retried:
			if err := c.ensureFreshToken(ctx); err != nil {
				return err
			}
			// A second 401 after a successful refresh is surfaced, not
			// retried again.
			retried = true
			continue

		default:
			return apiError(resp.StatusCode, data)
		}
	}
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// ensureFreshToken serializes token refreshes: exactly one refresh call runs
// at a time, and every caller that arrives while it is in flight resolves
// with its outcome: all replay on success, all fail on failure.
func (c *HTTPClient) ensureFreshToken(ctx context.Context) error {
	c.mu.Lock()
	if c.refreshing {
		ch := make(chan error, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	err := c.refresh(ctx)

	c.mu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- err
	}
	return err
}

// refresh exchanges the stored refresh token for a new pair. It talks to the
// refresh endpoint directly, bypassing do, so a 401 there can never recurse
// into another refresh.
func (c *HTTPClient) refresh(ctx context.Context) error {
	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		c.expireSession(ctx)
		return fmt.Errorf("%w: no refresh token", common.ErrUnauthorized)
	}

	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.expireSession(ctx)
		return fmt.Errorf("%w: refresh: %v", common.ErrUnavailable, err)
	}
	data, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		c.expireSession(ctx)
		return fmt.Errorf("%w: refresh: %v", common.ErrUnavailable, readErr)
	}

	if resp.StatusCode != http.StatusOK {
		c.expireSession(ctx)
		return fmt.Errorf("%w: refresh rejected (%d)", common.ErrUnauthorized, resp.StatusCode)
	}

	var pair models.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil || pair.AccessToken == "" {
		c.expireSession(ctx)
		return fmt.Errorf("%w: malformed refresh response", common.ErrInvalidToken)
	}

	if err := c.session.SetTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("store refreshed tokens: %w", err)
	}
	c.log.Info(ctx, "access token refreshed")
	return nil
}

func (c *HTTPClient) expireSession(ctx context.Context) {
	if err := c.session.Logout(ctx); err != nil {
		c.log.Error(ctx, "failed to clear session", "error", err)
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

func isTerminalBan(status int, data []byte) bool {
	if status == http.StatusForbidden {
		return true
	}
	return status == http.StatusBadRequest && detailOf(data) == inactiveUserDetail
}

func decodeInto(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

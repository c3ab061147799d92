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
	"strings"
	"time"

	"github.com/dmitrijs2005/stocksentry/internal/client/models"
)

const defaultRequestTimeout = 12 * time.Second

// HTTPClient implements Client over the StockSentry REST API.
type HTTPClient struct {
	endpointURL string
	http        *http.Client
}

// NewStockSentryClient returns an HTTPClient for the given base URL,
// e.g. "http://127.0.0.1:8080".
func NewStockSentryClient(endpointURL string) *HTTPClient {
	return &HTTPClient{
		endpointURL: strings.TrimRight(endpointURL, "/"),
		http:        &http.Client{Timeout: defaultRequestTimeout},
	}
}

// watchlistPayload is the wire form of a watchlist. The sync state is a
// purely local concern and never crosses the wire.
type watchlistPayload struct {
	ID      string   `json:"id"`
	UserID  string   `json:"userId"`
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

type userPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type sharePayload struct {
	WatchlistID string `json:"watchlistId"`
	Email       string `json:"email"`
}

func toPayload(w *models.Watchlist) watchlistPayload {
	return watchlistPayload{ID: w.ID, UserID: w.UserID, Name: w.Name, Symbols: w.Symbols}
}

func fromPayload(p watchlistPayload) models.Watchlist {
	return models.Watchlist{
		ID:        p.ID,
		UserID:    p.UserID,
		Name:      p.Name,
		Symbols:   p.Symbols,
		SyncState: models.SyncStateSynced,
	}
}

// CreateUser registers the user remotely and returns the backend-issued
// user id (plain-text response body).
func (c *HTTPClient) CreateUser(ctx context.Context, u *models.User) (string, error) {
	payload := userPayload{Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber}

	body, err := c.do(ctx, http.MethodPost, "/user", payload)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// UpsertWatchlist creates or replaces a watchlist remotely.
func (c *HTTPClient) UpsertWatchlist(ctx context.Context, w *models.Watchlist) error {
	_, err := c.do(ctx, http.MethodPost, "/watchlist/upsert", toPayload(w))
	return err
}

// DeleteWatchlist removes a watchlist remotely. A 404 response is treated
// as success: the record is already gone.
func (c *HTTPClient) DeleteWatchlist(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/watchlist/"+url.PathEscape(id), nil)
	if err != nil && isNotFound(err) {
		return nil
	}
	return err
}

// ListWatchlists fetches all watchlists owned by userID.
func (c *HTTPClient) ListWatchlists(ctx context.Context, userID string) ([]models.Watchlist, error) {
	body, err := c.do(ctx, http.MethodGet, "/watchlist/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var payloads []watchlistPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		return nil, fmt.Errorf("failed to decode watchlists: %w", err)
	}

	result := make([]models.Watchlist, 0, len(payloads))
	for _, p := range payloads {
		result = append(result, fromPayload(p))
	}
	return result, nil
}

// ShareWatchlist requests a share link for the watchlist and returns the
// deep link (plain-text response body).
func (c *HTTPClient) ShareWatchlist(ctx context.Context, watchlistID, email string) (string, error) {
	payload := sharePayload{WatchlistID: watchlistID, Email: email}

	body, err := c.do(ctx, http.MethodPost, "/watchlist/share", payload)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// GetSharedWatchlist resolves a share token (OTP) to the watchlist it points at.
func (c *HTTPClient) GetSharedWatchlist(ctx context.Context, otp, userID string) (*models.Watchlist, error) {
	path := "/watchlist/share/" + url.PathEscape(otp) + "?userId=" + url.QueryEscape(userID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var p watchlistPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode watchlist: %w", err)
	}
	w := fromPayload(p)
	return &w, nil
}

// GetNews fetches news articles for one ticker symbol.
func (c *HTTPClient) GetNews(ctx context.Context, symbol string) (*models.NewsResponse, error) {
	body, err := c.do(ctx, http.MethodGet, "/news/"+url.PathEscape(symbol), nil)
	if err != nil {
		return nil, err
	}

	var news models.NewsResponse
	if err := json.Unmarshal(body, &news); err != nil {
		return nil, fmt.Errorf("failed to decode news: %w", err)
	}
	return &news, nil
}

// Health probes server liveness.
func (c *HTTPClient) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil)
	return err
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs one request and returns the response body on 2xx. Non-2xx
// statuses and transport errors are mapped to the typed errors in errors.go.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, c.mapStatus(resp.StatusCode, method, path)
}

type statusError struct {
	kind   error
	status int
	method string
	path   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %s %s: status %d", e.kind, e.method, e.path, e.status)
}

func (e *statusError) Unwrap() error { return e.kind }

func (c *HTTPClient) mapStatus(status int, method, path string) error {
	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrUnauthorized
	case status >= 500 || status == http.StatusRequestTimeout || status == http.StatusTooManyRequests:
		kind = ErrUnavailable
	default:
		kind = ErrRejected
	}
	return &statusError{kind: kind, status: status, method: method, path: path}
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.status == http.StatusNotFound
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatmap/pkg/cache"
	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/httputil"
	"github.com/matzehuels/seatmap/pkg/observability"
)

const (
	// DefaultBaseURL is the API root of a locally running backend.
	DefaultBaseURL = "http://localhost:8080/api"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	// DefaultTTL is how long diagrams and employee records stay cached.
	DefaultTTL = 24 * time.Hour
)

var (
	// ErrNotFound is returned when the backend has no such floor, room,
	// seat or employee.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")
)

// Client talks to the seating backend. It is safe for concurrent use.
type Client struct {
	base    string
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	headers map[string]string
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache enables caching of diagrams and employee records.
func WithCache(store cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		if keyer != nil {
			c.keyer = keyer
		}
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithHeaders sets headers sent with every request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) { c.headers = h }
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the API rooted at baseURL. An empty
// baseURL selects [DefaultBaseURL].
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := errs.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: DefaultTimeout},
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		ttl:    DefaultTTL,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.base }

// =============================================================================
// Reads
// =============================================================================

// FetchFloor loads a floor record, including its rooms when the backend
// nests them.
func (c *Client) FetchFloor(ctx context.Context, floor int) (*Floor, error) {
	if err := errs.ValidateFloorNumber(floor); err != nil {
		return nil, err
	}
	var f Floor
	err := httputil.RetryRead(ctx, func() error {
		return c.getJSON(ctx, fmt.Sprintf("/floors/%d", floor), &f)
	})
	if err != nil {
		return nil, wrapFetch(err, "floor %d", floor)
	}
	return &f, nil
}

// FetchFloorSVG loads the background diagram of a floor.
func (c *Client) FetchFloorSVG(ctx context.Context, floor int) ([]byte, error) {
	if err := errs.ValidateFloorNumber(floor); err != nil {
		return nil, err
	}
	key := c.keyer.DiagramKey(floor)
	if data, ok := c.cached(ctx, key, "diagram"); ok {
		return data, nil
	}

	var data []byte
	err := httputil.RetryRead(ctx, func() error {
		body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/floors/%d/svg", floor), nil)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err = io.ReadAll(body)
		return err
	})
	if err != nil {
		return nil, wrapFetch(err, "floor %d diagram", floor)
	}
	c.store(ctx, key, "diagram", data)
	return data, nil
}

// FetchRoom loads one room.
func (c *Client) FetchRoom(ctx context.Context, id int64) (*Room, error) {
	if err := errs.ValidateID("room", id); err != nil {
		return nil, err
	}
	var r Room
	err := httputil.RetryRead(ctx, func() error {
		return c.getJSON(ctx, fmt.Sprintf("/rooms/%d", id), &r)
	})
	if err != nil {
		return nil, wrapFetch(err, "room %d", id)
	}
	return &r, nil
}

// FetchRoomSeats loads the seats of a room.
func (c *Client) FetchRoomSeats(ctx context.Context, roomID int64) ([]Seat, error) {
	if err := errs.ValidateID("room", roomID); err != nil {
		return nil, err
	}
	var seats []Seat
	err := httputil.RetryRead(ctx, func() error {
		return c.getJSON(ctx, fmt.Sprintf("/rooms/%d/seats", roomID), &seats)
	})
	if err != nil {
		return nil, wrapFetch(err, "seats of room %d", roomID)
	}
	return seats, nil
}

// FetchSeat loads one seat.
func (c *Client) FetchSeat(ctx context.Context, id int64) (*Seat, error) {
	if err := errs.ValidateID("seat", id); err != nil {
		return nil, err
	}
	var s Seat
	err := httputil.RetryRead(ctx, func() error {
		return c.getJSON(ctx, fmt.Sprintf("/seats/%d", id), &s)
	})
	if err != nil {
		return nil, wrapFetch(err, "seat %d", id)
	}
	return &s, nil
}

// FetchEmployee loads one employee record.
func (c *Client) FetchEmployee(ctx context.Context, id int64) (*Employee, error) {
	if err := errs.ValidateID("employee", id); err != nil {
		return nil, err
	}
	key := c.keyer.EmployeeKey(id)
	var e Employee
	if data, ok := c.cached(ctx, key, "employee"); ok {
		if err := json.Unmarshal(data, &e); err == nil {
			return &e, nil
		}
	}

	err := httputil.RetryRead(ctx, func() error {
		return c.getJSON(ctx, fmt.Sprintf("/employees/%d", id), &e)
	})
	if err != nil {
		return nil, wrapFetch(err, "employee %d", id)
	}
	if data, err := json.Marshal(e); err == nil {
		c.store(ctx, key, "employee", data)
	}
	return &e, nil
}

// =============================================================================
// Writes
// =============================================================================

// UpdateRoomGeometry writes a room's position and size. It is attempted
// once.
func (c *Client) UpdateRoomGeometry(ctx context.Context, id int64, g RoomGeometry) error {
	if err := errs.ValidateID("room", id); err != nil {
		return err
	}
	if err := c.patch(ctx, fmt.Sprintf("/rooms/%d/geometry", id), g); err != nil {
		return errs.Wrap(errs.ErrCodeSaveFailed, err, "room %d", id)
	}
	return nil
}

// UpdateSeatGeometry writes a seat's position, size and rotation. It is
// attempted once.
func (c *Client) UpdateSeatGeometry(ctx context.Context, roomID, seatID int64, g SeatGeometry) error {
	if err := errs.ValidateID("room", roomID); err != nil {
		return err
	}
	if err := errs.ValidateID("seat", seatID); err != nil {
		return err
	}
	if err := c.patch(ctx, fmt.Sprintf("/rooms/%d/seats/%d/geometry", roomID, seatID), g); err != nil {
		return errs.Wrap(errs.ErrCodeSaveFailed, err, "seat %d in room %d", seatID, roomID)
	}
	return nil
}

// =============================================================================
// Transport
// =============================================================================

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrNetwork, path, err)
	}
	return nil
}

func (c *Client) patch(ctx context.Context, path string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (io.ReadCloser, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, reqPath := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, reqPath)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, reqPath, err)
		c.logger.Debug("request failed", "method", method, "path", reqPath, "err", err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	elapsed := time.Since(start)
	hooks.OnResponse(ctx, method, host, reqPath, resp.StatusCode, elapsed)
	c.logger.Debug("request", "method", method, "path", reqPath, "status", resp.StatusCode, "elapsed", elapsed)

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// wrapFetch tags a read failure with a code callers can branch on.
func wrapFetch(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return errs.Wrap(errs.ErrCodeNotFound, err, format, args...)
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(errs.ErrCodeTimeout, err, format, args...)
	default:
		return errs.Wrap(errs.ErrCodeNetwork, err, format, args...)
	}
}

// =============================================================================
// Cache
// =============================================================================

func (c *Client) cached(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (c *Client) store(ctx context.Context, key, keyType string, data []byte) {
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

package radarr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/five82/marquee/internal/server"
)

// ServerLookup resolves a registered server by id.
type ServerLookup interface {
	Get(id int) (server.Server, error)
}

// Fetcher defines the remote calls the library needs from a server.
// It is implemented by *Client and can be faked in tests.
type Fetcher interface {
	FetchMovies(ctx context.Context, serverID int) ([]Movie, error)
	FetchQueue(ctx context.Context, serverID int) ([]QueueItem, error)
	FetchWanted(ctx context.Context, serverID int) (WantedPage, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client issues authenticated requests against registered servers.
type Client struct {
	servers   ServerLookup
	http      *http.Client
	timeout   time.Duration
	userAgent string
	log       zerolog.Logger

	mu       sync.Mutex
	breakers map[int]*gobreaker.CircuitBreaker[[]byte]
}

const (
	defaultUserAgent = "marquee/0.1"
	// DefaultTimeout is how long a caller waits for a response.
	DefaultTimeout = 2 * time.Second
	// transportTimeout bounds requests nobody is waiting on anymore.
	transportTimeout = 30 * time.Second
	maxBodyBytes     = 64 << 20

	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the caller-visible fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for breaker state changes and late responses.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient builds a Client resolving servers through lookup.
func NewClient(lookup ServerLookup, opts ...Option) *Client {
	c := &Client{
		servers: lookup,
		http: &http.Client{
			Timeout: transportTimeout,
		},
		timeout:   DefaultTimeout,
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
		breakers:  make(map[int]*gobreaker.CircuitBreaker[[]byte]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchMovies retrieves every movie of a server.
func (c *Client) FetchMovies(ctx context.Context, serverID int) ([]Movie, error) {
	var payload []Movie
	if err := c.Fetch(ctx, serverID, "movie", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchQueue retrieves the download queue of a server. Both the bare array
// and the paged {"records": [...]} shapes are accepted.
func (c *Client) FetchQueue(ctx context.Context, serverID int) ([]QueueItem, error) {
	var raw json.RawMessage
	if err := c.Fetch(ctx, serverID, "queue", nil, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page queuePage
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, &NetworkError{ServerID: serverID, Endpoint: "queue", Err: fmt.Errorf("decode response: %w", err)}
		}
		return page.Records, nil
	}
	var items []QueueItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &NetworkError{ServerID: serverID, Endpoint: "queue", Err: fmt.Errorf("decode response: %w", err)}
	}
	return items, nil
}

// WantedQuery configures /wanted/missing requests.
type WantedQuery struct {
	SortKey  string
	Page     int
	PageSize int
	SortDir  string
}

func (q WantedQuery) values() url.Values {
	values := url.Values{}
	values.Set("sortKey", q.SortKey)
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("pageSize", strconv.Itoa(q.PageSize))
	values.Set("sortDir", q.SortDir)
	return values
}

// FetchWanted retrieves the complete wanted list in two sequential requests:
// the first with pageSize=0 learns totalRecords, the second repeats the query
// with pageSize=totalRecords.
func (c *Client) FetchWanted(ctx context.Context, serverID int) (WantedPage, error) {
	query := WantedQuery{SortKey: "date", Page: 1, PageSize: 0, SortDir: "desc"}

	var pre WantedPage
	if err := c.Fetch(ctx, serverID, "wanted/missing", query.values(), &pre); err != nil {
		return WantedPage{}, err
	}

	query.PageSize = pre.TotalRecords
	var page WantedPage
	if err := c.Fetch(ctx, serverID, "wanted/missing", query.values(), &page); err != nil {
		return WantedPage{}, err
	}
	return page, nil
}

type fetchResult struct {
	body []byte
	err  error
}

// Fetch performs GET {uri}/{endpoint}?{query} for the given server and decodes
// the JSON response into dest.
//
// The caller waits at most the client timeout. A request still in flight
// when the timeout fires keeps running in the background and its response is
// discarded.
func (c *Client) Fetch(ctx context.Context, serverID int, endpoint string, query url.Values, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	srv, err := c.servers.Get(serverID)
	if err != nil {
		return err
	}

	reqURL, err := buildURL(srv.URI, endpoint, query)
	if err != nil {
		return &NetworkError{ServerID: serverID, Endpoint: endpoint, Err: err}
	}

	breaker := c.breaker(serverID)
	results := make(chan fetchResult, 1)
	go func() {
		body, err := breaker.Execute(func() ([]byte, error) {
			return c.get(ctx, reqURL, srv.APIKey)
		})
		results <- fetchResult{body: body, err: err}
	}()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		if res.err != nil {
			return &NetworkError{ServerID: serverID, Endpoint: endpoint, Err: res.err}
		}
		if dest == nil {
			return nil
		}
		if err := json.Unmarshal(res.body, dest); err != nil {
			return &NetworkError{ServerID: serverID, Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	case <-timer.C:
		go c.drain(serverID, endpoint, results)
		return &TimeoutError{ServerID: serverID, Endpoint: endpoint, After: c.timeout}
	case <-ctx.Done():
		go c.drain(serverID, endpoint, results)
		return &NetworkError{ServerID: serverID, Endpoint: endpoint, Err: ctx.Err()}
	}
}

// ResetServer drops the circuit breaker of a server, e.g. after it was
// edited or removed.
func (c *Client) ResetServer(serverID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.breakers, serverID)
}

// BreakerState reports the circuit breaker state of a server.
func (c *Client) BreakerState(serverID int) string {
	return c.breaker(serverID).State().String()
}

func (c *Client) get(ctx context.Context, reqURL, apiKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func (c *Client) drain(serverID int, endpoint string, results <-chan fetchResult) {
	res := <-results
	c.log.Debug().
		Int("server", serverID).
		Str("endpoint", endpoint).
		AnErr("late_error", res.err).
		Msg("discarded late response")
}

func (c *Client) breaker(serverID int) *gobreaker.CircuitBreaker[[]byte] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cb, ok := c.breakers[serverID]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "server-" + strconv.Itoa(serverID),
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("breaker", name).Stringer("from", from).Stringer("to", to).Msg("circuit breaker state changed")
		},
	})
	c.breakers[serverID] = cb
	return cb
}

func buildURL(uri, endpoint string, query url.Values) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(uri), "/")
	if base == "" {
		return "", fmt.Errorf("server uri is empty")
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	full := base + "/" + strings.TrimLeft(endpoint, "/")
	if encoded := query.Encode(); encoded != "" {
		full += "?" + encoded
	}
	if _, err := url.Parse(full); err != nil {
		return "", fmt.Errorf("parse url %q: %w", full, err)
	}
	return full, nil
}

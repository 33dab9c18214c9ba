// Package api provides a client for the claims REST API.
package api

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
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/theirongolddev/claimsdash/internal/claim"
)

const (
	// DefaultTimeout bounds each request.
	DefaultTimeout = 10 * time.Second
	maxBodySize    = 64 << 20 // 64 MB, a full page of claims fits comfortably

	claimsPath   = "/claims"
	policiesPath = "/policies"

	// PlaceholderStatus is the status of a claim synthesized after an
	// empty create response.
	PlaceholderStatus = "pending"
)

// Client talks to the claims API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithClock sets the time source used for placeholder claims.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api: base URL is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListClaims fetches limit claims starting at offset start.
func (c *Client) ListClaims(ctx context.Context, start, limit int) ([]claim.Claim, error) {
	q := url.Values{}
	q.Set("_start", strconv.Itoa(start))
	q.Set("_limit", strconv.Itoa(limit))

	body, err := c.do(ctx, "list claims", http.MethodGet, claimsPath+"?"+q.Encode(), nil, true)
	if err != nil {
		return nil, err
	}

	var claims []claim.Claim
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, fmt.Errorf("api: parsing claims: %w", err)
	}
	return claims, nil
}

// CreateClaim submits a new claim. When the server answers with an empty
// or unparseable body, a pending placeholder built from req is returned.
func (c *Client) CreateClaim(ctx context.Context, req CreateClaimRequest) (claim.Claim, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return claim.Claim{}, fmt.Errorf("api: encoding claim: %w", err)
	}

	body, err := c.do(ctx, "create claim", http.MethodPost, claimsPath, payload, false)
	if err != nil {
		return claim.Claim{}, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return c.placeholder(req), nil
	}

	var created claim.Claim
	if err := json.Unmarshal(body, &created); err != nil {
		c.log.Warn("create claim returned unparseable body, using placeholder", zap.Error(err))
		return c.placeholder(req), nil
	}
	return created, nil
}

func (c *Client) placeholder(req CreateClaimRequest) claim.Claim {
	now := c.now()
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy())
	return claim.Claim{
		ID:            now.UnixMilli(),
		Number:        "CL-" + id.String(),
		IncidentDate:  req.IncidentDate,
		CreatedAt:     now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Amount:        claim.Decimal(strconv.FormatFloat(req.Amount, 'f', -1, 64)),
		ProcessingFee: claim.Decimal(strconv.FormatFloat(req.ProcessingFee, 'f', -1, 64)),
		Holder:        req.Holder,
		PolicyNumber:  req.PolicyNumber,
		InsuredName:   req.InsuredName,
		Description:   req.Description,
		Status:        PlaceholderStatus,
	}
}

// LookupPolicy finds the policy whose number equals number exactly. It
// returns nil, nil when there is no such policy.
func (c *Client) LookupPolicy(ctx context.Context, number string) (*Policy, error) {
	q := url.Values{}
	q.Set("number", number)

	body, err := c.do(ctx, "lookup policy", http.MethodGet, policiesPath+"?"+q.Encode(), nil, false)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var policies []Policy
	if err := json.Unmarshal(body, &policies); err != nil {
		// Some servers answer a filtered query with a single object.
		var single Policy
		if err2 := json.Unmarshal(body, &single); err2 != nil {
			return nil, fmt.Errorf("api: parsing policies: %w", err)
		}
		policies = []Policy{single}
	}
	for i := range policies {
		if policies[i].Number == number {
			return &policies[i], nil
		}
	}
	return nil, nil
}

// do performs a request against the API and returns the response body.
func (c *Client) do(ctx context.Context, op, method, path string, payload []byte, noCache bool) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("api: %s: creating request: %w", op, err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "claimsdash/1.0")
	req.Header.Set("X-Request-ID", reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if noCache {
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}

	log := c.log.With(
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
	)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("api: %s: %w", op, err)
		}
		return nil, fmt.Errorf("api: %s: %w: %w", op, ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("unexpected status")
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Warn("reading response failed", zap.Error(err))
		return nil, fmt.Errorf("api: %s: reading response: %w: %w", op, ErrNetwork, err)
	}
	log.Debug("request complete", zap.Int("bytes", len(body)))
	return body, nil
}

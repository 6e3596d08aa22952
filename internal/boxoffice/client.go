package boxoffice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when upstream cannot find the requested movie.
var ErrNotFound = errors.New("boxoffice: not found")

// Result carries the gross figures upstream knows for one title. Either
// figure may be absent.
type Result struct {
	Title          string
	USGross        *int64
	WorldwideGross *int64
}

// Fields returns the figures that are present, keyed by movie field name, in
// the shape accepted by a partial movie update.
func (r *Result) Fields() map[string]any {
	out := make(map[string]any, 2)
	if r == nil {
		return out
	}
	if r.USGross != nil {
		out["us_gross"] = *r.USGross
	}
	if r.WorldwideGross != nil {
		out["worldwide_gross"] = *r.WorldwideGross
	}
	return out
}

// Client defines the contract for querying the upstream box office API.
type Client interface {
	Fetch(ctx context.Context, title string) (*Result, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed box office client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse box office url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse box office url: %q is not absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger.With().Str("component", "boxoffice").Logger(),
	}, nil
}

// Fetch retrieves gross figures by title.
func (c *HTTPClient) Fetch(ctx context.Context, title string) (*Result, error) {
	endpoint := c.baseURL.JoinPath("boxoffice")
	q := endpoint.Query()
	q.Set("title", title)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload apiResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode box office response: %w", err)
		}
		return convertToResult(title, payload), nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		c.logger.Warn().Int("status", resp.StatusCode).Str("title", title).Msg("unexpected upstream status")
		return nil, fmt.Errorf("boxoffice: upstream returned %d", resp.StatusCode)
	}
}

type apiResponse struct {
	Title          string `json:"title"`
	USGross        *int64 `json:"usGross"`
	WorldwideGross *int64 `json:"worldwideGross"`
}

func convertToResult(requested string, payload apiResponse) *Result {
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		title = requested
	}
	return &Result{
		Title:          title,
		USGross:        nonNegative(payload.USGross),
		WorldwideGross: nonNegative(payload.WorldwideGross),
	}
}

// Upstream reports unknown figures as negative sentinels on occasion.
func nonNegative(v *int64) *int64 {
	if v == nil || *v < 0 {
		return nil
	}
	out := *v
	return &out
}

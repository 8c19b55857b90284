package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cyberlegal/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 500 * time.Millisecond
	maxErrorBodyBytes = 4096
)

// Client handles communication with the Google Maps Places and Geocoding web services
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	maxRetries  uint
	retryDelay  time.Duration
	debug       bool
}

// NewClient creates a new places API client
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(10), 10),
		maxRetries:  defaultMaxRetries,
		retryDelay:  defaultRetryDelay,
	}
}

// SetDebug enables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetRateLimit caps outbound requests per second; burst matches the rate
func (c *Client) SetRateLimit(perSecond float64) {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SetTimeout sets the per-request HTTP timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
}

// SetMaxRetries sets how many attempts are made for transient failures
func (c *Client) SetMaxRetries(attempts uint) {
	if attempts > 0 {
		c.maxRetries = attempts
	}
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[Places] "+format, args...)
	}
}

// NearbySearch runs one keyworded proximity search.
// ZERO_RESULTS is an empty success; any other non-OK status is an error.
func (c *Client) NearbySearch(ctx context.Context, query domain.NearbyQuery) ([]domain.Candidate, error) {
	params := url.Values{}
	params.Add("location", query.Location.String())
	params.Add("radius", fmt.Sprintf("%d", query.RadiusMeters))
	if query.Keyword != "" {
		params.Add("keyword", query.Keyword)
	}
	if query.PlaceType != "" {
		params.Add("type", query.PlaceType)
	}

	var resp nearbySearchResponse
	if err := c.getJSON(ctx, "/place/nearbysearch/json", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case StatusOK:
		candidates := MapToCandidates(resp.Results)
		c.debugLog("Found %d places for keyword %q within %dm", len(candidates), query.Keyword, query.RadiusMeters)
		return candidates, nil
	case StatusZeroResults:
		c.debugLog("No places for keyword %q within %dm", query.Keyword, query.RadiusMeters)
		return []domain.Candidate{}, nil
	default:
		return nil, statusError(resp.Status, resp.ErrorMessage)
	}
}

// PlaceDetails fetches the requested contact fields for a single place
func (c *Client) PlaceDetails(ctx context.Context, placeID string, fields []string) (*domain.PlaceDetails, error) {
	if placeID == "" {
		return nil, fmt.Errorf("%w: empty place ID", domain.ErrInvalidRequest)
	}

	params := url.Values{}
	params.Add("place_id", placeID)
	if len(fields) > 0 {
		params.Add("fields", strings.Join(fields, ","))
	}

	var resp placeDetailsResponse
	if err := c.getJSON(ctx, "/place/details/json", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != StatusOK {
		return nil, statusError(resp.Status, resp.ErrorMessage)
	}

	return MapToDetails(&resp.Result), nil
}

// Geocode resolves a free-text address to a coordinate
func (c *Client) Geocode(ctx context.Context, address string) (*domain.Coordinate, error) {
	params := url.Values{}
	params.Add("address", address)

	var resp geocodeResponse
	if err := c.getJSON(ctx, "/geocode/json", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case StatusOK:
		if len(resp.Results) == 0 {
			return nil, domain.ErrLocationNotFound
		}
		loc := resp.Results[0].Geometry.Location
		c.debugLog("Geocoded %q to %.6f,%.6f", address, loc.Lat, loc.Lng)
		return &domain.Coordinate{Lat: loc.Lat, Lng: loc.Lng}, nil
	case StatusZeroResults:
		return nil, domain.ErrLocationNotFound
	default:
		return nil, statusError(resp.Status, resp.ErrorMessage)
	}
}

// getJSON performs a rate-limited GET with retries for transient failures
// and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, retry.Unrecoverable(fmt.Errorf("rate limiter error: %w", err))
			}
			return c.fetch(ctx, reqURL)
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetries),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[Places] Request to %s failed (attempt %d): %v", path, n+1, err)
		}),
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// fetch executes a single request. 5xx and 429 responses are retryable,
// every other non-200 status is not.
func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", "CyberLegal/1.0")

	c.debugLog("GET %s", redactKey(reqURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.Unrecoverable(fmt.Errorf("%w: %v", domain.ErrPlacesAPIFailure, err))
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPlacesAPIFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := readLimitedBody(resp.Body, maxErrorBodyBytes)
		statusErr := fmt.Errorf("%w: status %d, body: %s", domain.ErrPlacesAPIFailure, resp.StatusCode, string(body))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %w", domain.ErrRateLimited, statusErr)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, statusErr
		}
		return nil, retry.Unrecoverable(statusErr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrPlacesAPIFailure, err)
	}
	return body, nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// statusError maps a non-OK provider status to a domain error
func statusError(status, message string) error {
	var base error
	switch status {
	case StatusNotFound:
		base = domain.ErrPlaceNotFound
	case StatusOverQueryLimit:
		base = fmt.Errorf("%w: %w", domain.ErrRateLimited, domain.ErrPlacesAPIFailure)
	default:
		base = domain.ErrPlacesAPIFailure
	}
	if message != "" {
		return fmt.Errorf("%w: %s (%s)", base, status, message)
	}
	return fmt.Errorf("%w: %s", base, status)
}

// redactKey hides the API key in logged URLs
func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}


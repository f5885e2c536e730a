package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Place is a reverse-geocoded location.
type Place struct {
	DisplayName string
	Raw         json.RawMessage
}

// ReverseGeocoder resolves coordinates to a human-readable place name.
// Failures are errors, never (nil, nil); callers treat a failed lookup as
// best-effort and continue without a place name.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*Place, error)
}

// NominatimClient calls the OSM Nominatim reverse endpoint. The usage policy
// allows at most one request per second process-wide, so the limiter is
// shared across all tenants and must be passed in explicitly; tests inject a
// limiter with no wait.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	group      singleflight.Group
}

// DefaultLimiter spaces outbound calls at least 1.1s apart.
func DefaultLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(1100*time.Millisecond), 1)
}

func NewNominatimClient(baseURL, userAgent string, limiter *rate.Limiter) *NominatimClient {
	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: limiter,
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Reverse implements ReverseGeocoder. Concurrent calls for the same
// coordinates are collapsed into a single upstream request.
func (c *NominatimClient) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	key := fmt.Sprintf("%.6f,%.6f", lat, lon)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.reverse(ctx, lat, lon)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Place), nil
}

func (c *NominatimClient) reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocode rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var body nominatimResponse
	raw := json.RawMessage{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("geocode response: %s", body.Error)
	}

	return &Place{DisplayName: body.DisplayName, Raw: raw}, nil
}

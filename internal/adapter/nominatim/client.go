package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/place-resolver/internal/domain"
	"github.com/couchcryptid/place-resolver/internal/observability"
)

const (
	// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	defaultUserAgent   = "place-resolver/1.0"
	defaultSearchLimit = 5
	maxSearchLimit     = 50
	minQueryLength     = 3
	maxErrorBody       = 512
)

// ClientConfig configures a Nominatim client.
type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Language  string
	Zoom      int
	Timeout   time.Duration
}

// Client implements domain.Geocoder against the Nominatim API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	language   string
	zoom       int
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client.
func NewClient(cfg ClientConfig, logger *slog.Logger, metrics *observability.Metrics) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
		language:   cfg.Language,
		zoom:       cfg.Zoom,
		metrics:    metrics,
		logger:     logger,
	}
}

// ReverseGeocode returns the address breakdown for a coordinate.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.Address, error) {
	params := url.Values{
		"format":         {"json"},
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"zoom":           {strconv.Itoa(c.zoom)},
		"addressdetails": {"1"},
	}

	body, err := c.get(ctx, "/reverse", params, "reverse")
	if err != nil {
		return domain.Address{}, err
	}

	var resp reverseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("reverse", "error").Inc()
		return domain.Address{}, fmt.Errorf("decode reverse response: %w: %w", domain.ErrPayload, err)
	}
	if resp.Error != "" {
		c.metrics.GeocodeRequests.WithLabelValues("reverse", "empty").Inc()
		return domain.Address{}, fmt.Errorf("nominatim: %s: %w", resp.Error, domain.ErrNoAddress)
	}
	if resp.Address == nil {
		c.metrics.GeocodeRequests.WithLabelValues("reverse", "empty").Inc()
		return domain.Address{}, fmt.Errorf("nominatim: response has no address: %w", domain.ErrNoAddress)
	}

	c.metrics.GeocodeRequests.WithLabelValues("reverse", "success").Inc()
	return *resp.Address, nil
}

// Search returns up to limit places matching a free-text query. Queries
// shorter than three characters return no results without calling the API.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return []domain.Place{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	params := url.Values{
		"q":              {query},
		"format":         {"json"},
		"limit":          {strconv.Itoa(limit)},
		"addressdetails": {"1"},
	}

	body, err := c.get(ctx, "/search", params, "search")
	if err != nil {
		return nil, err
	}

	var hits []searchHit
	if err := json.Unmarshal(body, &hits); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("search", "error").Inc()
		return nil, fmt.Errorf("decode search response: %w: %w", domain.ErrPayload, err)
	}

	places := make([]domain.Place, 0, len(hits))
	for _, h := range hits {
		p, err := h.toPlace()
		if err != nil {
			c.logger.Warn("skipping malformed search hit", "place_id", h.PlaceID, "error", err)
			continue
		}
		places = append(places, p)
	}

	outcome := "success"
	if len(places) == 0 {
		outcome = "empty"
	}
	c.metrics.GeocodeRequests.WithLabelValues("search", outcome).Inc()
	return places, nil
}

// get performs a GET request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, params url.Values, method string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("%s geocode request: %w: %w", method, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("nominatim API error: status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(snippet)), domain.ErrUpstreamStatus)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("read %s response: %w: %w", method, domain.ErrTransport, err)
	}
	return body, nil
}

// Nominatim API response types.

type reverseResponse struct {
	Error   string          `json:"error"`
	Address *domain.Address `json:"address"`
}

type searchHit struct {
	PlaceID     json.Number `json:"place_id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"` // Nominatim encodes coordinates as strings
	Lon         string      `json:"lon"`
}

func (h searchHit) toPlace() (domain.Place, error) {
	lat, err := strconv.ParseFloat(h.Lat, 64)
	if err != nil {
		return domain.Place{}, fmt.Errorf("parse lat %q: %w", h.Lat, err)
	}
	lon, err := strconv.ParseFloat(h.Lon, 64)
	if err != nil {
		return domain.Place{}, fmt.Errorf("parse lon %q: %w", h.Lon, err)
	}

	name := strings.TrimSpace(h.Name)
	if name == "" {
		name, _, _ = strings.Cut(h.DisplayName, ",")
		name = strings.TrimSpace(name)
	}

	return domain.Place{
		ID:          h.PlaceID.String(),
		Name:        name,
		DisplayName: h.DisplayName,
		Lat:         lat,
		Lon:         lon,
	}, nil
}

package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/couchcryptid/place-resolver/internal/domain"
)

const defaultSearchLimit = 5

type locationHandler struct {
	resolver LocationResolver
	searcher PlaceSearcher
	logger   *slog.Logger
}

type reverseResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Resolved  bool    `json:"resolved"`
}

type searchResponse struct {
	Results []domain.Place `json:"results"`
}

type geocodeResponse struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// reverse handles GET /api/v1/locations/reverse?lat=&lon=.
func (h *locationHandler) reverse(c *gin.Context) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	coord := domain.Coordinate{Lat: lat, Lon: lon}
	if !coord.InRange() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude must be within [-90, 90] and longitude within [-180, 180]"})
		return
	}

	res := h.resolver.Lookup(c.Request.Context(), coord)
	c.JSON(http.StatusOK, reverseResponse{
		Latitude:  lat,
		Longitude: lon,
		Name:      res.Label,
		Resolved:  res.Resolved(),
	})
}

// search handles GET /api/v1/locations/search?q=&limit=.
func (h *locationHandler) search(c *gin.Context) {
	limit := defaultSearchLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	places, err := h.searcher.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.logger.Warn("place search failed", "query", c.Query("q"), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "place search is temporarily unavailable"})
		return
	}
	if places == nil {
		places = []domain.Place{}
	}
	c.JSON(http.StatusOK, searchResponse{Results: places})
}

// geocode handles GET /api/v1/locations/geocode?address=.
func (h *locationHandler) geocode(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'address'"})
		return
	}

	places, err := h.searcher.Search(c.Request.Context(), address, 1)
	if err != nil {
		h.logger.Warn("address geocode failed", "address", address, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "geocoding is temporarily unavailable"})
		return
	}
	if len(places) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no location found for address"})
		return
	}

	best := places[0]
	c.JSON(http.StatusOK, geocodeResponse{
		Latitude:    best.Lat,
		Longitude:   best.Lon,
		DisplayName: best.DisplayName,
	})
}

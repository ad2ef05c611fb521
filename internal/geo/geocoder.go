package geo

import (
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

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// ErrNotFound is returned when the geocoding service has no match for a
// location string.
var ErrNotFound = errors.New("location not found")

// Geocoder resolves free-text locations to coordinates via Nominatim,
// backed by a shared Redis cache so each distinct location is looked up
// only once across all users.
type Geocoder struct {
	client    *http.Client
	redis     *redis.Client
	baseURL   string
	userAgent string
	cacheKey  string
	delay     time.Duration
	logger    zerolog.Logger
}

// NewGeocoder creates a Geocoder
func NewGeocoder(rdb *redis.Client, baseURL, userAgent, cacheKey string, delay time.Duration, logger zerolog.Logger) *Geocoder {
	return &Geocoder{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		redis:     rdb,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		cacheKey:  cacheKey,
		delay:     delay,
		logger:    logger.With().Str("component", "geocoder").Logger(),
	}
}

// Resolve returns the coordinate for a location, consulting the cache first.
// Live lookups are rate-limited; Nominatim's usage policy asks for at most
// one request per second.
func (g *Geocoder) Resolve(ctx context.Context, location string) (domain.Coordinate, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.Coordinate{}, ErrNotFound
	}

	if coord, ok := g.cached(ctx, location); ok {
		return coord, nil
	}

	g.logger.Debug().Str("location", location).Msg("geocoding API call")
	select {
	case <-ctx.Done():
		return domain.Coordinate{}, ctx.Err()
	case <-time.After(g.delay):
	}

	coord, err := g.lookup(ctx, location)
	if err != nil {
		return domain.Coordinate{}, err
	}

	g.store(ctx, location, coord)
	return coord, nil
}

func (g *Geocoder) cached(ctx context.Context, location string) (domain.Coordinate, bool) {
	raw, err := g.redis.HGet(ctx, g.cacheKey, location).Result()
	if err != nil {
		if err != redis.Nil {
			g.logger.Error().Err(err).Msg("cache read failed")
		}
		return domain.Coordinate{}, false
	}

	var coord domain.Coordinate
	if err := json.Unmarshal([]byte(raw), &coord); err != nil {
		return domain.Coordinate{}, false
	}
	return coord, true
}

func (g *Geocoder) store(ctx context.Context, location string, coord domain.Coordinate) {
	data, err := json.Marshal(coord)
	if err != nil {
		return
	}
	if err := g.redis.HSet(ctx, g.cacheKey, location, data).Err(); err != nil {
		g.logger.Error().Err(err).Msg("cache write failed")
	}
}

// nominatimResult is one entry of a /search response. Coordinates come back
// as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *Geocoder) lookup(ctx context.Context, location string) (domain.Coordinate, error) {
	reqURL := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", g.baseURL, url.QueryEscape(location))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinate{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("read body: %w", err)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse json: %w", err)
	}
	if len(results) == 0 {
		return domain.Coordinate{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse lon: %w", err)
	}

	return domain.Coordinate{Lat: lat, Lng: lon, Name: results[0].DisplayName}, nil
}

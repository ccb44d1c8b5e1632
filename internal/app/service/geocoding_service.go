package service

import (
	"context"
	"strings"
	"time"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/internal/app/repository"
	"github.com/baliyoga/baliyoga-backend/pkg/geo"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
)

// GeocodingSource identifies which resolution tier produced a result.
type GeocodingSource string

const (
	SourceDatabase GeocodingSource = "database"
	SourceGoogle   GeocodingSource = "google_geocoding"
	SourceStatic   GeocodingSource = "static_coordinates"
	SourceFallback GeocodingSource = "fallback"
)

// Cached records below this confidence, or older than this age, are served
// stale and refreshed in the background.
const (
	minCacheConfidence = 0.78
	maxCacheAge        = 180 * 24 * time.Hour
)

// geocodeRateDelay spaces batch calls to the external provider.
const geocodeRateDelay = 100 * time.Millisecond

// LocationQuery identifies one listing to resolve.
type LocationQuery struct {
	ID           string
	BusinessName string
	Address      string
	City         string
}

// GeocodingResult is a resolved coordinate with its provenance.
type GeocodingResult struct {
	Coordinates     geo.Coordinates `json:"coordinates"`
	GeocodedAddress string          `json:"geocoded_address,omitempty"`
	Confidence      float64         `json:"confidence"`
	Source          GeocodingSource `json:"source"`
	FromCache       bool            `json:"from_cache"`
	UpdatedAt       time.Time       `json:"updated_at,omitempty"`
}

// BatchGeocodingItem pairs a listing id with its resolution outcome.
type BatchGeocodingItem struct {
	ID     string           `json:"id"`
	Result *GeocodingResult `json:"result"`
}

// ExternalGeocoder is the third-party provider behind the resolver.
type ExternalGeocoder interface {
	Geocode(ctx context.Context, query, countryCode string) (*geo.GeocodeResult, error)
	HasAPIKey() bool
}

// coordinateStore is the slice of the listing repository the resolver needs:
// reading and writing the persisted coordinate cache.
type coordinateStore interface {
	FindByID(id string) (*model.Listing, error)
	UpdateCoordinates(id string, record model.CoordinateRecord) error
	CoordinateStats() (*repository.CoordinateStats, error)
}

type GeocodingService interface {
	// Resolve returns coordinates for a listing through the tiered strategy:
	// persisted cache, external geocoder, static table, fixed fallback. It
	// never fails; the worst case is the Bali-center fallback coordinate.
	Resolve(ctx context.Context, query LocationQuery) *GeocodingResult
	// ResolveBatch processes queries sequentially, pausing briefly after each
	// externally geocoded result to respect provider rate limits. One item's
	// failure never aborts the batch.
	ResolveBatch(ctx context.Context, queries []LocationQuery) []BatchGeocodingItem
	CacheStats() (*repository.CoordinateStats, error)
}

type geocodingService struct {
	store    coordinateStore
	geocoder ExternalGeocoder

	countryCode string
	now         func() time.Time
	sleep       func(time.Duration)
}

func NewGeocodingService(store coordinateStore, geocoder ExternalGeocoder, countryCode string) GeocodingService {
	if countryCode == "" {
		countryCode = "ID"
	}
	return &geocodingService{
		store:       store,
		geocoder:    geocoder,
		countryCode: countryCode,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

func (s *geocodingService) Resolve(ctx context.Context, query LocationQuery) *GeocodingResult {
	// 1. Persisted cache.
	if query.ID != "" {
		if result := s.resolveFromCache(query); result != nil {
			return result
		}
	}

	// 2. External geocoder, for addresses detailed enough to be worth a call.
	if s.canGeocode(query.Address) {
		if result, err := s.geocodeExternal(ctx, query); err != nil {
			logger.Error("External geocoding failed, falling through", err, map[string]interface{}{
				"listing_id": query.ID,
			})
		} else if result != nil {
			s.persist(query.ID, result)
			return result
		}
	}

	// 3. Static Bali location table.
	if location := geo.FindBaliLocation(query.Address, query.BusinessName, query.City); location != nil {
		result := &GeocodingResult{
			Coordinates:     location.Coordinates,
			GeocodedAddress: location.Name + ", Bali, Indonesia",
			Confidence:      0.8,
			Source:          SourceStatic,
		}
		s.persist(query.ID, result)
		return result
	}

	// 4. Fixed island-center fallback. Persisting it lets repeated calls
	// short-circuit to the cache tier.
	result := &GeocodingResult{
		Coordinates:     geo.BaliCenter,
		GeocodedAddress: "Bali, Indonesia",
		Confidence:      0.5,
		Source:          SourceFallback,
	}
	s.persist(query.ID, result)
	return result
}

// resolveFromCache serves the persisted record when present. Stale records
// (low confidence or old) are still returned immediately; the refresh runs
// detached so the caller never waits on the external provider.
func (s *geocodingService) resolveFromCache(query LocationQuery) *GeocodingResult {
	listing, err := s.store.FindByID(query.ID)
	if err != nil {
		// Missing or unreadable row is a cache miss, not a hard error.
		logger.Debug("Coordinate cache lookup missed", map[string]interface{}{
			"listing_id": query.ID,
			"error":      err.Error(),
		})
		return nil
	}

	record := listing.CoordinateCache()
	if record == nil {
		return nil
	}

	if s.isStale(record) {
		s.refreshInBackground(query)
	}

	return &GeocodingResult{
		Coordinates:     geo.Coordinates{Lat: record.Latitude, Lng: record.Longitude},
		GeocodedAddress: record.GeocodedAddress,
		Confidence:      record.Confidence,
		Source:          SourceDatabase,
		FromCache:       true,
		UpdatedAt:       record.UpdatedAt,
	}
}

func (s *geocodingService) isStale(record *model.CoordinateRecord) bool {
	if record.Confidence < minCacheConfidence {
		return true
	}
	if record.UpdatedAt.IsZero() {
		return false
	}
	return s.now().Sub(record.UpdatedAt) > maxCacheAge
}

// refreshInBackground re-geocodes a stale record detached from the caller.
// There is no cancellation hook and no completion signal; failures and panics
// are logged and swallowed so the original request can never be affected.
func (s *geocodingService) refreshInBackground(query LocationQuery) {
	if !s.canGeocode(query.Address) {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic in background coordinate refresh", nil, map[string]interface{}{
					"listing_id": query.ID,
					"panic":      r,
				})
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := s.geocodeExternal(ctx, query)
		if err != nil || result == nil {
			logger.Warn("Background coordinate refresh did not produce a result", map[string]interface{}{
				"listing_id": query.ID,
			})
			return
		}
		s.persist(query.ID, result)
	}()
}

func (s *geocodingService) canGeocode(address string) bool {
	return len(strings.TrimSpace(address)) > 5 && s.geocoder.HasAPIKey()
}

func (s *geocodingService) geocodeExternal(ctx context.Context, query LocationQuery) (*GeocodingResult, error) {
	hit, err := s.geocoder.Geocode(ctx, buildGeocodingQuery(query), s.countryCode)
	if err != nil {
		return nil, err
	}
	if hit == nil {
		return nil, nil
	}

	return &GeocodingResult{
		Coordinates:     hit.Coordinates,
		GeocodedAddress: hit.FormattedAddress,
		Confidence:      geo.Confidence(hit),
		Source:          SourceGoogle,
	}, nil
}

// buildGeocodingQuery composes the provider query, always anchored to Bali.
func buildGeocodingQuery(query LocationQuery) string {
	parts := []string{query.BusinessName, query.Address}
	if query.City != "" {
		parts = append(parts, query.City)
	}
	parts = append(parts, "Bali, Indonesia")
	return strings.Join(parts, ", ")
}

// persist writes a result back to the coordinate cache. Write failures are
// logged, never surfaced: the caller already has a usable coordinate.
func (s *geocodingService) persist(id string, result *GeocodingResult) {
	if id == "" {
		return
	}
	err := s.store.UpdateCoordinates(id, model.CoordinateRecord{
		Latitude:        result.Coordinates.Lat,
		Longitude:       result.Coordinates.Lng,
		GeocodedAddress: result.GeocodedAddress,
		Confidence:      result.Confidence,
		Source:          string(result.Source),
		UpdatedAt:       s.now(),
	})
	if err != nil {
		logger.Error("Failed to persist coordinates", err, map[string]interface{}{
			"listing_id": id,
			"source":     result.Source,
		})
	}
}

func (s *geocodingService) ResolveBatch(ctx context.Context, queries []LocationQuery) []BatchGeocodingItem {
	items := make([]BatchGeocodingItem, 0, len(queries))

	for _, query := range queries {
		result := s.Resolve(ctx, query)
		items = append(items, BatchGeocodingItem{ID: query.ID, Result: result})

		if result.Source == SourceGoogle && !result.FromCache {
			s.sleep(geocodeRateDelay)
		}
	}
	return items
}

func (s *geocodingService) CacheStats() (*repository.CoordinateStats, error) {
	return s.store.CoordinateStats()
}

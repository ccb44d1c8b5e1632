package repository

import (
	"strings"
	"time"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
	"github.com/baliyoga/baliyoga-backend/pkg/slug"
	"gorm.io/gorm"
)

// ListingFilter narrows FindAll results.
type ListingFilter struct {
	Category     slug.Category // empty means both
	LocationSlug string
	MinRating    float64
	Limit        int
}

// CoordinateStats summarizes the persisted geocoding cache.
type CoordinateStats struct {
	Total    int64
	Cached   int64
	Uncached int64
	Sources  map[string]int64
}

type ListingRepository interface {
	Create(listing *model.Listing) error
	CreateBatch(listings []model.Listing) error
	Update(listing *model.Listing) error
	FindAll(filter ListingFilter) ([]model.Listing, error)
	FindByID(id string) (*model.Listing, error)
	FindBySlug(category slug.Category, s string) (*model.Listing, error)
	FindByIDs(ids []string) ([]model.Listing, error)
	Search(category slug.Category, query string) ([]model.Listing, error)
	UpdateCoordinates(id string, record model.CoordinateRecord) error
	CoordinateStats() (*CoordinateStats, error)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(listing *model.Listing) error {
	if err := r.db.Create(listing).Error; err != nil {
		logger.Error("Failed to create listing", err, map[string]interface{}{
			"name":     listing.Name,
			"category": listing.Category,
		})
		return err
	}
	return nil
}

func (r *listingRepository) CreateBatch(listings []model.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(listings, 100).Error; err != nil {
		logger.Error("Failed to create listings batch", err, map[string]interface{}{
			"count": len(listings),
		})
		return err
	}
	return nil
}

func (r *listingRepository) Update(listing *model.Listing) error {
	if err := r.db.Save(listing).Error; err != nil {
		logger.Error("Failed to update listing", err, map[string]interface{}{
			"listing_id": listing.ID,
		})
		return err
	}
	return nil
}

func (r *listingRepository) FindAll(filter ListingFilter) ([]model.Listing, error) {
	logger.Debug("Fetching listings", map[string]interface{}{
		"category":      filter.Category,
		"location_slug": filter.LocationSlug,
		"min_rating":    filter.MinRating,
	})

	query := r.db.Model(&model.Listing{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.LocationSlug != "" {
		query = query.Where("location_slug = ?", filter.LocationSlug)
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var listings []model.Listing
	if err := query.Order("created_at ASC").Find(&listings).Error; err != nil {
		logger.Error("Failed to fetch listings", err)
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) FindByID(id string) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindBySlug(category slug.Category, s string) (*model.Listing, error) {
	var listing model.Listing
	query := r.db.Where("slug = ?", s)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindByIDs(ids []string) ([]model.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var listings []model.Listing
	if err := r.db.Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Search(category slug.Category, query string) ([]model.Listing, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	q := r.db.Model(&model.Listing{}).Where(
		"LOWER(name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(business_description) LIKE ?",
		pattern, pattern, pattern,
	)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var listings []model.Listing
	if err := q.Order("created_at ASC").Find(&listings).Error; err != nil {
		logger.Error("Failed to search listings", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) UpdateCoordinates(id string, record model.CoordinateRecord) error {
	logger.Debug("Caching coordinates", map[string]interface{}{
		"listing_id": id,
		"source":     record.Source,
		"confidence": record.Confidence,
	})

	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	err := r.db.Model(&model.Listing{}).Where("id = ?", id).Updates(map[string]interface{}{
		"latitude":               record.Latitude,
		"longitude":              record.Longitude,
		"geocoded_address":       record.GeocodedAddress,
		"geocoding_confidence":   record.Confidence,
		"coordinates_source":     record.Source,
		"coordinates_updated_at": updatedAt,
	}).Error
	if err != nil {
		logger.Error("Failed to cache coordinates", err, map[string]interface{}{
			"listing_id": id,
		})
	}
	return err
}

func (r *listingRepository) CoordinateStats() (*CoordinateStats, error) {
	stats := &CoordinateStats{Sources: make(map[string]int64)}

	if err := r.db.Model(&model.Listing{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type sourceCount struct {
		CoordinatesSource string
		N                 int64
	}
	var counts []sourceCount
	err := r.db.Model(&model.Listing{}).
		Select("coordinates_source, COUNT(*) AS n").
		Where("coordinates_source <> ''").
		Group("coordinates_source").
		Find(&counts).Error
	if err != nil {
		return nil, err
	}

	for _, c := range counts {
		stats.Sources[c.CoordinatesSource] = c.N
		stats.Cached += c.N
	}
	stats.Uncached = stats.Total - stats.Cached
	return stats, nil
}

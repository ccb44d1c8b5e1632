package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/baliyoga/baliyoga-backend/pkg/slug"
	"gorm.io/gorm"
)

// StringArray stores a JSON-encoded string slice in a single column, which
// works on both Postgres and the sqlite test database.
type StringArray []string

// Value implements database/sql/driver.Valuer.
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements database/sql.Scanner.
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("failed to scan StringArray")
	}
}

// Listing is a yoga studio or retreat in the directory. The category
// discriminant selects the slug vocabulary and the small retreat extension;
// everything else is shared between the two kinds.
type Listing struct {
	ID           string        `gorm:"primarykey;type:varchar(64)" json:"id"`
	Name         string        `gorm:"not null;index" json:"name"`
	Slug         string        `gorm:"index" json:"slug"` // deterministic, not guaranteed unique
	Category     slug.Category `gorm:"type:varchar(10);index;not null" json:"category"`
	City         string        `gorm:"index" json:"city"`
	LocationSlug string        `gorm:"index" json:"location_slug"`
	Address      string        `gorm:"type:text" json:"address"`

	// Quality signals
	Rating      float64 `gorm:"default:0" json:"rating"`       // 0..5
	ReviewCount int     `gorm:"default:0" json:"review_count"` // >= 0

	// Contact and social presence, each contributing to the priority score
	PhoneNumber         string      `gorm:"type:varchar(30)" json:"phone_number"`
	Website             string      `json:"website"`
	Email               string      `json:"email"`
	BusinessDescription string      `gorm:"type:text" json:"business_description"`
	InstagramURL        string      `json:"instagram_url"`
	FacebookURL         string      `json:"facebook_url"`
	WhatsappNumber      string      `gorm:"type:varchar(30)" json:"whatsapp_number"`
	Images              StringArray `gorm:"type:text" json:"images"`

	// Retreat extension, empty for studios
	Retreat RetreatDetails `gorm:"embedded;embeddedPrefix:retreat_" json:"retreat,omitempty"`

	// Persisted geocoding cache, mutated only by the geocoding resolver
	Latitude             *float64   `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude            *float64   `gorm:"type:decimal(11,8)" json:"longitude"`
	GeocodedAddress      string     `json:"geocoded_address"`
	GeocodingConfidence  *float64   `json:"geocoding_confidence"` // 0..1
	CoordinatesSource    string     `gorm:"type:varchar(30)" json:"coordinates_source"`
	CoordinatesUpdatedAt *time.Time `json:"coordinates_updated_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RetreatDetails holds the fields that only apply to retreats.
type RetreatDetails struct {
	DurationDays int    `json:"duration_days,omitempty"`
	PriceRange   string `gorm:"type:varchar(50)" json:"price_range,omitempty"`
}

// PrimaryImage returns the first image URL, or empty when none exist.
func (l *Listing) PrimaryImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// CoordinateRecord is the persisted geocoding cache slice of a listing row.
type CoordinateRecord struct {
	Latitude        float64
	Longitude       float64
	GeocodedAddress string
	Confidence      float64
	Source          string
	UpdatedAt       time.Time
}

// CoordinateCache extracts the cached geocoding record from a listing, or nil
// when no usable cache exists. Rows missing either coordinate are a cache
// miss, not an error.
func (l *Listing) CoordinateCache() *CoordinateRecord {
	if l.Latitude == nil || l.Longitude == nil {
		return nil
	}
	record := &CoordinateRecord{
		Latitude:        *l.Latitude,
		Longitude:       *l.Longitude,
		GeocodedAddress: l.GeocodedAddress,
		Source:          l.CoordinatesSource,
	}
	if l.GeocodingConfidence != nil {
		record.Confidence = *l.GeocodingConfidence
	}
	if l.CoordinatesUpdatedAt != nil {
		record.UpdatedAt = *l.CoordinatesUpdatedAt
	}
	return record
}

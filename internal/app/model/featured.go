package model

import (
	"time"

	"gorm.io/gorm"
)

// FeaturedRotation records which listings were featured for one week, so the
// selection stays fixed for that week and history is auditable.
type FeaturedRotation struct {
	ID               uint        `gorm:"primarykey" json:"id"`
	WeekStart        time.Time   `gorm:"uniqueIndex;not null" json:"week_start"`
	WeekEnd          time.Time   `gorm:"not null" json:"week_end"`
	FeaturedStudios  StringArray `gorm:"type:text" json:"featured_studios"`
	FeaturedRetreats StringArray `gorm:"type:text" json:"featured_retreats"`
	Algorithm        string      `gorm:"type:varchar(40)" json:"rotation_algorithm"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

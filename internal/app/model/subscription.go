package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plan ids with premium placement.
const (
	PlanPremiumStudio  = "premium-studio"
	PlanPremiumRetreat = "premium-retreat"
	PlanFree           = "free"
)

// Subscription statuses.
const (
	SubscriptionActive    = "active"
	SubscriptionTrialing  = "trialing"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Subscription is one billing relationship for a listing. Premium placement is
// derived from the newest active row, never stored on the listing itself.
type Subscription struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	ListingID string     `gorm:"index;not null;type:varchar(64)" json:"listing_id"`
	PlanID    string     `gorm:"type:varchar(40);not null" json:"plan_id"`
	Status    string     `gorm:"type:varchar(20);index;not null" json:"status"`
	StartsAt  time.Time  `json:"starts_at"`
	ExpiresAt *time.Time `json:"expires_at"` // nil means no fixed end

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsPremiumAt reports whether this subscription grants premium placement at
// the given instant.
func (s *Subscription) IsPremiumAt(now time.Time) bool {
	if s.PlanID != PlanPremiumStudio && s.PlanID != PlanPremiumRetreat {
		return false
	}
	if s.Status != SubscriptionActive && s.Status != SubscriptionTrialing {
		return false
	}
	if s.ExpiresAt != nil && now.After(*s.ExpiresAt) {
		return false
	}
	return true
}

package service

import (
	"sort"
	"strings"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
)

// RankedListing is a listing annotated with its premium status and priority
// score. The score is recomputed on every ranking request and never stored:
// quality signals and premium status both change between requests.
type RankedListing struct {
	model.Listing
	IsPremium     bool    `json:"is_premium"`
	PriorityScore float64 `json:"priority_score"`
}

// Tier selects a subscription slice of a listing set.
type Tier string

const (
	TierAll     Tier = "all"
	TierPremium Tier = "premium"
	TierFree    Tier = "free"
)

// PriorityScore computes the ranking score for one listing. Each term is
// additive and independent, so new signals can be introduced without reworking
// the existing ones. Missing numeric fields contribute zero; the function is
// total over its input domain.
func PriorityScore(listing *model.Listing, isPremium bool) float64 {
	score := 0.0

	// Quality signals
	score += listing.Rating * 10                           // 0-50
	score += minFloat(float64(listing.ReviewCount)/10, 20) // 0-20, diminishing

	if isPremium {
		score += 50
	}

	// Contact completeness
	if strings.TrimSpace(listing.PhoneNumber) != "" {
		score += 5
	}
	if strings.TrimSpace(listing.Website) != "" {
		score += 5
	}
	if strings.TrimSpace(listing.BusinessDescription) != "" {
		score += 5
	}
	if len(listing.Images) > 1 {
		score += 3
	}

	// Social presence
	if strings.TrimSpace(listing.InstagramURL) != "" {
		score += 2
	}
	if strings.TrimSpace(listing.FacebookURL) != "" {
		score += 2
	}
	if strings.TrimSpace(listing.WhatsappNumber) != "" {
		score += 3
	}

	return score
}

// Rank computes each listing's priority score and orders the set: premium
// listings first as a hard partition (a sponsored slot, not a beatable bonus),
// then by score descending. The sort is stable, so equal-score listings keep
// their incoming relative order.
func Rank(listings []RankedListing) []RankedListing {
	ranked := make([]RankedListing, len(listings))
	copy(ranked, listings)

	for i := range ranked {
		ranked[i].PriorityScore = PriorityScore(&ranked[i].Listing, ranked[i].IsPremium)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].IsPremium != ranked[j].IsPremium {
			return ranked[i].IsPremium
		}
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})

	return ranked
}

// FilterByTier returns the listings in the requested subscription tier. It is
// a pure filter: no re-ranking happens and the input is not modified.
func FilterByTier(listings []RankedListing, tier Tier) []RankedListing {
	switch tier {
	case TierPremium:
		out := make([]RankedListing, 0, len(listings))
		for _, l := range listings {
			if l.IsPremium {
				out = append(out, l)
			}
		}
		return out
	case TierFree:
		out := make([]RankedListing, 0, len(listings))
		for _, l := range listings {
			if !l.IsPremium {
				out = append(out, l)
			}
		}
		return out
	default:
		return listings
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

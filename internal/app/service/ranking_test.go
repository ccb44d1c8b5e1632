package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
)

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name      string
		listing   model.Listing
		isPremium bool
		want      float64
	}{
		{
			name:    "Empty listing scores zero",
			listing: model.Listing{},
			want:    0,
		},
		{
			name:    "Rating contributes ten points per star",
			listing: model.Listing{Rating: 4.5},
			want:    45,
		},
		{
			name:    "Review bonus is capped at twenty",
			listing: model.Listing{ReviewCount: 1000},
			want:    20,
		},
		{
			name:    "Review bonus below the cap",
			listing: model.Listing{ReviewCount: 150},
			want:    15,
		},
		{
			name:      "Premium adds fifty",
			listing:   model.Listing{},
			isPremium: true,
			want:      50,
		},
		{
			name: "Contact completeness",
			listing: model.Listing{
				PhoneNumber:         "+62 812 3456",
				Website:             "https://example.com",
				BusinessDescription: "A calm studio in the rice fields",
			},
			want: 15,
		},
		{
			name:    "Whitespace-only contact fields score nothing",
			listing: model.Listing{PhoneNumber: "   ", Website: "\t"},
			want:    0,
		},
		{
			name:    "Single image earns no gallery bonus",
			listing: model.Listing{Images: model.StringArray{"a.jpg"}},
			want:    0,
		},
		{
			name:    "Multiple images earn the gallery bonus",
			listing: model.Listing{Images: model.StringArray{"a.jpg", "b.jpg"}},
			want:    3,
		},
		{
			name: "Social presence",
			listing: model.Listing{
				InstagramURL:   "https://instagram.com/x",
				FacebookURL:    "https://facebook.com/x",
				WhatsappNumber: "+62 812",
			},
			want: 7,
		},
		{
			name: "All signals combined",
			listing: model.Listing{
				Rating:              5,
				ReviewCount:         200,
				PhoneNumber:         "+62 812",
				Website:             "https://example.com",
				BusinessDescription: "desc",
				Images:              model.StringArray{"a.jpg", "b.jpg"},
				InstagramURL:        "ig",
				FacebookURL:         "fb",
				WhatsappNumber:      "wa",
			},
			isPremium: true,
			want:      50 + 20 + 50 + 5 + 5 + 5 + 3 + 2 + 2 + 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriorityScore(&tt.listing, tt.isPremium)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestRank_PremiumPartition(t *testing.T) {
	// A free listing with a perfect score must never outrank a premium one.
	listings := []RankedListing{
		{Listing: model.Listing{ID: "free-great", Rating: 5, ReviewCount: 1000}},
		{Listing: model.Listing{ID: "premium-poor", Rating: 1}, IsPremium: true},
		{Listing: model.Listing{ID: "free-poor", Rating: 0.5}},
	}

	ranked := Rank(listings)

	assert.Equal(t, "premium-poor", ranked[0].ID)
	assert.Equal(t, "free-great", ranked[1].ID)
	assert.Equal(t, "free-poor", ranked[2].ID)
}

func TestRank_ScoreDescendingWithinTier(t *testing.T) {
	listings := []RankedListing{
		{Listing: model.Listing{ID: "b", Rating: 3}},
		{Listing: model.Listing{ID: "a", Rating: 5}},
		{Listing: model.Listing{ID: "c", Rating: 4}},
	}

	ranked := Rank(listings)

	assert.Equal(t, "a", ranked[0].ID)
	assert.Equal(t, "c", ranked[1].ID)
	assert.Equal(t, "b", ranked[2].ID)
}

func TestRank_StableForEqualScores(t *testing.T) {
	listings := []RankedListing{
		{Listing: model.Listing{ID: "first", Rating: 4}},
		{Listing: model.Listing{ID: "second", Rating: 4}},
		{Listing: model.Listing{ID: "third", Rating: 4}},
	}

	ranked := Rank(listings)

	assert.Equal(t, "first", ranked[0].ID)
	assert.Equal(t, "second", ranked[1].ID)
	assert.Equal(t, "third", ranked[2].ID)
}

func TestRank_DoesNotModifyInput(t *testing.T) {
	listings := []RankedListing{
		{Listing: model.Listing{ID: "low", Rating: 1}},
		{Listing: model.Listing{ID: "high", Rating: 5}},
	}

	_ = Rank(listings)

	assert.Equal(t, "low", listings[0].ID)
	assert.Equal(t, "high", listings[1].ID)
}

func TestRank_EmptyInput(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, Rank([]RankedListing{}))
}

func TestFilterByTier(t *testing.T) {
	listings := []RankedListing{
		{Listing: model.Listing{ID: "p1"}, IsPremium: true},
		{Listing: model.Listing{ID: "f1"}},
		{Listing: model.Listing{ID: "p2"}, IsPremium: true},
	}

	premium := FilterByTier(listings, TierPremium)
	assert.Len(t, premium, 2)
	assert.Equal(t, "p1", premium[0].ID)
	assert.Equal(t, "p2", premium[1].ID)

	free := FilterByTier(listings, TierFree)
	assert.Len(t, free, 1)
	assert.Equal(t, "f1", free[0].ID)

	all := FilterByTier(listings, TierAll)
	assert.Len(t, all, 3)
}

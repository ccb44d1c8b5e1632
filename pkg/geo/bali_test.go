package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBaliLocation(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		business string
		city     string
		want     string // expected location name, "" for nil
	}{
		{
			name: "city in address",
			address: "Jl. Raya Ubud No. 23", business: "Harmony Yoga", city: "",
			want: "Ubud",
		},
		{
			name: "city parameter only",
			address: "", business: "Morning Flow", city: "Canggu",
			want: "Canggu",
		},
		{
			name: "misspelled city alias",
			address: "jl pantai, cangu", business: "", city: "",
			want: "Canggu",
		},
		{
			name: "landmark alias",
			address: "near the sacred monkey forest", business: "", city: "",
			want: "Ubud Monkey Forest",
		},
		{
			name: "bare island mention",
			address: "somewhere in Bali", business: "", city: "",
			want: "Bali",
		},
		{
			name: "no match",
			address: "", business: "Harmony Yoga", city: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindBaliLocation(tt.address, tt.business, tt.city)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestDistance(t *testing.T) {
	ubud := Coordinates{Lat: -8.5069, Lng: 115.2625}
	canggu := Coordinates{Lat: -8.6481, Lng: 115.1253}

	d := Distance(ubud, canggu)
	// Roughly 21-22 km apart.
	assert.InDelta(t, 21.6, d, 1.5)

	assert.Zero(t, Distance(ubud, ubud))
}

func TestClosestLocation(t *testing.T) {
	nearUbud := Coordinates{Lat: -8.51, Lng: 115.26}
	assert.Equal(t, "Ubud", ClosestLocation(nearUbud).Name)
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		result GeocodeResult
		want   float64
	}{
		{
			name:   "rooftop",
			result: GeocodeResult{LocationType: LocationTypeRooftop},
			want:   0.95,
		},
		{
			name:   "range interpolated",
			result: GeocodeResult{LocationType: LocationTypeRangeInterpolated},
			want:   0.9,
		},
		{
			name:   "geometric center",
			result: GeocodeResult{LocationType: LocationTypeGeometricCenter},
			want:   0.8,
		},
		{
			name:   "approximate",
			result: GeocodeResult{LocationType: "APPROXIMATE"},
			want:   0.7,
		},
		{
			name:   "establishment boost",
			result: GeocodeResult{LocationType: LocationTypeGeometricCenter, Types: []string{"establishment"}},
			want:   0.9,
		},
		{
			name:   "boost capped at 1.0",
			result: GeocodeResult{LocationType: LocationTypeRooftop, Types: []string{"point_of_interest"}},
			want:   1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Confidence(&tt.result), 0.0001)
		})
	}
}

// Package geo provides coordinate resolution primitives: the static Bali
// location table, distance math, and the Google Geocoding API client.
package geo

import (
	"math"
	"strings"
)

// Coordinates is a WGS84 lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BaliCenter is the fixed island-center fallback coordinate.
var BaliCenter = Coordinates{Lat: -8.4095, Lng: 115.1889}

// Location is a known Bali place with match aliases and a suggested map zoom.
type Location struct {
	Coordinates
	Name    string
	Aliases []string
	Zoom    int
}

// baliLocations covers the island's major cities, beaches and landmarks so
// most listings resolve without a geocoding API call.
var baliLocations = map[string]Location{
	"ubud":      {Coordinates: Coordinates{-8.5069, 115.2625}, Name: "Ubud", Aliases: []string{"ubud center", "central ubud", "ubud bali"}, Zoom: 15},
	"canggu":    {Coordinates: Coordinates{-8.6481, 115.1253}, Name: "Canggu", Aliases: []string{"canggu beach", "canggu bali", "cangu"}, Zoom: 15},
	"seminyak":  {Coordinates: Coordinates{-8.6914, 115.1689}, Name: "Seminyak", Aliases: []string{"seminyak beach", "seminyak bali"}, Zoom: 15},
	"sanur":     {Coordinates: Coordinates{-8.6872, 115.2608}, Name: "Sanur", Aliases: []string{"sanur beach", "sanur bali"}, Zoom: 15},
	"kuta":      {Coordinates: Coordinates{-8.7205, 115.1693}, Name: "Kuta", Aliases: []string{"kuta beach", "kuta bali"}, Zoom: 15},
	"denpasar":  {Coordinates: Coordinates{-8.6500, 115.2167}, Name: "Denpasar", Aliases: []string{"denpasar city", "denpasar bali"}, Zoom: 13},
	"jimbaran":  {Coordinates: Coordinates{-8.7894, 115.1647}, Name: "Jimbaran", Aliases: []string{"jimbaran beach", "jimbaran bay"}, Zoom: 15},
	"uluwatu":   {Coordinates: Coordinates{-8.8298, 115.0845}, Name: "Uluwatu", Aliases: []string{"uluwatu temple", "uluwatu bali"}, Zoom: 15},
	"ubud monkey forest": {Coordinates: Coordinates{-8.5174, 115.2624}, Name: "Ubud Monkey Forest", Aliases: []string{"monkey forest sanctuary", "sacred monkey forest"}, Zoom: 16},
	"ubud rice terraces": {Coordinates: Coordinates{-8.4953, 115.2731}, Name: "Tegallalang Rice Terraces", Aliases: []string{"tegallalang", "rice terraces ubud"}, Zoom: 15},
	"echo beach":   {Coordinates: Coordinates{-8.6213, 115.1217}, Name: "Echo Beach", Aliases: []string{"echo beach canggu", "pantai echo"}, Zoom: 16},
	"berawa beach": {Coordinates: Coordinates{-8.6393, 115.1324}, Name: "Berawa Beach", Aliases: []string{"berawa", "pantai berawa"}, Zoom: 16},
	"lovina":       {Coordinates: Coordinates{-8.1580, 115.0253}, Name: "Lovina", Aliases: []string{"lovina beach", "lovina bali"}, Zoom: 14},
	"amed":         {Coordinates: Coordinates{-8.3419, 115.6625}, Name: "Amed", Aliases: []string{"amed beach", "amed bali"}, Zoom: 14},
	"mount batur":  {Coordinates: Coordinates{-8.2422, 115.3750}, Name: "Mount Batur", Aliases: []string{"gunung batur", "batur volcano"}, Zoom: 12},
	"negara":       {Coordinates: Coordinates{-8.3553, 114.6186}, Name: "Negara", Aliases: []string{"negara bali", "west bali"}, Zoom: 13},
	"bali":         {Coordinates: BaliCenter, Name: "Bali", Aliases: []string{"bali indonesia", "island of bali", "province of bali"}, Zoom: 10},
}

// cityAliases catches common misspellings and bare city mentions after the
// direct table scan finds nothing.
var cityAliases = map[string]string{
	"ubud": "ubud", "canggu": "canggu", "cangu": "canggu",
	"seminyak": "seminyak", "sanur": "sanur", "kuta": "kuta",
	"jimbaran": "jimbaran", "uluwatu": "uluwatu", "denpasar": "denpasar",
	"lovina": "lovina", "amed": "amed", "negara": "negara",
}

// FindBaliLocation matches an address, business name and city against the
// static table. It returns nil only when nothing in the inputs mentions a
// known place, not even the island itself.
func FindBaliLocation(address, name, city string) *Location {
	searchText := strings.ToLower(strings.TrimSpace(address + " " + name + " " + city))
	if searchText == "" {
		return nil
	}

	for key, location := range baliLocations {
		if key == "bali" {
			continue
		}
		if strings.Contains(searchText, key) {
			loc := location
			return &loc
		}
		for _, alias := range location.Aliases {
			if strings.Contains(searchText, strings.ToLower(alias)) {
				loc := location
				return &loc
			}
		}
	}

	for alias, key := range cityAliases {
		if strings.Contains(searchText, alias) {
			loc := baliLocations[key]
			return &loc
		}
	}

	if strings.Contains(searchText, "bali") {
		loc := baliLocations["bali"]
		return &loc
	}

	return nil
}

// Locations returns every entry of the static table.
func Locations() []Location {
	out := make([]Location, 0, len(baliLocations))
	for _, location := range baliLocations {
		out = append(out, location)
	}
	return out
}

// Distance returns the great-circle distance between two points in kilometers,
// by the Haversine formula.
func Distance(a, b Coordinates) float64 {
	const earthRadiusKm = 6371.0

	dLat := degToRad(b.Lat - a.Lat)
	dLng := degToRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ClosestLocation returns the table entry nearest to the given point.
func ClosestLocation(point Coordinates) Location {
	closest := baliLocations["bali"]
	minDistance := math.Inf(1)

	for _, location := range baliLocations {
		d := Distance(point, location.Coordinates)
		if d < minDistance {
			minDistance = d
			closest = location
		}
	}
	return closest
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

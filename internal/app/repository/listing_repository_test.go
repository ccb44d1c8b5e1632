package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/internal/db"
	"github.com/baliyoga/baliyoga-backend/pkg/slug"
)

func setupListingTest(t *testing.T) (*gorm.DB, ListingRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	return testDB, NewListingRepository(testDB)
}

func newTestListing(id, name, city string, category slug.Category) model.Listing {
	return model.Listing{
		ID:           id,
		Name:         name,
		Slug:         slug.Generate(name, city, category),
		Category:     category,
		City:         city,
		LocationSlug: slug.ForLocation(city),
	}
}

func TestListingRepository_CreateAndFindByID(t *testing.T) {
	testDB, repo := setupListingTest(t)
	defer db.CleanupTestDB(testDB)

	listing := newTestListing("listing-1", "Harmony Yoga", "Ubud", slug.CategoryStudio)
	require.NoError(t, repo.Create(&listing))

	found, err := repo.FindByID("listing-1")
	require.NoError(t, err)
	assert.Equal(t, "Harmony Yoga", found.Name)
	assert.Equal(t, "harmony-yoga-ubud-yoga-studio", found.Slug)
}

func TestListingRepository_Update(t *testing.T) {
	testDB, repo := setupListingTest(t)
	defer db.CleanupTestDB(testDB)

	listing := newTestListing("listing-1", "Harmony Yoga", "Ubud", slug.CategoryStudio)
	require.NoError(t, repo.Create(&listing))

	listing.Rating = 4.7
	listing.ReviewCount = 120
	require.NoError(t, repo.Update(&listing))

	found, err := repo.FindByID("listing-1")
	require.NoError(t, err)
	assert.Equal(t, 4.7, found.Rating)
	assert.Equal(t, 120, found.ReviewCount)
}

func TestListingRepository_FindAllWithFilter(t *testing.T) {
	testDB, repo := setupListingTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.CreateBatch([]model.Listing{
		newTestListing("studio-1", "Harmony Yoga", "Ubud", slug.CategoryStudio),
		newTestListing("studio-2", "Ocean Flow", "Canggu", slug.CategoryStudio),
		newTestListing("retreat-1", "Jungle Escape", "Ubud", slug.CategoryRetreat),
	}))

	studios, err := repo.FindAll(ListingFilter{Category: slug.CategoryStudio})
	require.NoError(t, err)
	assert.Len(t, studios, 2)

	ubud, err := repo.FindAll(ListingFilter{LocationSlug: "ubud"})
	require.NoError(t, err)
	assert.Len(t, ubud, 2)

	limited, err := repo.FindAll(ListingFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListingRepository_FindBySlug(t *testing.T) {
	testDB, repo := setupListingTest(t)
	defer db.CleanupTestDB(testDB)

	listing := newTestListing("listing-1", "Harmony Yoga", "Ubud", slug.CategoryStudio)
	require.NoError(t, repo.Create(&listing))

	found, err := repo.FindBySlug(slug.CategoryStudio, "harmony-yoga-ubud-yoga-studio")
	require.NoError(t, err)
	assert.Equal(t, "listing-1", found.ID)

	// Same slug under the other category is not found
	_, err = repo.FindBySlug(slug.CategoryRetreat, "harmony-yoga-ubud-yoga-studio")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListingRepository_FindByIDs(t *testing.T) {
	testDB, repo := setupListingTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.CreateBatch([]model.Listing{
		newTestListing("a", "Harmony Yoga", "Ubud", slug.CategoryStudio),
		newTestListing("b", "Ocean Flow", "Canggu", slug.CategoryStudio),
		newTestListing("c", "Jungle Escape", "Ubud", slug.CategoryRetreat),
	}))

	listings, err := repo.FindByIDs([]string{"a", "c", "missing"})
	require.NoError(t, err)
	assert.Len(t, listings, 2)

	listings, err = repo.FindByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestListingRepository_Search(t *testing.T) {
	testDB, repo := setupListingTest(t)
	defer db.CleanupTestDB(testDB)

	ocean := newTestListing("studio-1", "Ocean Flow", "Canggu", slug.CategoryStudio)
	ocean.BusinessDescription = "Vinyasa classes near the beach"
	require.NoError(t, repo.Create(&ocean))
	harmony := newTestListing("studio-2", "Harmony Yoga", "Ubud", slug.CategoryStudio)
	require.NoError(t, repo.Create(&harmony))
	retreat := newTestListing("retreat-1", "Ocean Retreat", "Uluwatu", slug.CategoryRetreat)
	require.NoError(t, repo.Create(&retreat))

	// Name match, scoped to studios
	results, err := repo.Search(slug.CategoryStudio, "ocean")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "studio-1", results[0].ID)

	// Description match
	results, err = repo.Search(slug.CategoryStudio, "beach")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// City match, case insensitive
	results, err = repo.Search(slug.CategoryStudio, "UBUD")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestListingRepository_UpdateCoordinates(t *testing.T) {
	testDB, repo := setupListingTest(t)
	defer db.CleanupTestDB(testDB)

	listing := newTestListing("listing-1", "Harmony Yoga", "Ubud", slug.CategoryStudio)
	require.NoError(t, repo.Create(&listing))

	err := repo.UpdateCoordinates("listing-1", model.CoordinateRecord{
		Latitude:        -8.5069,
		Longitude:       115.2625,
		GeocodedAddress: "Jl. Raya Ubud, Ubud, Bali",
		Confidence:      0.95,
		Source:          "google_geocoding",
	})
	require.NoError(t, err)

	found, err := repo.FindByID("listing-1")
	require.NoError(t, err)
	record := found.CoordinateCache()
	require.NotNil(t, record)
	assert.Equal(t, -8.5069, record.Latitude)
	assert.Equal(t, 115.2625, record.Longitude)
	assert.Equal(t, 0.95, record.Confidence)
	assert.Equal(t, "google_geocoding", record.Source)
	assert.WithinDuration(t, time.Now(), record.UpdatedAt, 5*time.Second)
}

func TestListingRepository_CoordinateStats(t *testing.T) {
	testDB, repo := setupListingTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.CreateBatch([]model.Listing{
		newTestListing("a", "Harmony Yoga", "Ubud", slug.CategoryStudio),
		newTestListing("b", "Ocean Flow", "Canggu", slug.CategoryStudio),
		newTestListing("c", "Jungle Escape", "Ubud", slug.CategoryRetreat),
	}))

	require.NoError(t, repo.UpdateCoordinates("a", model.CoordinateRecord{
		Latitude: -8.5069, Longitude: 115.2625, Confidence: 0.95, Source: "google_geocoding",
	}))
	require.NoError(t, repo.UpdateCoordinates("b", model.CoordinateRecord{
		Latitude: -8.6478, Longitude: 115.1385, Confidence: 0.8, Source: "static_coordinates",
	}))

	stats, err := repo.CoordinateStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Cached)
	assert.Equal(t, int64(1), stats.Uncached)
	assert.Equal(t, int64(1), stats.Sources["google_geocoding"])
	assert.Equal(t, int64(1), stats.Sources["static_coordinates"])
}

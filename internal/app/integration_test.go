package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/baliyoga/baliyoga-backend/internal/app/controller"
	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/internal/app/repository"
	"github.com/baliyoga/baliyoga-backend/internal/app/service"
	"github.com/baliyoga/baliyoga-backend/internal/db"
	"github.com/baliyoga/baliyoga-backend/pkg/cache"
	"github.com/baliyoga/baliyoga-backend/pkg/slug"
)

type TestServer struct {
	Router              *gin.Engine
	DB                  *gorm.DB
	ListingRepo         repository.ListingRepository
	SubscriptionService service.SubscriptionService
	Revalidator         *cache.Revalidator
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	listingRepo := repository.NewListingRepository(testDB)
	subscriptionRepo := repository.NewSubscriptionRepository(testDB)
	featuredRepo := repository.NewFeaturedRepository(testDB)

	memory := cache.NewMemory()
	revalidator := cache.NewRevalidator()

	subscriptionService := service.NewSubscriptionService(subscriptionRepo, memory)
	listingService := service.NewListingService(listingRepo, subscriptionService, revalidator)
	featuredService := service.NewFeaturedService(featuredRepo, listingRepo)

	listingController := controller.NewListingController(listingService)
	featuredController := controller.NewFeaturedController(featuredService)
	subscriptionController := controller.NewSubscriptionController(subscriptionService)
	cacheController := controller.NewCacheController(revalidator, memory, nil)

	router := gin.New()

	listings := router.Group("/api/v1/listings")
	{
		listings.POST("", listingController.CreateListing)
		listings.GET("/:category", listingController.GetListings)
		listings.GET("/:category/top", listingController.GetTopListings)
		listings.GET("/:category/search", listingController.SearchListings)
		listings.GET("/:category/:slug", listingController.GetListingBySlug)
	}
	router.GET("/api/v1/featured", featuredController.GetCurrentFeatured)
	router.POST("/api/v1/subscriptions", subscriptionController.Subscribe)
	router.POST("/api/v1/cache/invalidate", cacheController.Invalidate)

	return &TestServer{
		Router:              router,
		DB:                  testDB,
		ListingRepo:         listingRepo,
		SubscriptionService: subscriptionService,
		Revalidator:         revalidator,
	}
}

func (ts *TestServer) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func seedListing(t *testing.T, ts *TestServer, listing model.Listing) {
	t.Helper()
	if listing.Slug == "" {
		listing.Slug = slug.Generate(listing.Name, listing.City, listing.Category)
	}
	require.NoError(t, ts.ListingRepo.Create(&listing))
}

func TestCreateAndFetchListing(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodPost, "/api/v1/listings", map[string]interface{}{
		"id":       "l1",
		"name":     "Harmony Yoga",
		"category": "studio",
		"city":     "Ubud",
		"rating":   4.8,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Listing model.Listing `json:"listing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "harmony-yoga-ubud-yoga-studio", created.Listing.Slug)

	w = ts.request(t, http.MethodGet, "/api/v1/listings/studios/harmony-yoga-ubud-yoga-studio", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched struct {
		Listing service.RankedListing `json:"listing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "l1", fetched.Listing.ID)
	assert.False(t, fetched.Listing.IsPremium)
}

func TestGetListingsInvalidCategory(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodGet, "/api/v1/listings/hotels", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_CATEGORY")
}

func TestGetListingUnknownSlug(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodGet, "/api/v1/listings/studios/nowhere-ubud-yoga-studio", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "LISTING_NOT_FOUND")
}

func TestSubscriptionMovesListingToPremiumTier(t *testing.T) {
	ts := setupIntegrationTest(t)

	seedListing(t, ts, model.Listing{
		ID: "free", Name: "Free Studio", Category: slug.CategoryStudio, City: "Ubud", Rating: 5,
	})
	seedListing(t, ts, model.Listing{
		ID: "paid", Name: "Paid Studio", Category: slug.CategoryStudio, City: "Canggu", Rating: 3,
	})

	w := ts.request(t, http.MethodPost, "/api/v1/subscriptions", map[string]interface{}{
		"listing_id": "paid",
		"plan_id":    "premium-studio",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.request(t, http.MethodGet, "/api/v1/listings/studios?tier=premium", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Listings []service.RankedListing `json:"listings"`
		Count    int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "paid", resp.Listings[0].ID)
	assert.True(t, resp.Listings[0].IsPremium)
}

func TestCacheInvalidationEndpoint(t *testing.T) {
	ts := setupIntegrationTest(t)

	seedListing(t, ts, model.Listing{
		ID: "a", Name: "First", Category: slug.CategoryStudio, City: "Ubud", Rating: 4,
	})

	// Prime the cached category fetch.
	w := ts.request(t, http.MethodGet, "/api/v1/listings/studios", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A direct write is hidden behind the cache window.
	seedListing(t, ts, model.Listing{
		ID: "b", Name: "Second", Category: slug.CategoryStudio, City: "Canggu", Rating: 4,
	})
	w = ts.request(t, http.MethodGet, "/api/v1/listings/studios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	// The webhook drops the tag; the next fetch sees both rows.
	w = ts.request(t, http.MethodPost, "/api/v1/cache/invalidate", map[string]interface{}{
		"tag": service.TagListings,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, http.MethodGet, "/api/v1/listings/studios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestTopListingsEndpointReturnsCards(t *testing.T) {
	ts := setupIntegrationTest(t)

	seedListing(t, ts, model.Listing{
		ID: "t1", Name: "Harmony Yoga", Category: slug.CategoryStudio,
		City: "Ubud", LocationSlug: "ubud",
		Rating: 4.8, ReviewCount: 40,
		Images: model.StringArray{"first.jpg", "second.jpg"},
	})
	seedListing(t, ts, model.Listing{
		ID: "t2", Name: "Ocean Flow", Category: slug.CategoryStudio,
		City: "Canggu", LocationSlug: "canggu",
		Rating: 3.9,
	})

	w := ts.request(t, http.MethodGet, "/api/v1/listings/studios/top?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Listings []controller.ListingCard `json:"listings"`
		Count    int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	card := resp.Listings[0]
	assert.Equal(t, "t1", card.ID)
	assert.Equal(t, "harmony-yoga-ubud-yoga-studio", card.Slug)
	assert.Equal(t, "Ubud", card.Location)
	assert.Equal(t, "first.jpg", card.Image)
}

func TestFeaturedEndpoint(t *testing.T) {
	ts := setupIntegrationTest(t)

	seedListing(t, ts, model.Listing{
		ID: "s1", Name: "Studio One", Category: slug.CategoryStudio, City: "Ubud",
		Rating: 4.5, Images: model.StringArray{"a.jpg"},
	})

	w := ts.request(t, http.MethodGet, "/api/v1/featured", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Featured service.CurrentFeatured `json:"featured"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Featured.Studios, 1)
	assert.Equal(t, "s1", resp.Featured.Studios[0].ID)
}

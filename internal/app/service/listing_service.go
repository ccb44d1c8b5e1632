package service

import (
	"context"
	"errors"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/internal/app/repository"
	"github.com/baliyoga/baliyoga-backend/pkg/cache"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
	"github.com/baliyoga/baliyoga-backend/pkg/slug"
	"gorm.io/gorm"
)

var ErrListingNotFound = errors.New("listing not found")

// TagListings marks every cached listing fetch; invalidating it after a
// content change makes the next request hit the database again.
const TagListings = "listings"

const topListingMinRating = 4.0

type ListingService interface {
	// GetAllListings returns all listings of a category, ranked. The fetch is
	// served from the revalidating cache inside its window; premium status
	// and scores are recomputed on every call.
	GetAllListings(ctx context.Context, category slug.Category) ([]RankedListing, error)
	GetListingBySlug(ctx context.Context, category slug.Category, s string) (*RankedListing, error)
	// SearchListings matches name, city and description, then ranks the hits.
	SearchListings(ctx context.Context, category slug.Category, query string) ([]RankedListing, error)
	// GetTopListings returns the best-rated listings of a category, ranked,
	// at most limit of them.
	GetTopListings(ctx context.Context, category slug.Category, limit int) ([]RankedListing, error)
	CreateListing(listing *model.Listing) error
}

type listingService struct {
	listingRepo   repository.ListingRepository
	subscriptions SubscriptionService

	fetchByCategory func(ctx context.Context, args ...string) ([]model.Listing, error)
	fetchBySlug     func(ctx context.Context, args ...string) (*model.Listing, error)
	fetchSearch     func(ctx context.Context, args ...string) ([]model.Listing, error)
}

func NewListingService(listingRepo repository.ListingRepository, subscriptions SubscriptionService, revalidator *cache.Revalidator) ListingService {
	s := &listingService{
		listingRepo:   listingRepo,
		subscriptions: subscriptions,
	}

	listConfig := cache.ConfigMedium
	listConfig.Tags = append([]string{TagListings}, listConfig.Tags...)
	s.fetchByCategory = cache.Wrap(revalidator, cache.KeyListingsByCategory, listConfig,
		func(ctx context.Context, args ...string) ([]model.Listing, error) {
			return listingRepo.FindAll(repository.ListingFilter{Category: slug.Category(args[0])})
		})

	slugConfig := cache.ConfigLong
	slugConfig.Tags = append([]string{TagListings}, slugConfig.Tags...)
	s.fetchBySlug = cache.Wrap(revalidator, cache.KeyListingBySlug, slugConfig,
		func(ctx context.Context, args ...string) (*model.Listing, error) {
			return listingRepo.FindBySlug(slug.Category(args[0]), args[1])
		})

	searchConfig := cache.ConfigShort
	searchConfig.Tags = append([]string{TagListings}, searchConfig.Tags...)
	s.fetchSearch = cache.Wrap(revalidator, cache.KeySearchListings, searchConfig,
		func(ctx context.Context, args ...string) ([]model.Listing, error) {
			return listingRepo.Search(slug.Category(args[0]), args[1])
		})

	return s
}

func (s *listingService) GetAllListings(ctx context.Context, category slug.Category) ([]RankedListing, error) {
	listings, err := s.fetchByCategory(ctx, string(category))
	if err != nil {
		logger.Error("Failed to fetch listings", err, map[string]interface{}{
			"category": category,
		})
		return nil, err
	}
	return s.rank(listings), nil
}

func (s *listingService) GetListingBySlug(ctx context.Context, category slug.Category, listingSlug string) (*RankedListing, error) {
	listing, err := s.fetchBySlug(ctx, string(category), listingSlug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}

	ranked := RankedListing{Listing: *listing}
	ranked.IsPremium = s.subscriptions.IsPremium(listing.ID)
	ranked.PriorityScore = PriorityScore(listing, ranked.IsPremium)
	return &ranked, nil
}

func (s *listingService) SearchListings(ctx context.Context, category slug.Category, query string) ([]RankedListing, error) {
	listings, err := s.fetchSearch(ctx, string(category), query)
	if err != nil {
		logger.Error("Failed to search listings", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}
	return s.rank(listings), nil
}

func (s *listingService) GetTopListings(ctx context.Context, category slug.Category, limit int) ([]RankedListing, error) {
	ranked, err := s.GetAllListings(ctx, category)
	if err != nil {
		return nil, err
	}

	top := make([]RankedListing, 0, limit)
	for _, l := range ranked {
		if l.Rating >= topListingMinRating {
			top = append(top, l)
			if limit > 0 && len(top) == limit {
				break
			}
		}
	}
	return top, nil
}

func (s *listingService) CreateListing(listing *model.Listing) error {
	if listing.Slug == "" {
		listing.Slug = slug.Generate(listing.Name, listing.City, listing.Category)
	}
	if listing.LocationSlug == "" {
		listing.LocationSlug = slug.LocationSlug(listing.City)
	}
	return s.listingRepo.Create(listing)
}

// rank enriches raw listings with premium status and orders them.
func (s *listingService) rank(listings []model.Listing) []RankedListing {
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	statuses := s.subscriptions.PremiumStatuses(ids)

	enriched := make([]RankedListing, len(listings))
	for i, l := range listings {
		enriched[i] = RankedListing{Listing: l, IsPremium: statuses[l.ID]}
	}
	return Rank(enriched)
}

package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/internal/app/repository"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
	"github.com/baliyoga/baliyoga-backend/pkg/slug"
)

const (
	featuredPerCategory = 3
	featuredMinRating   = 4.0
	rotationAlgorithm   = "seeded-weekly-shuffle"
)

// CurrentFeatured is the active week's featured selection with listing data.
type CurrentFeatured struct {
	WeekStart time.Time       `json:"week_start"`
	WeekEnd   time.Time       `json:"week_end"`
	Studios   []model.Listing `json:"studios"`
	Retreats  []model.Listing `json:"retreats"`
}

type FeaturedService interface {
	// GetCurrentFeatured returns this week's featured listings, generating
	// and persisting the rotation on first use within a week.
	GetCurrentFeatured(ctx context.Context) (*CurrentFeatured, error)
	// GenerateRotation builds and stores the rotation for the week containing
	// now, if one does not exist yet.
	GenerateRotation(ctx context.Context) (*model.FeaturedRotation, error)
	IsCurrentlyFeatured(ctx context.Context, listingID string) (bool, error)
}

type featuredService struct {
	featuredRepo repository.FeaturedRepository
	listingRepo  repository.ListingRepository
	now          func() time.Time
}

func NewFeaturedService(featuredRepo repository.FeaturedRepository, listingRepo repository.ListingRepository) FeaturedService {
	return &featuredService{
		featuredRepo: featuredRepo,
		listingRepo:  listingRepo,
		now:          time.Now,
	}
}

func (s *featuredService) GetCurrentFeatured(ctx context.Context) (*CurrentFeatured, error) {
	rotation, err := s.GenerateRotation(ctx)
	if err != nil {
		return nil, err
	}

	studios, err := s.listingRepo.FindByIDs(rotation.FeaturedStudios)
	if err != nil {
		return nil, err
	}
	retreats, err := s.listingRepo.FindByIDs(rotation.FeaturedRetreats)
	if err != nil {
		return nil, err
	}

	return &CurrentFeatured{
		WeekStart: rotation.WeekStart,
		WeekEnd:   rotation.WeekEnd,
		Studios:   studios,
		Retreats:  retreats,
	}, nil
}

func (s *featuredService) GenerateRotation(ctx context.Context) (*model.FeaturedRotation, error) {
	weekStart := weekStartUTC(s.now())

	existing, err := s.featuredRepo.FindByWeekStart(weekStart)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	studioIDs, err := s.pickFeatured(slug.CategoryStudio, weekStart)
	if err != nil {
		return nil, err
	}
	retreatIDs, err := s.pickFeatured(slug.CategoryRetreat, weekStart)
	if err != nil {
		return nil, err
	}

	rotation := &model.FeaturedRotation{
		WeekStart:        weekStart,
		WeekEnd:          weekStart.AddDate(0, 0, 7),
		FeaturedStudios:  studioIDs,
		FeaturedRetreats: retreatIDs,
		Algorithm:        rotationAlgorithm,
	}
	if err := s.featuredRepo.Create(rotation); err != nil {
		return nil, err
	}

	logger.Info("Generated weekly featured rotation", map[string]interface{}{
		"week_start": weekStart,
		"studios":    len(studioIDs),
		"retreats":   len(retreatIDs),
	})
	return rotation, nil
}

func (s *featuredService) IsCurrentlyFeatured(ctx context.Context, listingID string) (bool, error) {
	rotation, err := s.GenerateRotation(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range rotation.FeaturedStudios {
		if id == listingID {
			return true, nil
		}
	}
	for _, id := range rotation.FeaturedRetreats {
		if id == listingID {
			return true, nil
		}
	}
	return false, nil
}

// pickFeatured selects up to featuredPerCategory eligible listings with a
// shuffle seeded by the week start, so every instance computes the same
// selection for the same week.
func (s *featuredService) pickFeatured(category slug.Category, weekStart time.Time) ([]string, error) {
	eligible, err := s.listingRepo.FindAll(repository.ListingFilter{
		Category:  category,
		MinRating: featuredMinRating,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(eligible))
	for _, listing := range eligible {
		if len(listing.Images) == 0 {
			continue
		}
		ids = append(ids, listing.ID)
	}

	rng := rand.New(rand.NewSource(weekStart.Unix()))
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	if len(ids) > featuredPerCategory {
		ids = ids[:featuredPerCategory]
	}
	return ids, nil
}

// weekStartUTC truncates to the Monday 00:00 UTC of t's week.
func weekStartUTC(t time.Time) time.Time {
	t = t.UTC()
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -daysSinceMonday)
}

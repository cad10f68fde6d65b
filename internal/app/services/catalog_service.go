package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/pkg/cache"
)

// catalogCacheKey holds the full course listing
const catalogCacheKey = "courses"

// CatalogService serves the course catalog
type CatalogService struct {
	courses CourseStore
	cache   cache.Cache
	logger  zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(courses CourseStore, c cache.Cache, logger zerolog.Logger) *CatalogService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &CatalogService{
		courses: courses,
		cache:   c,
		logger:  logger,
	}
}

// ListCourses returns every course. The listing is read through the cache;
// cache failures are logged and the database answers instead.
func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.cache.Get(ctx, catalogCacheKey, &courses)
	if err == nil {
		return courses, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Msg("Catalog cache read failed")
	}

	courses, err = s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, catalogCacheKey, courses); err != nil {
		s.logger.Warn().Err(err).Msg("Catalog cache write failed")
	}
	return courses, nil
}

// GetCourse returns one course
func (s *CatalogService) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// InvalidateCatalog drops the cached listing
func (s *CatalogService) InvalidateCatalog(ctx context.Context) {
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("Catalog cache invalidation failed")
	}
}

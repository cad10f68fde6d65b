package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
)

func TestListCourses_ReadThroughCache(t *testing.T) {
	db := newFakeDB()
	db.addCourse("Java Full Stack", 2999)
	db.addCourse("Data Science", 1999)
	courses := &fakeCourses{db: db}
	c := newFakeCache()
	svc := NewCatalogService(courses, c, zerolog.Nop())

	first, err := svc.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, courses.lists)
	assert.Contains(t, c.data, catalogCacheKey)

	second, err := svc.ListCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, courses.lists)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].DiscountedPrice.Equal(second[0].DiscountedPrice))

	svc.InvalidateCatalog(context.Background())
	_, err = svc.ListCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, courses.lists)
}

func TestListCourses_CacheFailureFallsBack(t *testing.T) {
	db := newFakeDB()
	db.addCourse("Java Full Stack", 2999)
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	c.setErr = errors.New("redis down")
	svc := NewCatalogService(&fakeCourses{db: db}, c, zerolog.Nop())

	list, err := svc.ListCourses(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListCourses_NoCache(t *testing.T) {
	db := newFakeDB()
	db.failures["courses.List"] = errInjected
	svc := NewCatalogService(&fakeCourses{db: db}, nil, zerolog.Nop())

	_, err := svc.ListCourses(context.Background())
	assert.ErrorIs(t, err, errInjected)
}

func TestGetCourse(t *testing.T) {
	db := newFakeDB()
	course := db.addCourse("Java Full Stack", 2999)
	svc := NewCatalogService(&fakeCourses{db: db}, nil, zerolog.Nop())

	got, err := svc.GetCourse(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Java Full Stack", got.Title)

	_, err = svc.GetCourse(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

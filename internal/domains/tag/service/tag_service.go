package service

import (
	"context"
	"time"

	"conduit-backend/internal/domains/tag"
	"conduit-backend/pkg/cache"
)

// tagListCacheKey - single cache key cho toàn bộ tag list.
// Mọi write chạm tags đều invalidate key này.
const tagListCacheKey = "tag_list"

const tagListTTL = 15 * time.Minute

type tagService struct {
	repo  tag.Repository
	cache cache.Cache
}

func NewTagService(repo tag.Repository, cache cache.Cache) tag.Service {
	return &tagService{
		repo:  repo,
		cache: cache,
	}
}

// ListTags - cache-aside: Redis trước, Postgres khi miss.
// Cache errors không fail request, chỉ mất benefit của cache.
func (s *tagService) ListTags(ctx context.Context) ([]string, error) {
	var cached []string
	found, err := s.cache.Get(ctx, tagListCacheKey, &cached)
	if err == nil && found {
		return cached, nil
	}

	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	if names == nil {
		names = []string{}
	}

	_ = s.cache.Set(ctx, tagListCacheKey, names, tagListTTL)

	return names, nil
}

func (s *tagService) InvalidateTagList(ctx context.Context) error {
	return s.cache.Delete(ctx, tagListCacheKey)
}

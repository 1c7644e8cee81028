package app

import (
	"context"
	"fmt"
	"time"

	"hotelex_register/internal/domain"
)

const recentHotelsKey = "hotels:recent"

type QueryService struct {
	repo     domain.RegistrationRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.RegistrationRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	key := fmt.Sprintf("hotel:%d", id)
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	_ = s.cache.Set(ctx, key, h)
	return h, nil
}

// ListRecent serves the default recent-registrations view through the cache.
// Only the shared key is cached; custom limits go straight to the store.
func (s *QueryService) ListRecent(ctx context.Context, limit int) ([]domain.Hotel, error) {
	if limit != defaultListLimit {
		return s.repo.ListHotels(ctx, limit)
	}
	var out []domain.Hotel
	if ok, _ := s.cache.Get(ctx, recentHotelsKey, &out); ok {
		return out, nil
	}
	hs, err := s.repo.ListHotels(ctx, limit)
	if err != nil {
		return nil, err
	}
	// copy before caching so callers can't mutate the cached slice
	cp := make([]domain.Hotel, len(hs))
	copy(cp, hs)
	_ = s.cache.Set(ctx, recentHotelsKey, cp)
	return hs, nil
}

const defaultListLimit = 50

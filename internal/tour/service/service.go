// Package service fronts the tour API client with a shared result cache.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"mytrip_backend/internal/tourapi"
	"mytrip_backend/platform/logger"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 10 * time.Minute

// Upstream is the part of *tourapi.Client the service depends on.
type Upstream interface {
	AreaCodes(ctx context.Context, params tourapi.AreaCodeParams) ([]tourapi.AreaCode, error)
	AreaBasedList(ctx context.Context, params tourapi.AreaBasedListParams) (*tourapi.ListResult[tourapi.TourItem], error)
	SearchKeyword(ctx context.Context, params tourapi.SearchKeywordParams) (*tourapi.ListResult[tourapi.TourItem], error)
	CommonDetail(ctx context.Context, contentID string) ([]tourapi.CommonDetail, error)
	IntroDetail(ctx context.Context, contentID, contentTypeID string) ([]tourapi.IntroDetail, error)
	Images(ctx context.Context, contentID string) ([]tourapi.Image, error)
	PetTourInfo(ctx context.Context, contentID string) ([]tourapi.PetTourInfo, error)
}

// Metrics counts cache lookups. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics registers the cache collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tour_cache_requests_total",
				Help: "Tour cache lookups by result (hit, miss, error)",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) record(result string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(result).Inc()
}

// Service handles tour lookups with caching. Successful results, empty ones
// included, are cached for the TTL; errors never are.
type Service struct {
	upstream Upstream
	cache    Cache
	ttl      time.Duration
	group    singleflight.Group
	log      *logger.Logger
	metrics  *Metrics
}

// New creates a tour service. cache defaults to a MemoryCache and ttl to
// DefaultTTL.
func New(upstream Upstream, cache Cache, ttl time.Duration, log *logger.Logger, metrics *Metrics) *Service {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		log:      log.WithComponent("tour_service"),
		metrics:  metrics,
	}
}

// AreaCodes returns provinces, or the districts of params.AreaCode.
func (s *Service) AreaCodes(ctx context.Context, params tourapi.AreaCodeParams) ([]tourapi.AreaCode, error) {
	key := fmt.Sprintf("area:%s:%d:%d", params.AreaCode, params.NumOfRows, params.PageNo)
	return cached(ctx, s, key, func(ctx context.Context) ([]tourapi.AreaCode, error) {
		return s.upstream.AreaCodes(ctx, params)
	})
}

// AreaBasedList returns one page of listings.
func (s *Service) AreaBasedList(ctx context.Context, params tourapi.AreaBasedListParams) (*tourapi.ListResult[tourapi.TourItem], error) {
	key := fmt.Sprintf("list:%s:%s:%s:%d:%d:%s",
		params.AreaCode, params.SigunguCode, params.ContentTypeID, params.NumOfRows, params.PageNo, params.Arrange)
	return cached(ctx, s, key, func(ctx context.Context) (*tourapi.ListResult[tourapi.TourItem], error) {
		return s.upstream.AreaBasedList(ctx, params)
	})
}

// SearchKeyword returns one page of keyword matches.
func (s *Service) SearchKeyword(ctx context.Context, params tourapi.SearchKeywordParams) (*tourapi.ListResult[tourapi.TourItem], error) {
	key := fmt.Sprintf("search:%q:%s:%s:%d:%d",
		params.Keyword, params.AreaCode, params.ContentTypeID, params.NumOfRows, params.PageNo)
	return cached(ctx, s, key, func(ctx context.Context) (*tourapi.ListResult[tourapi.TourItem], error) {
		return s.upstream.SearchKeyword(ctx, params)
	})
}

// CommonDetail returns the common record of contentID or nil when unknown.
func (s *Service) CommonDetail(ctx context.Context, contentID string) (*tourapi.CommonDetail, error) {
	records, err := cached(ctx, s, "common:"+contentID, func(ctx context.Context) ([]tourapi.CommonDetail, error) {
		return s.upstream.CommonDetail(ctx, contentID)
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// IntroDetail returns the intro record of contentID or nil when unknown.
func (s *Service) IntroDetail(ctx context.Context, contentID, contentTypeID string) (*tourapi.IntroDetail, error) {
	records, err := cached(ctx, s, "intro:"+contentID+":"+contentTypeID, func(ctx context.Context) ([]tourapi.IntroDetail, error) {
		return s.upstream.IntroDetail(ctx, contentID, contentTypeID)
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Images returns the images of contentID.
func (s *Service) Images(ctx context.Context, contentID string) ([]tourapi.Image, error) {
	return cached(ctx, s, "images:"+contentID, func(ctx context.Context) ([]tourapi.Image, error) {
		return s.upstream.Images(ctx, contentID)
	})
}

// PetTourInfo returns the pet record of contentID or nil when unknown.
func (s *Service) PetTourInfo(ctx context.Context, contentID string) (*tourapi.PetTourInfo, error) {
	records, err := cached(ctx, s, "pet:"+contentID, func(ctx context.Context) ([]tourapi.PetTourInfo, error) {
		return s.upstream.PetTourInfo(ctx, contentID)
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// cached serves key from the cache or loads it once, collapsing concurrent
// misses for the same key. Cache failures degrade to a direct load.
//
// The shared load runs detached from any single caller's cancellation; the
// client's per-attempt timeout and retry ceiling bound it. Each caller stops
// waiting when its own ctx is done.
func cached[T any](ctx context.Context, s *Service, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	log := s.log.WithContext(ctx)

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.metrics.record("error")
		log.Warn("tour cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if ok {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			s.metrics.record("hit")
			return value, nil
		}
		log.Warn("tour cache entry could not be decoded", slog.String("key", key))
	}
	s.metrics.record("miss")

	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		value, err := load(loadCtx)
		if err != nil {
			return value, err
		}
		if raw, err := json.Marshal(value); err == nil {
			if err := s.cache.Set(loadCtx, key, raw, s.ttl); err != nil {
				log.Warn("tour cache write failed", slog.String("key", key), slog.String("error", err.Error()))
			}
		}
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			log.Debug("tour lookup shared with concurrent caller", slog.String("key", key))
		}
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

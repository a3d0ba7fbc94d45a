// Package service aggregates listing counts per region and content type.
package service

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"mytrip_backend/internal/tourapi"
	"mytrip_backend/platform/logger"
)

const (
	maxInFlight = 4
	topN        = 3
)

// Lister counts listings. The tour service satisfies it.
type Lister interface {
	AreaBasedList(ctx context.Context, params tourapi.AreaBasedListParams) (*tourapi.ListResult[tourapi.TourItem], error)
}

// Count is one bucket of an aggregation.
type Count struct {
	Code       string
	Name       string
	Count      int
	Percentage float64
}

// Summary is the overview shown on the stats page.
type Summary struct {
	TotalCount  int
	RegionCount int
	TypeCount   int
	TopRegions  []Count
	TopTypes    []Count
	LastUpdated time.Time
}

// Service computes the aggregations.
type Service struct {
	lister Lister
	log    *logger.Logger
	now    func() time.Time
}

// New creates a stats service.
func New(lister Lister, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{lister: lister, log: log, now: time.Now}
}

// RegionStats returns the listing count of every province.
func (s *Service) RegionStats(ctx context.Context) ([]Count, error) {
	return s.collect(ctx, tourapi.Provinces, regionParams)
}

// TypeStats returns the listing count of every content type.
func (s *Service) TypeStats(ctx context.Context) ([]Count, error) {
	return s.collect(ctx, tourapi.ContentTypes, typeParams)
}

// Summary combines both aggregations. Both share one in-flight limit.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)

	regions := s.schedule(ctx, gctx, g, tourapi.Provinces, regionParams)
	types := s.schedule(ctx, gctx, g, tourapi.ContentTypes, typeParams)
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rank(regions)
	rank(types)

	return &Summary{
		TotalCount:  sum(regions),
		RegionCount: len(regions),
		TypeCount:   len(types),
		TopRegions:  top(regions, topN),
		TopTypes:    top(types, topN),
		LastUpdated: s.now(),
	}, nil
}

func regionParams(code string) tourapi.AreaBasedListParams {
	return tourapi.AreaBasedListParams{AreaCode: code, NumOfRows: 1, PageNo: 1}
}

func typeParams(code string) tourapi.AreaBasedListParams {
	return tourapi.AreaBasedListParams{ContentTypeID: code, NumOfRows: 1, PageNo: 1}
}

// collect fetches one count per bucket. A failed count is logged and
// reported as zero; only cancellation of ctx fails the whole aggregation.
func (s *Service) collect(ctx context.Context, buckets []tourapi.Named, params func(code string) tourapi.AreaBasedListParams) ([]Count, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)

	counts := s.schedule(ctx, gctx, g, buckets, params)
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rank(counts)
	return counts, nil
}

// schedule queues one count per bucket on g. The returned slice is filled
// once g.Wait returns.
func (s *Service) schedule(ctx, gctx context.Context, g *errgroup.Group, buckets []tourapi.Named, params func(code string) tourapi.AreaBasedListParams) []Count {
	counts := make([]Count, len(buckets))
	for i, bucket := range buckets {
		g.Go(func() error {
			total := 0
			res, err := s.lister.AreaBasedList(gctx, params(bucket.Code))
			switch {
			case err != nil:
				s.log.WithContext(ctx).Warn("stats count failed", "code", bucket.Code, "name", bucket.Name, "error", err)
			case res != nil:
				total = res.TotalCount
			}

			counts[i] = Count{Code: bucket.Code, Name: bucket.Name, Count: total}
			return nil
		})
	}
	return counts
}

// rank fills in percentages and sorts by count, largest first.
func rank(counts []Count) {
	total := sum(counts)
	for i := range counts {
		if total > 0 {
			counts[i].Percentage = float64(counts[i].Count) / float64(total) * 100
		}
	}
	sort.SliceStable(counts, func(a, b int) bool { return counts[a].Count > counts[b].Count })
}

func sum(counts []Count) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}

func top(counts []Count, n int) []Count {
	if len(counts) < n {
		n = len(counts)
	}
	out := make([]Count, n)
	copy(out, counts[:n])
	return out
}

package main

import (
	"context"

	"mytrip_backend/internal/tourapi"
	"mytrip_backend/platform/logger"
)

const (
	probeArea    = "1"
	probeKeyword = "경복궁"
)

// prober is the part of *tourapi.Client the probe calls.
type prober interface {
	AreaCodes(ctx context.Context, params tourapi.AreaCodeParams) ([]tourapi.AreaCode, error)
	AreaBasedList(ctx context.Context, params tourapi.AreaBasedListParams) (*tourapi.ListResult[tourapi.TourItem], error)
	SearchKeyword(ctx context.Context, params tourapi.SearchKeywordParams) (*tourapi.ListResult[tourapi.TourItem], error)
	CommonDetail(ctx context.Context, contentID string) ([]tourapi.CommonDetail, error)
	IntroDetail(ctx context.Context, contentID, contentTypeID string) ([]tourapi.IntroDetail, error)
	Images(ctx context.Context, contentID string) ([]tourapi.Image, error)
	PetTourInfo(ctx context.Context, contentID string) ([]tourapi.PetTourInfo, error)
}

type step struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
	Sample any    `json:"sample,omitempty"`
}

type report struct {
	Success bool   `json:"success"`
	Steps   []step `json:"steps"`
}

// run executes the probe sequence. The detail steps use the first listing
// item and are skipped when the listing is empty. A pet info failure is
// recorded but does not fail the probe; many places have none.
func run(ctx context.Context, client prober, log *logger.Logger) *report {
	rep := &report{Success: true}
	record := func(name string, count int, sample any, err error, required bool) bool {
		s := step{Name: name, Count: count}
		if err != nil {
			s.Error = err.Error()
			if required {
				rep.Success = false
				log.Error("probe step failed", "step", name, "error", err)
			} else {
				log.Warn("optional probe step failed", "step", name, "error", err)
			}
		} else {
			s.Sample = sample
			log.Info("probe step ok", "step", name, "count", count)
		}
		rep.Steps = append(rep.Steps, s)
		return err == nil
	}

	areas, err := client.AreaCodes(ctx, tourapi.AreaCodeParams{NumOfRows: 5})
	record("areaCode", len(areas), head(areas, 2), err, true)

	list, err := client.AreaBasedList(ctx, tourapi.AreaBasedListParams{
		AreaCode:      probeArea,
		ContentTypeID: tourapi.ContentTypeTouristSpot,
		NumOfRows:     5,
	})
	var items []tourapi.TourItem
	if list != nil {
		items = list.Items
	}
	listed := record("areaBasedList", len(items), head(items, 2), err, true)

	found, err := client.SearchKeyword(ctx, tourapi.SearchKeywordParams{Keyword: probeKeyword, NumOfRows: 3})
	var hits []tourapi.TourItem
	if found != nil {
		hits = found.Items
	}
	record("searchKeyword", len(hits), head(hits, 2), err, true)

	if !listed || len(items) == 0 {
		return rep
	}

	first := items[0]
	contentID := first.ContentID.String()

	common, err := client.CommonDetail(ctx, contentID)
	record("detailCommon", len(common), nil, err, true)

	intro, err := client.IntroDetail(ctx, contentID, first.ContentTypeID.String())
	record("detailIntro", len(intro), nil, err, true)

	images, err := client.Images(ctx, contentID)
	record("detailImage", len(images), nil, err, true)

	pet, err := client.PetTourInfo(ctx, contentID)
	record("detailPetTour", len(pet), nil, err, false)

	return rep
}

func head[T any](items []T, n int) []T {
	if len(items) < n {
		return items
	}
	return items[:n]
}

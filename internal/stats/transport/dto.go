// Package transport provides DTOs for the stats domain.
package transport

import (
	"time"

	"mytrip_backend/internal/stats/service"
)

// RegionCount is the listing count of one province.
type RegionCount struct {
	AreaCode   string  `json:"areaCode"`
	AreaName   string  `json:"areaName"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TypeCount is the listing count of one content type.
type TypeCount struct {
	TypeID     string  `json:"typeId"`
	TypeName   string  `json:"typeName"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SummaryResponse is the body of GET /stats/summary.
type SummaryResponse struct {
	TotalCount  int           `json:"totalCount"`
	RegionCount int           `json:"regionCount"`
	TypeCount   int           `json:"typeCount"`
	TopRegions  []RegionCount `json:"topRegions"`
	TopTypes    []TypeCount   `json:"topTypes"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

func ToRegionCounts(counts []service.Count) []RegionCount {
	out := make([]RegionCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, RegionCount{AreaCode: c.Code, AreaName: c.Name, Count: c.Count, Percentage: c.Percentage})
	}
	return out
}

func ToTypeCounts(counts []service.Count) []TypeCount {
	out := make([]TypeCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, TypeCount{TypeID: c.Code, TypeName: c.Name, Count: c.Count, Percentage: c.Percentage})
	}
	return out
}

func ToSummary(s *service.Summary) SummaryResponse {
	return SummaryResponse{
		TotalCount:  s.TotalCount,
		RegionCount: s.RegionCount,
		TypeCount:   s.TypeCount,
		TopRegions:  ToRegionCounts(s.TopRegions),
		TopTypes:    ToTypeCounts(s.TopTypes),
		LastUpdated: s.LastUpdated,
	}
}

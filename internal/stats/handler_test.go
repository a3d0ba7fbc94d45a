package stats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"mytrip_backend/internal/stats/service"
)

type fakeStatsService struct {
	err error
}

func (f fakeStatsService) RegionStats(context.Context) ([]service.Count, error) {
	return []service.Count{{Code: "1", Name: "서울", Count: 10, Percentage: 100}}, f.err
}

func (f fakeStatsService) TypeStats(context.Context) ([]service.Count, error) {
	return []service.Count{{Code: "12", Name: "관광지", Count: 10, Percentage: 100}}, f.err
}

func (f fakeStatsService) Summary(context.Context) (*service.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.Summary{TotalCount: 10, RegionCount: 17, TypeCount: 8, LastUpdated: time.Now()}, nil
}

func serve(t *testing.T, svc StatsService, target string) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHandler(svc).register(engine.Group("/api/v1/stats"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body, got %q", rec.Body.String())
	}
	return rec.Code, body
}

func TestTypesUsesTypeFields(t *testing.T) {
	status, body := serve(t, fakeStatsService{}, "/api/v1/stats/types")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	item := body["items"].([]any)[0].(map[string]any)
	if item["typeId"] != "12" || item["typeName"] != "관광지" {
		t.Fatalf("expected typeId/typeName, got %#v", item)
	}
}

func TestRegionsUsesAreaFields(t *testing.T) {
	status, body := serve(t, fakeStatsService{}, "/api/v1/stats/regions")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	item := body["items"].([]any)[0].(map[string]any)
	if item["areaCode"] != "1" || item["areaName"] != "서울" {
		t.Fatalf("expected areaCode/areaName, got %#v", item)
	}
}

func TestSummaryEmptyTopsAreArrays(t *testing.T) {
	status, body := serve(t, fakeStatsService{}, "/api/v1/stats/summary")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if tops, ok := body["topRegions"].([]any); !ok || len(tops) != 0 {
		t.Fatalf("expected empty topRegions array, got %#v", body["topRegions"])
	}
}

func TestCancelledAggregation(t *testing.T) {
	status, body := serve(t, fakeStatsService{err: context.Canceled}, "/api/v1/stats/summary")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["code"] != "cancelled" {
		t.Fatalf("expected cancelled, got %#v", body["code"])
	}
}

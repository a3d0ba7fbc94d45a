package tour

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"mytrip_backend/internal/tourapi"
	"mytrip_backend/platform/httpkit"
)

type fakeTourService struct {
	list   *tourapi.ListResult[tourapi.TourItem]
	detail *tourapi.CommonDetail
	intro  *tourapi.IntroDetail
	err    error

	lastSearch tourapi.SearchKeywordParams
}

func (f *fakeTourService) AreaCodes(context.Context, tourapi.AreaCodeParams) ([]tourapi.AreaCode, error) {
	return []tourapi.AreaCode{{Code: "1", Name: "서울"}}, f.err
}

func (f *fakeTourService) AreaBasedList(context.Context, tourapi.AreaBasedListParams) (*tourapi.ListResult[tourapi.TourItem], error) {
	return f.list, f.err
}

func (f *fakeTourService) SearchKeyword(_ context.Context, params tourapi.SearchKeywordParams) (*tourapi.ListResult[tourapi.TourItem], error) {
	f.lastSearch = params
	return f.list, f.err
}

func (f *fakeTourService) CommonDetail(context.Context, string) (*tourapi.CommonDetail, error) {
	return f.detail, f.err
}

func (f *fakeTourService) IntroDetail(context.Context, string, string) (*tourapi.IntroDetail, error) {
	return f.intro, f.err
}

func (f *fakeTourService) Images(context.Context, string) ([]tourapi.Image, error) {
	return nil, f.err
}

func (f *fakeTourService) PetTourInfo(context.Context, string) (*tourapi.PetTourInfo, error) {
	return nil, f.err
}

func newTestEngine(svc TourService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(httpkit.RequestID(nil))
	NewHandler(svc).register(engine.Group("/api/v1/tour"))
	return engine
}

func doGet(t *testing.T, engine *gin.Engine, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body, got %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestListPlacesReturnsEmptyArrayForEmptyPage(t *testing.T) {
	svc := &fakeTourService{list: &tourapi.ListResult[tourapi.TourItem]{TotalCountExact: true}}
	rec, body := doGet(t, newTestEngine(svc), "/api/v1/tour/places?areaCode=1")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items, ok := body["items"].([]any)
	if !ok || len(items) != 0 {
		t.Fatalf("expected empty items array, got %#v", body["items"])
	}
	if body["totalCountExact"] != true {
		t.Fatalf("expected totalCountExact true, got %#v", body["totalCountExact"])
	}
}

func TestListPlacesMapsCoordinates(t *testing.T) {
	svc := &fakeTourService{list: &tourapi.ListResult[tourapi.TourItem]{
		Items: []tourapi.TourItem{{
			ContentID:     "125266",
			ContentTypeID: "12",
			Title:         "경복궁",
			MapX:          "1269770162",
			MapY:          "375788407",
		}},
		TotalCount:      1,
		TotalCountExact: true,
	}}
	rec, body := doGet(t, newTestEngine(svc), "/api/v1/tour/places")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	item := body["items"].([]any)[0].(map[string]any)
	if item["contentTypeName"] != "관광지" {
		t.Fatalf("expected content type name, got %#v", item["contentTypeName"])
	}
	coords, ok := item["coordinates"].(map[string]any)
	if !ok {
		t.Fatalf("expected coordinates, got %#v", item["coordinates"])
	}
	if lng := coords["lng"].(float64); lng < 126.97 || lng > 126.98 {
		t.Fatalf("expected lng near 126.977, got %v", lng)
	}
}

func TestListPlacesRejectsBadQuery(t *testing.T) {
	rec, body := doGet(t, newTestEngine(&fakeTourService{}), "/api/v1/tour/places?arrange=Z")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["requestId"] == "" || body["requestId"] == nil {
		t.Fatalf("expected request id in error body, got %#v", body)
	}
}

func TestSearchBlankKeywordIsValidationError(t *testing.T) {
	svc := &fakeTourService{err: &tourapi.ValidationError{Op: "SearchKeyword", Fields: []string{"Keyword: notblank"}}}
	rec, body := doGet(t, newTestEngine(svc), "/api/v1/tour/search?keyword=%20%20")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["code"] != "invalid_parameters" {
		t.Fatalf("expected invalid_parameters, got %#v", body["code"])
	}
	if svc.lastSearch.Keyword != "  " {
		t.Fatalf("expected keyword passed through unchanged, got %q", svc.lastSearch.Keyword)
	}
}

func TestGetPlaceNotFoundWhenDetailEmpty(t *testing.T) {
	rec, body := doGet(t, newTestEngine(&fakeTourService{}), "/api/v1/tour/places/125266")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body["code"] != "not_found" {
		t.Fatalf("expected not_found, got %#v", body["code"])
	}
}

func TestGetPlaceReturnsDetail(t *testing.T) {
	svc := &fakeTourService{detail: &tourapi.CommonDetail{ContentID: "125266", Title: "경복궁", Overview: "조선의 법궁"}}
	rec, body := doGet(t, newTestEngine(svc), "/api/v1/tour/places/125266")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["title"] != "경복궁" || body["overview"] != "조선의 법궁" {
		t.Fatalf("expected detail fields, got %#v", body)
	}
}

func TestGetIntroMissingIsNull(t *testing.T) {
	rec, body := doGet(t, newTestEngine(&fakeTourService{}), "/api/v1/tour/places/125266/intro?contentTypeId=12")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if v, ok := body["intro"]; !ok || v != nil {
		t.Fatalf("expected null intro, got %#v", body)
	}
}

func TestUpstreamErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"auth", &tourapi.AuthError{Code: "30", Message: "SERVICE_KEY_IS_NOT_REGISTERED_ERROR"}, http.StatusBadGateway, "upstream_auth"},
		{"api", &tourapi.APIError{Code: "10", Message: "INVALID_REQUEST_PARAMETER_ERROR"}, http.StatusBadGateway, "upstream_error"},
		{"timeout", &tourapi.TimeoutError{Endpoint: "/areaBasedList2", Timeout: 10 * time.Second}, http.StatusGatewayTimeout, "upstream_timeout"},
		{"unavailable", &tourapi.UnavailableError{Endpoint: "/areaBasedList2"}, http.StatusServiceUnavailable, "upstream_unavailable"},
		{"parse", &tourapi.ParseError{Reason: "response is not valid JSON"}, http.StatusBadGateway, "upstream_parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doGet(t, newTestEngine(&fakeTourService{err: tt.err}), "/api/v1/tour/places")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if body["code"] != tt.code {
				t.Fatalf("expected code %s, got %#v", tt.code, body["code"])
			}
		})
	}
}

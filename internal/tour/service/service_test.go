package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"mytrip_backend/internal/tourapi"
)

type fakeUpstream struct {
	calls   atomic.Int32
	err     error
	delay   time.Duration
	details []tourapi.CommonDetail
}

func (f *fakeUpstream) AreaCodes(ctx context.Context, params tourapi.AreaCodeParams) ([]tourapi.AreaCode, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []tourapi.AreaCode{{Code: "1", Name: "서울", RNum: 1}}, nil
}

func (f *fakeUpstream) AreaBasedList(ctx context.Context, params tourapi.AreaBasedListParams) (*tourapi.ListResult[tourapi.TourItem], error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &tourapi.ListResult[tourapi.TourItem]{
		Items:           []tourapi.TourItem{{ContentID: "125266", Title: "경복궁", MapX: "1269769540", MapY: "375776830"}},
		TotalCount:      120,
		TotalCountExact: true,
		PageNo:          1,
		NumOfRows:       10,
	}, nil
}

func (f *fakeUpstream) SearchKeyword(ctx context.Context, params tourapi.SearchKeywordParams) (*tourapi.ListResult[tourapi.TourItem], error) {
	f.calls.Add(1)
	return &tourapi.ListResult[tourapi.TourItem]{Items: []tourapi.TourItem{}}, f.err
}

func (f *fakeUpstream) CommonDetail(ctx context.Context, contentID string) ([]tourapi.CommonDetail, error) {
	f.calls.Add(1)
	return f.details, f.err
}

func (f *fakeUpstream) IntroDetail(ctx context.Context, contentID, contentTypeID string) ([]tourapi.IntroDetail, error) {
	f.calls.Add(1)
	return []tourapi.IntroDetail{{ContentID: tourapi.FlexString(contentID), UseTime: "09:00~18:00"}}, f.err
}

func (f *fakeUpstream) Images(ctx context.Context, contentID string) ([]tourapi.Image, error) {
	f.calls.Add(1)
	return []tourapi.Image{}, f.err
}

func (f *fakeUpstream) PetTourInfo(ctx context.Context, contentID string) ([]tourapi.PetTourInfo, error) {
	f.calls.Add(1)
	return []tourapi.PetTourInfo{}, f.err
}

func TestServiceCachesResults(t *testing.T) {
	up := &fakeUpstream{}
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	svc := New(up, NewMemoryCache(), time.Minute, nil, metrics)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := svc.AreaBasedList(ctx, tourapi.AreaBasedListParams{AreaCode: "1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.TotalCount != 120 || !res.TotalCountExact || len(res.Items) != 1 || res.Items[0].Title != "경복궁" {
			t.Fatalf("unexpected result %+v", res)
		}
	}
	if up.calls.Load() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", up.calls.Load())
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("hit")); got != 2 {
		t.Fatalf("expected 2 hits, got %v", got)
	}

	if _, err := svc.AreaBasedList(ctx, tourapi.AreaBasedListParams{AreaCode: "2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.calls.Load() != 2 {
		t.Fatalf("expected a different key to miss, got %d calls", up.calls.Load())
	}
}

func TestServiceCachesEmptyDetail(t *testing.T) {
	up := &fakeUpstream{details: []tourapi.CommonDetail{}}
	svc := New(up, nil, time.Minute, nil, nil)

	for i := 0; i < 2; i++ {
		got, err := svc.CommonDetail(context.Background(), "999999")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil for unknown content, got %+v", got)
		}
	}
	if up.calls.Load() != 1 {
		t.Fatalf("expected empty result to be cached, got %d calls", up.calls.Load())
	}
}

func TestServiceDoesNotCacheErrors(t *testing.T) {
	up := &fakeUpstream{err: &tourapi.TimeoutError{Endpoint: "areaCode2", Timeout: time.Second}}
	svc := New(up, nil, time.Minute, nil, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.AreaCodes(context.Background(), tourapi.AreaCodeParams{})
		var timeoutErr *tourapi.TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatalf("expected TimeoutError, got %v", err)
		}
	}
	if up.calls.Load() != 2 {
		t.Fatalf("expected errors not to be cached, got %d calls", up.calls.Load())
	}
}

func TestServiceCollapsesConcurrentMisses(t *testing.T) {
	up := &fakeUpstream{delay: 50 * time.Millisecond}
	svc := New(up, nil, time.Minute, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AreaBasedList(context.Background(), tourapi.AreaBasedListParams{ContentTypeID: "12"}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if up.calls.Load() != 1 {
		t.Fatalf("expected concurrent misses to share one call, got %d", up.calls.Load())
	}
}

func TestServiceSharedLoadOutlivesCancelledCaller(t *testing.T) {
	up := &fakeUpstream{delay: 200 * time.Millisecond}
	svc := New(up, nil, time.Minute, nil, nil)
	params := tourapi.AreaBasedListParams{AreaCode: "1"}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.AreaBasedList(firstCtx, params)
		firstErr <- err
	}()

	deadline := time.Now().Add(time.Second)
	for up.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected the first caller to start a load")
		}
		time.Sleep(time.Millisecond)
	}

	secondDone := make(chan error, 1)
	go func() {
		res, err := svc.AreaBasedList(context.Background(), params)
		if err == nil && res.TotalCount != 120 {
			err = errors.New("unexpected result")
		}
		secondDone <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected first caller to be cancelled, got %v", err)
	}
	if err := <-secondDone; err != nil {
		t.Fatalf("expected second caller to get the shared result, got %v", err)
	}
	if up.calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", up.calls.Load())
	}

	if _, err := svc.AreaBasedList(context.Background(), params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.calls.Load() != 1 {
		t.Fatalf("expected the detached load to be cached, got %d calls", up.calls.Load())
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := cache.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, got %d", cache.Len())
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisCache(client, "tour:")
	up := &fakeUpstream{}
	svc := New(up, cache, time.Minute, nil, nil)
	ctx := context.Background()

	got, err := svc.IntroDetail(ctx, "125266", "12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.UseTime != "09:00~18:00" {
		t.Fatalf("unexpected intro %+v", got)
	}

	if !mr.Exists("tour:intro:125266:12") {
		t.Fatalf("expected value stored under prefixed key, keys: %v", mr.Keys())
	}
	if ttl := mr.TTL("tour:intro:125266:12"); ttl != time.Minute {
		t.Fatalf("expected ttl 1m, got %s", ttl)
	}

	again, err := svc.IntroDetail(ctx, "125266", "12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.UseTime != got.UseTime || up.calls.Load() != 1 {
		t.Fatalf("expected redis hit, got %+v after %d calls", again, up.calls.Load())
	}

	mr.FastForward(2 * time.Minute)
	if _, err := svc.IntroDetail(ctx, "125266", "12"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.calls.Load() != 2 {
		t.Fatalf("expected expiry to force a reload, got %d calls", up.calls.Load())
	}
}

func TestServiceSurvivesRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	up := &fakeUpstream{}
	svc := New(up, NewRedisCache(client, "tour:"), time.Minute, nil, nil)

	codes, err := svc.AreaCodes(context.Background(), tourapi.AreaCodeParams{})
	if err != nil {
		t.Fatalf("expected a cache outage to fall through, got %v", err)
	}
	if len(codes) != 1 || codes[0].Name != "서울" {
		t.Fatalf("unexpected codes %+v", codes)
	}
}

func TestDialRedisCacheRejectsBadURL(t *testing.T) {
	if _, err := DialRedisCache(context.Background(), "not a url", "tour:"); err == nil {
		t.Fatal("expected an error for a malformed url")
	}
}

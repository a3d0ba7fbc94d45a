package transport

import (
	"testing"

	"mytrip_backend/internal/tourapi"
)

func TestToPlaceDetailCleansMarkup(t *testing.T) {
	d := ToPlaceDetail(tourapi.CommonDetail{
		ContentID: "126508",
		Homepage:  `<a href="http://www.royalpalace.go.kr" target="_blank">www.royalpalace.go.kr</a>`,
		Overview:  "조선 왕조의 법궁<br>1395년 창건",
	})

	if d.Homepage != "http://www.royalpalace.go.kr" {
		t.Fatalf("expected homepage href, got %q", d.Homepage)
	}
	if d.Overview != "조선 왕조의 법궁\n1395년 창건" {
		t.Fatalf("expected plain overview, got %q", d.Overview)
	}
	if d.OverviewHTML == d.Overview {
		t.Fatal("expected raw overview kept separately")
	}
}

func TestToPlaceDropsUnusableCoordinates(t *testing.T) {
	if p := ToPlace(tourapi.TourItem{MapX: "0", MapY: "0"}); p.Coordinates != nil {
		t.Fatalf("expected nil coordinates for 0,0, got %+v", p.Coordinates)
	}
	if p := ToPlace(tourapi.TourItem{MapX: "abc", MapY: "375788407"}); p.Coordinates != nil {
		t.Fatalf("expected nil coordinates for unparsable mapx, got %+v", p.Coordinates)
	}
	p := ToPlace(tourapi.TourItem{MapX: "1269125690", MapY: "374933742"})
	if p.Coordinates == nil || p.Coordinates.Lat < 37.49 || p.Coordinates.Lat > 37.50 {
		t.Fatalf("expected lat near 37.4933742, got %+v", p.Coordinates)
	}
}

func TestToPlaceListKeepsEmptyItems(t *testing.T) {
	list := ToPlaceList(&tourapi.ListResult[tourapi.TourItem]{})
	if list.Items == nil || len(list.Items) != 0 {
		t.Fatalf("expected non-nil empty items, got %#v", list.Items)
	}
}

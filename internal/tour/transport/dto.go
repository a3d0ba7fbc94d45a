// Package transport provides DTOs for the tour domain.
package transport

import (
	"mytrip_backend/internal/tourapi"
	"mytrip_backend/platform/sanitize"
)

// ListPlacesRequest is the query of GET /tour/places.
type ListPlacesRequest struct {
	AreaCode      string `form:"areaCode" binding:"omitempty,numeric"`
	SigunguCode   string `form:"sigunguCode" binding:"omitempty,numeric"`
	ContentTypeID string `form:"contentTypeId" binding:"omitempty,numeric"`
	NumOfRows     int    `form:"numOfRows" binding:"omitempty,min=1,max=100"`
	PageNo        int    `form:"pageNo" binding:"omitempty,min=1"`
	Arrange       string `form:"arrange" binding:"omitempty,oneof=A B C D E"`
}

// SearchRequest is the query of GET /tour/search.
type SearchRequest struct {
	Keyword       string `form:"keyword"`
	AreaCode      string `form:"areaCode" binding:"omitempty,numeric"`
	ContentTypeID string `form:"contentTypeId" binding:"omitempty,numeric"`
	NumOfRows     int    `form:"numOfRows" binding:"omitempty,min=1,max=100"`
	PageNo        int    `form:"pageNo" binding:"omitempty,min=1"`
}

// AreasRequest is the query of GET /tour/areas.
type AreasRequest struct {
	AreaCode string `form:"areaCode" binding:"omitempty,numeric"`
}

// Coordinates is a decimal-degree point.
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Area is one area code entry.
type Area struct {
	Code string `json:"code"`
	Name string `json:"name"`
	RNum int    `json:"rnum"`
}

// Place is a listing entry.
type Place struct {
	ContentID       string       `json:"contentId"`
	ContentTypeID   string       `json:"contentTypeId"`
	ContentTypeName string       `json:"contentTypeName,omitempty"`
	Title           string       `json:"title"`
	Addr1           string       `json:"addr1"`
	Addr2           string       `json:"addr2,omitempty"`
	AreaCode        string       `json:"areaCode,omitempty"`
	SigunguCode     string       `json:"sigunguCode,omitempty"`
	FirstImage      string       `json:"firstImage,omitempty"`
	FirstImage2     string       `json:"firstImage2,omitempty"`
	Tel             string       `json:"tel,omitempty"`
	Cat1            string       `json:"cat1,omitempty"`
	Cat2            string       `json:"cat2,omitempty"`
	Cat3            string       `json:"cat3,omitempty"`
	ModifiedTime    string       `json:"modifiedTime,omitempty"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
}

// PlaceList is a page of places. TotalCount is a lower bound unless
// TotalCountExact is set.
type PlaceList struct {
	Items           []Place `json:"items"`
	TotalCount      int     `json:"totalCount"`
	TotalCountExact bool    `json:"totalCountExact"`
	PageNo          int     `json:"pageNo,omitempty"`
	NumOfRows       int     `json:"numOfRows,omitempty"`
}

// PlaceDetail is the common detail of a place. Overview and Homepage are
// plain text; OverviewHTML keeps the upstream markup.
type PlaceDetail struct {
	Place
	Zipcode      string `json:"zipcode,omitempty"`
	Homepage     string `json:"homepage,omitempty"`
	Overview     string `json:"overview,omitempty"`
	OverviewHTML string `json:"overviewHtml,omitempty"`
}

// Image is one image of a place.
type Image struct {
	OriginURL string `json:"originUrl"`
	SmallURL  string `json:"smallUrl"`
	SerialNum string `json:"serialNum,omitempty"`
	Name      string `json:"name,omitempty"`
}

// ToAreas converts area records.
func ToAreas(records []tourapi.AreaCode) []Area {
	out := make([]Area, 0, len(records))
	for _, r := range records {
		out = append(out, Area{Code: r.Code.String(), Name: r.Name, RNum: r.RNum.Int()})
	}
	return out
}

// ToPlace converts a listing record.
func ToPlace(item tourapi.TourItem) Place {
	return Place{
		ContentID:       item.ContentID.String(),
		ContentTypeID:   item.ContentTypeID.String(),
		ContentTypeName: tourapi.ContentTypeName(item.ContentTypeID.String()),
		Title:           item.Title,
		Addr1:           item.Addr1,
		Addr2:           item.Addr2,
		AreaCode:        item.AreaCode.String(),
		SigunguCode:     item.SigunguCode.String(),
		FirstImage:      item.FirstImage,
		FirstImage2:     item.FirstImage2,
		Tel:             item.Tel,
		Cat1:            item.Cat1,
		Cat2:            item.Cat2,
		Cat3:            item.Cat3,
		ModifiedTime:    item.ModifiedTime.String(),
		Coordinates:     toCoordinates(item.Coordinates()),
	}
}

// ToPlaceList converts a list result.
func ToPlaceList(res *tourapi.ListResult[tourapi.TourItem]) PlaceList {
	items := make([]Place, 0, len(res.Items))
	for _, item := range res.Items {
		items = append(items, ToPlace(item))
	}
	return PlaceList{
		Items:           items,
		TotalCount:      res.TotalCount,
		TotalCountExact: res.TotalCountExact,
		PageNo:          res.PageNo,
		NumOfRows:       res.NumOfRows,
	}
}

// ToPlaceDetail converts a common detail record.
func ToPlaceDetail(d tourapi.CommonDetail) PlaceDetail {
	return PlaceDetail{
		Place: Place{
			ContentID:       d.ContentID.String(),
			ContentTypeID:   d.ContentTypeID.String(),
			ContentTypeName: tourapi.ContentTypeName(d.ContentTypeID.String()),
			Title:           d.Title,
			Addr1:           d.Addr1,
			Addr2:           d.Addr2,
			AreaCode:        d.AreaCode.String(),
			SigunguCode:     d.SigunguCode.String(),
			FirstImage:      d.FirstImage,
			FirstImage2:     d.FirstImage2,
			Tel:             d.Tel,
			Cat1:            d.Cat1,
			Cat2:            d.Cat2,
			Cat3:            d.Cat3,
			ModifiedTime:    d.ModifiedTime.String(),
			Coordinates:     toCoordinates(d.Coordinates()),
		},
		Zipcode:      d.Zipcode.String(),
		Homepage:     sanitize.FirstHref(d.Homepage),
		Overview:     sanitize.Text(d.Overview),
		OverviewHTML: d.Overview,
	}
}

// ToImages converts image records.
func ToImages(records []tourapi.Image) []Image {
	out := make([]Image, 0, len(records))
	for _, r := range records {
		out = append(out, Image{
			OriginURL: r.OriginImgURL,
			SmallURL:  r.SmallImageURL,
			SerialNum: r.SerialNum.String(),
			Name:      r.ImgName,
		})
	}
	return out
}

// toCoordinates drops points that are not usable on a map.
func toCoordinates(c tourapi.Coordinates) *Coordinates {
	if !c.Valid() || (c.Lng == 0 && c.Lat == 0) {
		return nil
	}
	return &Coordinates{Lng: c.Lng, Lat: c.Lat}
}

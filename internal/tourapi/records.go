package tourapi

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// FlexString handles JSON values that can be either string or number. The
// upstream emits ids and codes both ways depending on the endpoint.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		*f = FlexString(str)
		return nil
	}
	if _, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
		*f = FlexString(trimmed)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexString", string(data))
}

func (f FlexString) String() string { return string(f) }

// FlexInt handles JSON integers that may arrive quoted.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}
	var num int
	if err := json.Unmarshal(trimmed, &num); err == nil {
		*f = FlexInt(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			*f = 0
			return nil
		}
		parsed, err := strconv.Atoi(str)
		if err != nil {
			return err
		}
		*f = FlexInt(parsed)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexInt", string(data))
}

func (f FlexInt) Int() int { return int(f) }

// RecordKind tags each record variant.
type RecordKind string

const (
	KindAreaCode     RecordKind = "area_code"
	KindTourItem     RecordKind = "tour_item"
	KindCommonDetail RecordKind = "common_detail"
	KindIntroDetail  RecordKind = "intro_detail"
	KindImage        RecordKind = "image"
	KindPetTourInfo  RecordKind = "pet_tour_info"
)

// Record is implemented by every response record variant.
type Record interface {
	RecordKind() RecordKind
}

// AreaCode is a province (or, with a parent area code, a district) from
// areaCode2.
type AreaCode struct {
	Code FlexString `json:"code"`
	Name string     `json:"name"`
	RNum FlexInt    `json:"rnum"`
}

func (AreaCode) RecordKind() RecordKind { return KindAreaCode }

// TourItem is a listing entry from areaBasedList2 and searchKeyword2.
type TourItem struct {
	ContentID     FlexString `json:"contentid"`
	ContentTypeID FlexString `json:"contenttypeid"`
	Title         string     `json:"title"`
	Addr1         string     `json:"addr1"`
	AreaCode      FlexString `json:"areacode"`
	MapX          FlexString `json:"mapx"`
	MapY          FlexString `json:"mapy"`
	ModifiedTime  FlexString `json:"modifiedtime"`

	Addr2       string     `json:"addr2,omitempty"`
	SigunguCode FlexString `json:"sigungucode,omitempty"`
	FirstImage  string     `json:"firstimage,omitempty"`
	FirstImage2 string     `json:"firstimage2,omitempty"`
	Tel         string     `json:"tel,omitempty"`
	Cat1        string     `json:"cat1,omitempty"`
	Cat2        string     `json:"cat2,omitempty"`
	Cat3        string     `json:"cat3,omitempty"`
	CreatedTime FlexString `json:"createdtime,omitempty"`
}

func (TourItem) RecordKind() RecordKind { return KindTourItem }

// Coordinates converts MapX/MapY to decimal degrees.
func (t TourItem) Coordinates() Coordinates {
	return ConvertCoordinates(t.MapX.String(), t.MapY.String())
}

// CommonDetail is the detailCommon2 record.
type CommonDetail struct {
	ContentID     FlexString `json:"contentid"`
	ContentTypeID FlexString `json:"contenttypeid"`
	Title         string     `json:"title"`
	Addr1         string     `json:"addr1"`
	MapX          FlexString `json:"mapx"`
	MapY          FlexString `json:"mapy"`

	Addr2        string     `json:"addr2,omitempty"`
	Zipcode      FlexString `json:"zipcode,omitempty"`
	Tel          string     `json:"tel,omitempty"`
	Homepage     string     `json:"homepage,omitempty"`
	Overview     string     `json:"overview,omitempty"`
	FirstImage   string     `json:"firstimage,omitempty"`
	FirstImage2  string     `json:"firstimage2,omitempty"`
	AreaCode     FlexString `json:"areacode,omitempty"`
	SigunguCode  FlexString `json:"sigungucode,omitempty"`
	Cat1         string     `json:"cat1,omitempty"`
	Cat2         string     `json:"cat2,omitempty"`
	Cat3         string     `json:"cat3,omitempty"`
	ModifiedTime FlexString `json:"modifiedtime,omitempty"`
	CreatedTime  FlexString `json:"createdtime,omitempty"`
}

func (CommonDetail) RecordKind() RecordKind { return KindCommonDetail }

func (d CommonDetail) Coordinates() Coordinates {
	return ConvertCoordinates(d.MapX.String(), d.MapY.String())
}

// IntroDetail is the detailIntro2 record. Which optional fields are filled
// depends on the content type.
type IntroDetail struct {
	ContentID     FlexString `json:"contentid"`
	ContentTypeID FlexString `json:"contenttypeid"`

	UseTime    string `json:"usetime,omitempty"`
	RestDate   string `json:"restdate,omitempty"`
	InfoCenter string `json:"infocenter,omitempty"`
	Parking    string `json:"parking,omitempty"`
	ChkPet     string `json:"chkpet,omitempty"`

	// Tourist spots (12).
	ExpAgeRange     string `json:"expagerange,omitempty"`
	ExpGuide        string `json:"expguide,omitempty"`
	AccomCount      string `json:"accomcount,omitempty"`
	ChkBabyCarriage string `json:"chkbabycarriage,omitempty"`
	ChkCreditCard   string `json:"chkcreditcard,omitempty"`

	// Cultural facilities (14).
	SpendTime    string `json:"spendtime,omitempty"`
	DiscountInfo string `json:"discountinfo,omitempty"`

	// Festivals (15).
	EventStartDate string `json:"eventstartdate,omitempty"`
	EventEndDate   string `json:"eventenddate,omitempty"`
	EventPlace     string `json:"eventplace,omitempty"`
	EventHomepage  string `json:"eventhomepage,omitempty"`
	Sponsor1       string `json:"sponsor1,omitempty"`
	Sponsor2       string `json:"sponsor2,omitempty"`
	Program        string `json:"program,omitempty"`

	// Accommodation (32).
	RoomCount      string `json:"roomcount,omitempty"`
	RoomType       string `json:"roomtype,omitempty"`
	ReservationURL string `json:"reservationurl,omitempty"`
	CheckInTime    string `json:"checkintime,omitempty"`
	CheckOutTime   string `json:"checkouttime,omitempty"`

	// Restaurants (39).
	FirstMenu string `json:"firstmenu,omitempty"`
	TreatMenu string `json:"treatmenu,omitempty"`
	Smoking   string `json:"smoking,omitempty"`
	Packing   string `json:"packing,omitempty"`
	Seat      string `json:"seat,omitempty"`
}

func (IntroDetail) RecordKind() RecordKind { return KindIntroDetail }

// Image is a detailImage2 record.
type Image struct {
	ContentID     FlexString `json:"contentid"`
	OriginImgURL  string     `json:"originimgurl"`
	SmallImageURL string     `json:"smallimageurl"`

	SerialNum FlexString `json:"serialnum,omitempty"`
	ImgName   string     `json:"imgname,omitempty"`
}

func (Image) RecordKind() RecordKind { return KindImage }

// PetTourInfo is a detailPetTour2 record.
type PetTourInfo struct {
	ContentID     FlexString `json:"contentid"`
	ContentTypeID FlexString `json:"contenttypeid"`

	ChkPetLeash string `json:"chkpetleash,omitempty"`
	ChkPetSize  string `json:"chkpetsize,omitempty"`
	ChkPetPlace string `json:"chkpetplace,omitempty"`
	ChkPetFee   string `json:"chkpetfee,omitempty"`
	PetInfo     string `json:"petinfo,omitempty"`
	Parking     string `json:"parking,omitempty"`
}

func (PetTourInfo) RecordKind() RecordKind { return KindPetTourInfo }

// Content type ids.
const (
	ContentTypeTouristSpot      = "12"
	ContentTypeCulturalFacility = "14"
	ContentTypeFestival         = "15"
	ContentTypeTravelCourse     = "25"
	ContentTypeLeports          = "28"
	ContentTypeAccommodation    = "32"
	ContentTypeShopping         = "38"
	ContentTypeRestaurant       = "39"
)

// Named is a code with its display name.
type Named struct {
	Code string
	Name string
}

// ContentTypes lists the content types in upstream order.
var ContentTypes = []Named{
	{ContentTypeTouristSpot, "관광지"},
	{ContentTypeCulturalFacility, "문화시설"},
	{ContentTypeFestival, "축제/행사"},
	{ContentTypeTravelCourse, "여행코스"},
	{ContentTypeLeports, "레포츠"},
	{ContentTypeAccommodation, "숙박"},
	{ContentTypeShopping, "쇼핑"},
	{ContentTypeRestaurant, "음식점"},
}

// Provinces lists the 17 top-level area codes.
var Provinces = []Named{
	{"1", "서울"},
	{"2", "인천"},
	{"3", "대전"},
	{"4", "대구"},
	{"5", "광주"},
	{"6", "부산"},
	{"7", "울산"},
	{"8", "세종"},
	{"31", "경기"},
	{"32", "강원"},
	{"33", "충북"},
	{"34", "충남"},
	{"35", "경북"},
	{"36", "경남"},
	{"37", "전북"},
	{"38", "전남"},
	{"39", "제주"},
}

// ContentTypeName returns the display name of a content type id, or "".
func ContentTypeName(id string) string {
	for _, ct := range ContentTypes {
		if ct.Code == id {
			return ct.Name
		}
	}
	return ""
}

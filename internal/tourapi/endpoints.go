package tourapi

import "context"

const (
	endpointAreaCode      = "/areaCode2"
	endpointAreaBasedList = "/areaBasedList2"
	endpointSearchKeyword = "/searchKeyword2"
	endpointDetailCommon  = "/detailCommon2"
	endpointDetailIntro   = "/detailIntro2"
	endpointDetailImage   = "/detailImage2"
	endpointDetailPetTour = "/detailPetTour2"
)

// Sort orders accepted by the list endpoints.
const (
	ArrangeTitle    = "A"
	ArrangeViews    = "B"
	ArrangeModified = "C"
	ArrangeCreated  = "D"
	ArrangeDistance = "E"
)

// AreaCodeParams selects provinces, or the districts of AreaCode when set.
type AreaCodeParams struct {
	AreaCode  string `validate:"omitempty,numeric"`
	NumOfRows int    `validate:"gte=0,lte=1000"`
	PageNo    int    `validate:"gte=0"`
}

// AreaBasedListParams filters the area-based listing.
type AreaBasedListParams struct {
	AreaCode      string `validate:"omitempty,numeric"`
	SigunguCode   string `validate:"omitempty,numeric"`
	ContentTypeID string `validate:"omitempty,numeric"`
	NumOfRows     int    `validate:"gte=0,lte=1000"`
	PageNo        int    `validate:"gte=0"`
	Arrange       string `validate:"omitempty,oneof=A B C D E"`
}

// SearchKeywordParams filters a keyword search. Keyword is required.
type SearchKeywordParams struct {
	Keyword       string `validate:"required,notblank"`
	AreaCode      string `validate:"omitempty,numeric"`
	ContentTypeID string `validate:"omitempty,numeric"`
	NumOfRows     int    `validate:"gte=0,lte=1000"`
	PageNo        int    `validate:"gte=0"`
}

type contentRef struct {
	ContentID     string `validate:"required,numeric"`
	ContentTypeID string `validate:"omitempty,numeric"`
}

type introRef struct {
	ContentID     string `validate:"required,numeric"`
	ContentTypeID string `validate:"required,numeric"`
}

// ListResult is a page of a list endpoint.
type ListResult[T any] struct {
	Items []T
	// TotalCount is the upstream total when TotalCountExact is set.
	// Otherwise it is len(Items): a lower bound that is wrong for page-count
	// math beyond the first page.
	TotalCount      int
	TotalCountExact bool
	PageNo          int
	NumOfRows       int
}

// AreaCodes returns area codes (default 100 rows, page 1).
func (c *Client) AreaCodes(ctx context.Context, params AreaCodeParams) ([]AreaCode, error) {
	if err := c.validateParams("area codes", params); err != nil {
		return nil, err
	}

	req := newAPIRequest(endpointAreaCode).
		addParam("areaCode", params.AreaCode).
		addIntParam("numOfRows", orDefault(params.NumOfRows, 100)).
		addIntParam("pageNo", orDefault(params.PageNo, 1))

	records, _, err := fetchRecords[AreaCode](ctx, c, req)
	return records, err
}

// AreaBasedList returns listings for an area and content type (default 10
// rows, page 1, sorted by title).
func (c *Client) AreaBasedList(ctx context.Context, params AreaBasedListParams) (*ListResult[TourItem], error) {
	if err := c.validateParams("area based list", params); err != nil {
		return nil, err
	}

	arrange := params.Arrange
	if arrange == "" {
		arrange = ArrangeTitle
	}

	req := newAPIRequest(endpointAreaBasedList).
		addParam("areaCode", params.AreaCode).
		addParam("sigunguCode", params.SigunguCode).
		addParam("contentTypeId", params.ContentTypeID).
		addIntParam("numOfRows", orDefault(params.NumOfRows, 10)).
		addIntParam("pageNo", orDefault(params.PageNo, 1)).
		addParam("arrange", arrange)

	return fetchList[TourItem](ctx, c, req)
}

// SearchKeyword searches listings by keyword (default 10 rows, page 1).
func (c *Client) SearchKeyword(ctx context.Context, params SearchKeywordParams) (*ListResult[TourItem], error) {
	if err := c.validateParams("search keyword", params); err != nil {
		return nil, err
	}

	req := newAPIRequest(endpointSearchKeyword).
		addParam("keyword", params.Keyword).
		addParam("areaCode", params.AreaCode).
		addParam("contentTypeId", params.ContentTypeID).
		addIntParam("numOfRows", orDefault(params.NumOfRows, 10)).
		addIntParam("pageNo", orDefault(params.PageNo, 1))

	return fetchList[TourItem](ctx, c, req)
}

// CommonDetail returns the common detail record of contentID. An empty
// slice means the content does not exist.
func (c *Client) CommonDetail(ctx context.Context, contentID string) ([]CommonDetail, error) {
	if err := c.validateParams("common detail", contentRef{ContentID: contentID}); err != nil {
		return nil, err
	}

	req := newAPIRequest(endpointDetailCommon).
		addParam("contentId", contentID).
		addFlag("defaultYN").
		addFlag("firstImageYN").
		addFlag("areacodeYN").
		addFlag("catcodeYN").
		addFlag("mapinfoYN").
		addFlag("overviewYN")

	records, _, err := fetchRecords[CommonDetail](ctx, c, req)
	return records, err
}

// IntroDetail returns the type-specific intro record of contentID.
func (c *Client) IntroDetail(ctx context.Context, contentID, contentTypeID string) ([]IntroDetail, error) {
	if err := c.validateParams("intro detail", introRef{ContentID: contentID, ContentTypeID: contentTypeID}); err != nil {
		return nil, err
	}

	req := newAPIRequest(endpointDetailIntro).
		addParam("contentId", contentID).
		addParam("contentTypeId", contentTypeID)

	records, _, err := fetchRecords[IntroDetail](ctx, c, req)
	return records, err
}

// Images returns the images of contentID.
func (c *Client) Images(ctx context.Context, contentID string) ([]Image, error) {
	if err := c.validateParams("images", contentRef{ContentID: contentID}); err != nil {
		return nil, err
	}

	req := newAPIRequest(endpointDetailImage).
		addParam("contentId", contentID).
		addFlag("imageYN").
		addFlag("subImageYN")

	records, _, err := fetchRecords[Image](ctx, c, req)
	return records, err
}

// PetTourInfo returns pet travel information for contentID.
func (c *Client) PetTourInfo(ctx context.Context, contentID string) ([]PetTourInfo, error) {
	if err := c.validateParams("pet tour info", contentRef{ContentID: contentID}); err != nil {
		return nil, err
	}

	req := newAPIRequest(endpointDetailPetTour).
		addParam("contentId", contentID)

	records, _, err := fetchRecords[PetTourInfo](ctx, c, req)
	return records, err
}

// fetchRecords fetches req and decodes its items into T. Decoding runs inside
// the retried operation, so an item in an unexpected layout is retried like
// any other parse failure.
func fetchRecords[T any](ctx context.Context, c *Client, req *apiRequest) ([]T, *Normalized, error) {
	var records []T
	n, err := c.fetch(ctx, req, func(n *Normalized) error {
		var err error
		records, err = decodeRecords[T](n.Items)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return records, n, nil
}

func fetchList[T any](ctx context.Context, c *Client, req *apiRequest) (*ListResult[T], error) {
	items, n, err := fetchRecords[T](ctx, c, req)
	if err != nil {
		return nil, err
	}

	out := &ListResult[T]{
		Items:      items,
		TotalCount: len(items),
		PageNo:     n.PageNo,
		NumOfRows:  n.NumOfRows,
	}
	if n.HasTotalCount {
		out.TotalCount = n.TotalCount
		out.TotalCountExact = true
	}
	return out, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

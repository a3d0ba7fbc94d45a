package tourapi

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// SuccessCode is the result code of a successful call.
const SuccessCode = "0000"

// maxExcerpt bounds diagnostic excerpts of upstream bodies.
const maxExcerpt = 500

// Shape names the body layout the items were found in.
type Shape string

const (
	ShapeItemsItem Shape = "items.item"
	ShapeItems     Shape = "items"
	ShapeItem      Shape = "item"
	ShapeBody      Shape = "body"
	ShapeEmpty     Shape = "empty"
	ShapeUnknown   Shape = "unknown"
)

// authCodes is the credential-rejection family. Codes are matched by
// substring since the upstream is not consistent about prefixes and suffixes.
var authCodes = []string{
	"SERVICE_KEY_NOT_REGISTERED_ERROR",
	"SERVICE_KEY_IS_NOT_REGISTERED_ERROR",
	"SERVICE_KEY_IS_NULL",
	"SERVICE_KEY_IS_EMPTY",
	"INVALID_SERVICE_KEY",
	"AUTHENTICATION_FAILED",
}

// Normalized is a successful envelope reduced to its item sequence.
type Normalized struct {
	// Items is never nil. A bare object in the body is folded into a
	// one-element slice.
	Items []json.RawMessage

	// TotalCount is only meaningful when HasTotalCount is set.
	TotalCount    int
	HasTotalCount bool
	NumOfRows     int
	PageNo        int

	Shape Shape
	// Diagnostic holds a body excerpt when Shape is ShapeUnknown.
	Diagnostic string
}

type envelopeHeader struct {
	ResultCode *FlexString `json:"resultCode"`
	ResultMsg  string      `json:"resultMsg"`
}

type envelopeCounts struct {
	TotalCount *FlexInt `json:"totalCount"`
	NumOfRows  *FlexInt `json:"numOfRows"`
	PageNo     *FlexInt `json:"pageNo"`
}

// Normalize validates a KorService2 envelope and extracts its items.
//
// Malformed JSON, a missing response object and a missing header or result
// code are *ParseError. A non-success result code is *AuthError or
// *APIError. A missing body, or a body in none of the known layouts, is an
// empty result rather than an error.
func Normalize(raw []byte) (*Normalized, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		if !json.Valid(raw) {
			return nil, &ParseError{Reason: "response is not valid JSON", Excerpt: excerpt(raw), Err: err}
		}
		return nil, &ParseError{Reason: "unexpected envelope shape: top level is not an object", Excerpt: excerpt(raw)}
	}
	if !present(top["response"]) {
		return nil, &ParseError{Reason: "unexpected envelope shape: no response object", Excerpt: excerpt(raw)}
	}

	response, ok := asObject(top["response"])
	if !ok {
		return nil, &ParseError{Reason: "unexpected envelope shape: response is not an object", Excerpt: excerpt(raw)}
	}

	if !present(response["header"]) {
		return nil, &ParseError{Reason: "envelope has no header", Excerpt: excerpt(raw)}
	}

	var header envelopeHeader
	if err := json.Unmarshal(response["header"], &header); err != nil {
		return nil, &ParseError{Reason: "malformed envelope header", Excerpt: excerpt(raw), Err: err}
	}
	if header.ResultCode == nil || header.ResultCode.String() == "" {
		return nil, &ParseError{Reason: "envelope header has no result code", Excerpt: excerpt(raw)}
	}

	if err := classifyResult(header.ResultCode.String(), header.ResultMsg); err != nil {
		return nil, err
	}

	out := &Normalized{Items: []json.RawMessage{}, Shape: ShapeEmpty}

	body := response["body"]
	if !present(body) {
		return out, nil
	}

	bodyObj, isObj := asObject(body)
	if isObj {
		var counts envelopeCounts
		if err := json.Unmarshal(body, &counts); err == nil {
			if counts.TotalCount != nil {
				out.TotalCount = counts.TotalCount.Int()
				out.HasTotalCount = true
			}
			if counts.NumOfRows != nil {
				out.NumOfRows = counts.NumOfRows.Int()
			}
			if counts.PageNo != nil {
				out.PageNo = counts.PageNo.Int()
			}
		}
	}

	value, shape := probeItems(body, bodyObj, isObj)
	if shape == ShapeUnknown {
		// A zero count with a placeholder items value is how the upstream
		// reports an empty page.
		if out.HasTotalCount && out.TotalCount == 0 {
			return out, nil
		}
		out.Shape = ShapeUnknown
		out.Diagnostic = excerpt(body)
		return out, nil
	}

	items, err := flatten(value)
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("malformed %s array", shape), Excerpt: excerpt(body), Err: err}
	}
	out.Items = items
	out.Shape = shape
	return out, nil
}

// probeItems tries body.items.item, body.items as an array, body.item and
// body as an array, in that order.
func probeItems(body json.RawMessage, bodyObj map[string]json.RawMessage, isObj bool) (json.RawMessage, Shape) {
	if isObj {
		if items, ok := asObject(bodyObj["items"]); ok && present(items["item"]) {
			return items["item"], ShapeItemsItem
		}
		if isArray(bodyObj["items"]) {
			return bodyObj["items"], ShapeItems
		}
		if present(bodyObj["item"]) {
			return bodyObj["item"], ShapeItem
		}
	}
	if isArray(body) {
		return body, ShapeBody
	}
	return nil, ShapeUnknown
}

// IsAuthCode reports whether code belongs to the credential-rejection family.
func IsAuthCode(code string) bool {
	for _, c := range authCodes {
		if strings.Contains(code, c) {
			return true
		}
	}
	return strings.Contains(code, "KEY") && strings.Contains(code, "ERROR")
}

func classifyResult(code, msg string) error {
	if code == SuccessCode {
		return nil
	}
	if IsAuthCode(code) {
		return &AuthError{Code: code, Message: msg}
	}
	return &APIError{Code: code, Message: msg}
}

// flatten returns the elements of an array, or value itself as the only
// element.
func flatten(value json.RawMessage) ([]json.RawMessage, error) {
	if !isArray(value) {
		return []json.RawMessage{value}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}

// present reports whether raw holds a value other than null or "".
func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	return !bytes.Equal(trimmed, []byte("null")) && !bytes.Equal(trimmed, []byte(`""`))
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// decodeRecords decodes each item into T.
func decodeRecords[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("item %d has an unexpected layout", i), Excerpt: excerpt(item), Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

// excerpt returns at most maxExcerpt bytes of b without splitting a rune.
func excerpt(b []byte) string {
	if len(b) <= maxExcerpt {
		return string(b)
	}
	cut := maxExcerpt
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut]) + "..."
}

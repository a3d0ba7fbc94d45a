package tourapi

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	mobileOS     = "ETC"
	responseType = "json"
)

// apiRequest holds the endpoint-specific part of a KorService2 request.
type apiRequest struct {
	endpoint string
	params   url.Values
}

func newAPIRequest(endpoint string) *apiRequest {
	return &apiRequest{
		endpoint: endpoint,
		params:   url.Values{},
	}
}

// addParam adds a parameter unless value is empty.
func (r *apiRequest) addParam(key, value string) *apiRequest {
	if value != "" {
		r.params.Set(key, value)
	}
	return r
}

// addIntParam adds an integer parameter unless value is not positive.
func (r *apiRequest) addIntParam(key string, value int) *apiRequest {
	if value > 0 {
		r.params.Set(key, strconv.Itoa(value))
	}
	return r
}

// addFlag sets one of the upstream's Y/N switches to Y.
func (r *apiRequest) addFlag(key string) *apiRequest {
	r.params.Set(key, "Y")
	return r
}

// query returns the full query string: the common parameters followed by the
// endpoint parameters. Keys are sorted, so the result is deterministic.
func (r *apiRequest) query(cred Credential, mobileApp string) string {
	params := url.Values{}
	params.Set("serviceKey", string(cred))
	params.Set("MobileOS", mobileOS)
	params.Set("MobileApp", mobileApp)
	params.Set("_type", responseType)

	for key, values := range r.params {
		if key == "serviceKey" || key == "MobileOS" || key == "MobileApp" || key == "_type" {
			continue
		}
		for _, v := range values {
			params.Add(key, v)
		}
	}

	return params.Encode()
}

// buildURL joins the base URL, endpoint path and query.
func (r *apiRequest) buildURL(baseURL string, cred Credential, mobileApp string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(r.endpoint, "/") + "?" + r.query(cred, mobileApp)
}

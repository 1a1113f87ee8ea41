package wire

import (
	"net/http"
	"strconv"
)

// ResponseMeta is the metadata of a read response that matters to the
// caller's session and cache state.
type ResponseMeta struct {
	StatusCode    int
	ETag          string
	SessionToken  string
	NotModified   bool
	RequestCharge float64
	ActivityID    string
}

// ParseResponse extracts metadata from resp. The session token is returned
// raw; parsing it is the session layer's job.
func ParseResponse(resp *http.Response) ResponseMeta {
	meta := ResponseMeta{
		StatusCode:   resp.StatusCode,
		ETag:         resp.Header.Get(HeaderETag),
		SessionToken: resp.Header.Get(HeaderSessionToken),
		NotModified:  resp.StatusCode == http.StatusNotModified,
		ActivityID:   resp.Header.Get(HeaderActivityID),
	}

	if charge, err := strconv.ParseFloat(resp.Header.Get(HeaderRequestCharge), 64); err == nil {
		meta.RequestCharge = charge
	}

	return meta
}

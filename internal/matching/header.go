package matching

import (
	"mime"
	"net/http"
	"strings"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// MatchHeader checks if a header matches.
// Header names are case-insensitive (RFC 9110), values are exact. A
// Content-Type expectation without parameters compares media types only, so
// "multipart/form-data" matches whatever boundary the transport picked.
func MatchHeader(p mock.Param, headers http.Header) bool {
	values := headers.Values(p.Name)
	if len(values) == 0 {
		return false
	}

	mediaTypeOnly := strings.EqualFold(p.Name, "Content-Type") && !strings.Contains(p.Value, ";")
	for _, v := range values {
		if v == p.Value {
			return true
		}
		if mediaTypeOnly && SameMediaType(p.Value, v) {
			return true
		}
	}
	return false
}

// SameMediaType compares two Content-Type values ignoring parameters and case.
func SameMediaType(a, b string) bool {
	ma, _, errA := mime.ParseMediaType(a)
	mb, _, errB := mime.ParseMediaType(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return ma == mb
}

package matching

import (
	"net/url"

	"github.com/daFish/functional-test-helpers/pkg/mock"
)

// MatchQueryParam checks that the query string carries p.Value for p.Name.
// Repeated parameters match when any of their values equals p.Value.
func MatchQueryParam(p mock.Param, params url.Values) bool {
	for _, v := range params[p.Name] {
		if v == p.Value {
			return true
		}
	}
	return false
}

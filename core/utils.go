package core

import (
	"fmt"
	urlpkg "net/url"
)

// convertMapToQuery converts a map[string]any to a URL query string.
// Values are stringified using fmt.Sprint; keys are emitted in the
// deterministic order produced by url.Values.Encode (sorted).
func convertMapToQuery(params Params) string {
	values := urlpkg.Values{}
	for k, v := range params {
		values.Set(k, fmt.Sprint(v))
	}
	return values.Encode()
}

// Package cache provides an optional Redis-backed response cache for
// reference-data endpoints. Categories, attributes, VAT rates and the
// other lookup tables do not change within an export run, so repeated
// runs against the same shop can skip those calls entirely and spend
// the API call budget on products and variations.
package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies one cached response.
type Key struct {
	// Endpoint is the REST path, e.g. "items/attributes".
	Endpoint string

	// Query are the request parameters, pagination excluded.
	Query url.Values

	// Pagination overrides active for the call.
	Page         int
	ItemsPerPage int
}

// String generates a deterministic Redis key.
// Format: plenty:endpoint:param1=val1:param2=val2:page=1:per=100
func (k Key) String() string {
	parts := []string{"plenty", strings.Trim(k.Endpoint, "/")}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Query.Get(name)))
		}
	}

	if k.Page > 0 {
		parts = append(parts, fmt.Sprintf("page=%d", k.Page))
	}
	if k.ItemsPerPage > 0 {
		parts = append(parts, fmt.Sprintf("per=%d", k.ItemsPerPage))
	}

	return strings.Join(parts, ":")
}

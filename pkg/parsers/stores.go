package parsers

import (
	"fmt"
	"strconv"

	"github.com/catalogport/plenty-export/pkg/plenty"
)

// Stores holds the configured webstores. Unlike the other parsers it
// consumes the bare webstores array, not a paginated envelope.
type Stores struct {
	stores []plenty.Webstore
}

// NewStores wraps an already fetched webstore list.
func NewStores(stores []plenty.Webstore) *Stores {
	return &Stores{stores: stores}
}

// ByStoreIdentifier returns the webstore whose store identifier (the
// "plenty id" used by variation client links) matches.
func (s *Stores) ByStoreIdentifier(plentyID int) (plenty.Webstore, error) {
	for _, store := range s.stores {
		if store.StoreIdentifier == plentyID {
			return store, nil
		}
	}
	return plenty.Webstore{}, fmt.Errorf("no webstore with store identifier %d", plentyID)
}

// First returns the first configured webstore.
func (s *Stores) First() (plenty.Webstore, error) {
	if len(s.stores) == 0 {
		return plenty.Webstore{}, fmt.Errorf("no webstores configured")
	}
	return s.stores[0], nil
}

// ConfigValue reads one key of a store's configuration map, stringified
// the way the API mixes numbers and strings. Missing keys degrade to an
// empty value.
func (s *Stores) ConfigValue(plentyID int, key string) string {
	store, err := s.ByStoreIdentifier(plentyID)
	if err != nil {
		return DefaultEmptyValue
	}
	value, ok := store.Configuration[key]
	if !ok || value == nil {
		return DefaultEmptyValue
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

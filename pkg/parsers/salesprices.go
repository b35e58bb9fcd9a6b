package parsers

import (
	"sort"

	"github.com/catalogport/plenty-export/pkg/plenty"
)

const (
	priceTypeDefault = "default"
	priceTypeRrp     = "rrp"
)

// SalesPrices maps sales-price configuration ids to their type, so the
// export can pick the default price id and the RRP id.
type SalesPrices struct {
	byType map[string][]int
}

// NewSalesPrices creates an empty sales-price parser.
func NewSalesPrices() *SalesPrices {
	return &SalesPrices{byType: make(map[string][]int)}
}

// Parse consumes one page of GET items/sales_prices.
func (s *SalesPrices) Parse(page *plenty.Page) error {
	if !page.HasEntries() {
		handleEmptyData("sales prices")
		return nil
	}

	entries, err := plenty.DecodeEntries[plenty.SalesPrice](page)
	if err != nil {
		return err
	}
	for _, price := range entries {
		s.byType[price.Type] = append(s.byType[price.Type], price.ID)
	}
	for _, ids := range s.byType {
		sort.Ints(ids)
	}
	return nil
}

// DefaultPrice returns the lowest configuration id of type "default",
// or zero when none was configured.
func (s *SalesPrices) DefaultPrice() int {
	return s.first(priceTypeDefault)
}

// DefaultRrp returns the lowest configuration id of type "rrp", or
// zero when none was configured.
func (s *SalesPrices) DefaultRrp() int {
	return s.first(priceTypeRrp)
}

func (s *SalesPrices) first(priceType string) int {
	ids := s.byType[priceType]
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}

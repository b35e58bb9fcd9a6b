package parsers

import (
	"fmt"

	"github.com/catalogport/plenty-export/pkg/countries"
	"github.com/catalogport/plenty-export/pkg/plenty"
)

// Vat maps VAT configuration ids to their rate for one country.
type Vat struct {
	countryID int
	rates     map[int]string // vatId -> rate
}

// NewVat creates a VAT parser scoped to the country with the given
// ISO 3166-1 alpha-2 code.
func NewVat(countryCode string) (*Vat, error) {
	countryID, ok := countries.IDByISO(countryCode)
	if !ok {
		return nil, fmt.Errorf("unknown country code %q", countryCode)
	}
	return &Vat{
		countryID: countryID,
		rates:     make(map[int]string),
	}, nil
}

// NewVatForCountryID creates a VAT parser for an already resolved
// Plentymarkets country id, as returned by the standard VAT endpoint.
func NewVatForCountryID(countryID int) *Vat {
	return &Vat{
		countryID: countryID,
		rates:     make(map[int]string),
	}
}

// CountryID returns the country the parser is scoped to.
func (v *Vat) CountryID() int {
	return v.countryID
}

// Parse consumes one page of GET vat. Only configurations for the
// scoped country contribute rates.
func (v *Vat) Parse(page *plenty.Page) error {
	if !page.HasEntries() {
		handleEmptyData("vat data")
		return nil
	}

	entries, err := plenty.DecodeEntries[plenty.VatCountry](page)
	if err != nil {
		return err
	}
	for _, country := range entries {
		if country.CountryID != v.countryID {
			continue
		}
		for _, rate := range country.VatRates {
			v.rates[rate.ID] = rate.VatRate
		}
	}
	return nil
}

// RateByID returns the configured rate for a variation's vatId, or an
// empty value for unknown ids.
func (v *Vat) RateByID(vatID int) string {
	if rate, ok := v.rates[vatID]; ok {
		return rate
	}
	return DefaultEmptyValue
}

// Package registry owns the reference-data parsers of one export run.
// It is populated once during initialization and read-only afterwards;
// a second Set for a kind is ignored so repeated initialization calls
// stay idempotent.
package registry

import (
	"strings"

	"github.com/catalogport/plenty-export/pkg/parsers"
)

// Kind names one slot of reference data. Lookups are case-insensitive.
type Kind string

func (k Kind) normalize() Kind {
	return Kind(strings.ToLower(string(k)))
}

const (
	KindCategories     Kind = "categories"
	KindAttributes     Kind = "attributes"
	KindVat            Kind = "vat"
	KindSalesPrices    Kind = "salesprices"
	KindManufacturers  Kind = "manufacturers"
	KindUnits          Kind = "units"
	KindPropertyGroups Kind = "propertygroups"
	KindStores         Kind = "stores"
)

// Registry holds exactly one value per reference-data kind. A nil
// lookup result means "not yet available" and callers degrade to
// empty output rather than failing.
type Registry struct {
	entries map[Kind]any
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[Kind]any)}
}

// Set registers a value under kind. The first writer wins; later
// writes for the same kind are no-ops.
func (r *Registry) Set(kind Kind, value any) {
	kind = kind.normalize()
	if _, ok := r.entries[kind]; ok {
		return
	}
	r.entries[kind] = value
}

// Get returns the registered value, or nil when absent.
func (r *Registry) Get(kind Kind) any {
	return r.entries[kind.normalize()]
}

// Categories returns the categories parser, or nil.
func (r *Registry) Categories() *parsers.Categories {
	v, _ := r.entries[KindCategories].(*parsers.Categories)
	return v
}

// Attributes returns the attributes parser, or nil.
func (r *Registry) Attributes() *parsers.Attributes {
	v, _ := r.entries[KindAttributes].(*parsers.Attributes)
	return v
}

// Vat returns the VAT parser, or nil.
func (r *Registry) Vat() *parsers.Vat {
	v, _ := r.entries[KindVat].(*parsers.Vat)
	return v
}

// SalesPrices returns the sales-price parser, or nil.
func (r *Registry) SalesPrices() *parsers.SalesPrices {
	v, _ := r.entries[KindSalesPrices].(*parsers.SalesPrices)
	return v
}

// Manufacturers returns the manufacturers parser, or nil.
func (r *Registry) Manufacturers() *parsers.Manufacturers {
	v, _ := r.entries[KindManufacturers].(*parsers.Manufacturers)
	return v
}

// Units returns the units parser, or nil.
func (r *Registry) Units() *parsers.Units {
	v, _ := r.entries[KindUnits].(*parsers.Units)
	return v
}

// PropertyGroups returns the property-group parser, or nil.
func (r *Registry) PropertyGroups() *parsers.PropertyGroups {
	v, _ := r.entries[KindPropertyGroups].(*parsers.PropertyGroups)
	return v
}

// Stores returns the webstore lookup, or nil.
func (r *Registry) Stores() *parsers.Stores {
	v, _ := r.entries[KindStores].(*parsers.Stores)
	return v
}

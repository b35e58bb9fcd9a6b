package registry

import (
	"testing"

	"github.com/catalogport/plenty-export/pkg/parsers"
)

func TestRegistry_FirstWriterWins(t *testing.T) {
	r := New()

	first := parsers.NewCategories("en")
	second := parsers.NewCategories("de")

	r.Set(KindCategories, first)
	r.Set(KindCategories, second)

	if got := r.Categories(); got != first {
		t.Error("Set() overwrote an existing entry, the first writer must win")
	}
}

func TestRegistry_KindIsCaseInsensitive(t *testing.T) {
	r := New()

	categories := parsers.NewCategories("en")
	r.Set(Kind("Categories"), categories)

	if got := r.Get(Kind("CATEGORIES")); got != categories {
		t.Error("Get() should resolve kinds regardless of case")
	}
	if got := r.Categories(); got != categories {
		t.Error("Categories() should see a value stored under a cased kind")
	}
}

func TestRegistry_GetAbsent(t *testing.T) {
	r := New()

	if got := r.Get(KindVat); got != nil {
		t.Errorf("Get() = %v, want nil for an absent kind", got)
	}
	if got := r.Vat(); got != nil {
		t.Errorf("Vat() = %v, want nil for an absent kind", got)
	}
}

func TestRegistry_TypedAccessors(t *testing.T) {
	r := New()

	categories := parsers.NewCategories("en")
	attributes := parsers.NewAttributes("en")
	vat := parsers.NewVatForCountryID(1)
	prices := parsers.NewSalesPrices()
	manufacturers := parsers.NewManufacturers()
	units := parsers.NewUnits()
	groups := parsers.NewPropertyGroups("en")
	stores := parsers.NewStores(nil)

	r.Set(KindCategories, categories)
	r.Set(KindAttributes, attributes)
	r.Set(KindVat, vat)
	r.Set(KindSalesPrices, prices)
	r.Set(KindManufacturers, manufacturers)
	r.Set(KindUnits, units)
	r.Set(KindPropertyGroups, groups)
	r.Set(KindStores, stores)

	if r.Categories() != categories {
		t.Error("Categories() did not return the registered parser")
	}
	if r.Attributes() != attributes {
		t.Error("Attributes() did not return the registered parser")
	}
	if r.Vat() != vat {
		t.Error("Vat() did not return the registered parser")
	}
	if r.SalesPrices() != prices {
		t.Error("SalesPrices() did not return the registered parser")
	}
	if r.Manufacturers() != manufacturers {
		t.Error("Manufacturers() did not return the registered parser")
	}
	if r.Units() != units {
		t.Error("Units() did not return the registered parser")
	}
	if r.PropertyGroups() != groups {
		t.Error("PropertyGroups() did not return the registered parser")
	}
	if r.Stores() != stores {
		t.Error("Stores() did not return the registered parser")
	}
}

func TestRegistry_WrongTypeDegradesToNil(t *testing.T) {
	r := New()
	r.Set(KindCategories, "not a parser")

	if got := r.Categories(); got != nil {
		t.Errorf("Categories() = %v, want nil when the slot holds another type", got)
	}
}

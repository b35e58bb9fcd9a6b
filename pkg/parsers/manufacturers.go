package parsers

import (
	"github.com/catalogport/plenty-export/pkg/plenty"
)

// Manufacturers maps manufacturer ids to their name.
type Manufacturers struct {
	names map[int]string
}

// NewManufacturers creates an empty manufacturers parser.
func NewManufacturers() *Manufacturers {
	return &Manufacturers{names: make(map[int]string)}
}

// Parse consumes one page of GET items/manufacturers.
func (m *Manufacturers) Parse(page *plenty.Page) error {
	if !page.HasEntries() {
		handleEmptyData("manufacturers")
		return nil
	}

	entries, err := plenty.DecodeEntries[plenty.Manufacturer](page)
	if err != nil {
		return err
	}
	for _, manufacturer := range entries {
		m.names[manufacturer.ID] = manufacturer.Name
	}
	return nil
}

// Name returns the manufacturer name, or an empty value.
func (m *Manufacturers) Name(manufacturerID int) string {
	if name, ok := m.names[manufacturerID]; ok {
		return name
	}
	return DefaultEmptyValue
}

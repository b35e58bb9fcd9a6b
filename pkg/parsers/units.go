package parsers

import (
	"github.com/catalogport/plenty-export/pkg/plenty"
)

// Units maps unit ids to their unit of measurement.
type Units struct {
	units map[int]string
}

// NewUnits creates an empty units parser.
func NewUnits() *Units {
	return &Units{units: make(map[int]string)}
}

// Parse consumes one page of GET items/units.
func (u *Units) Parse(page *plenty.Page) error {
	if !page.HasEntries() {
		handleEmptyData("units")
		return nil
	}

	entries, err := plenty.DecodeEntries[plenty.Unit](page)
	if err != nil {
		return err
	}
	for _, unit := range entries {
		u.units[unit.ID] = unit.UnitOfMeasurement
	}
	return nil
}

// UnitOfMeasurement returns the unit string, or an empty value.
func (u *Units) UnitOfMeasurement(unitID int) string {
	if unit, ok := u.units[unitID]; ok {
		return unit
	}
	return DefaultEmptyValue
}

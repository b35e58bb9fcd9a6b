// Package parsers holds the reference-data lookup tables built during
// export initialization: categories, attributes, VAT rates, units,
// sales-price ids, manufacturers, property groups and webstores. Each
// parser consumes response pages and afterwards answers id lookups;
// a missing id always degrades to an empty value, never an error,
// because products must survive incomplete reference data.
package parsers

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/catalogport/plenty-export/pkg/plenty"
)

// DefaultEmptyValue is returned by every lookup miss.
const DefaultEmptyValue = ""

// Parser consumes one response page of its reference data.
type Parser interface {
	Parse(page *plenty.Page) error
}

func normalizeLang(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

func sameLang(a, b string) bool {
	return normalizeLang(a) == normalizeLang(b)
}

func handleEmptyData(what string) {
	log.Debug().Msgf("No data provided for parsing %s.", what)
}

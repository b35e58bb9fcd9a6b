// Package countries maps ISO 3166-1 alpha-2 codes to the internal
// country ids used by the Plentymarkets VAT configuration.
package countries

import "strings"

var byISO = map[string]int{
	"DE": 1, "AT": 2, "BE": 3, "CH": 4, "CY": 5, "CZ": 6, "DK": 7,
	"ES": 8, "EE": 9, "FR": 10, "FI": 11, "GB": 12, "GR": 13, "HU": 14,
	"IT": 15, "IE": 16, "LU": 17, "LV": 18, "MT": 19, "NO": 20, "NL": 21,
	"PT": 22, "PL": 23, "SE": 24, "SG": 25, "SK": 26, "SI": 27, "US": 28,
	"AU": 29, "CA": 30, "CN": 31, "JP": 32, "LT": 33, "LI": 34, "MC": 35,
	"MX": 36, "IC": 37, "IN": 38, "BR": 39, "RU": 40, "RO": 41,
	"EA": 42, "BG": 44, "XZ": 45, "KG": 46, "KZ": 47, "BY": 48, "UZ": 49,
	"MA": 50, "AM": 51, "AL": 52, "EG": 53, "HR": 54, "MV": 55, "MY": 56,
	"HK": 57, "YE": 58, "IL": 59, "TW": 60, "GP": 61, "TH": 62, "TR": 63,
	"GF": 65, "GI": 66, "AF": 67, "AX": 68, "DZ": 69, "AS": 70, "AD": 71,
	"AO": 72, "AI": 73, "AQ": 74, "AG": 75, "AR": 76, "AW": 77, "AZ": 78,
	"BS": 79, "BH": 80, "BD": 81, "BB": 82, "BZ": 83, "BJ": 84, "BM": 85,
	"BT": 86, "BO": 87, "BA": 88, "BW": 89, "BV": 90, "IO": 91, "BN": 92,
	"BF": 93, "BI": 94, "KH": 95, "CM": 96, "CV": 97, "KY": 98, "CF": 99,
	"TD": 100, "CL": 101, "CX": 102, "CC": 103, "CO": 104, "KM": 105,
	"CG": 106, "CD": 107, "CK": 108, "CR": 109, "CI": 110, "CU": 111,
	"DJ": 112, "DM": 113, "DO": 114, "EC": 115, "SV": 116, "GQ": 117,
	"ER": 118, "ET": 119, "FK": 120, "FO": 121, "FJ": 122, "PF": 124,
	"UA": 233, "AE": 254,
}

// IDByISO returns the internal country id for an ISO code.
func IDByISO(code string) (int, bool) {
	id, ok := byISO[strings.ToUpper(strings.TrimSpace(code))]
	return id, ok
}

// ISOByID returns the ISO code for an internal country id.
func ISOByID(id int) (string, bool) {
	for code, countryID := range byISO {
		if countryID == id {
			return code, true
		}
	}
	return "", false
}

// Package transform holds the static lookup tables and code normalizers shared
// by the Census, BLS and education adapters.
package transform

import (
	"strings"
)

// UnknownState is returned by StateName for codes outside the table.
const UnknownState = "Unknown"

// stateFIPS maps USPS state abbreviations to 2-digit state FIPS codes.
var stateFIPS = map[string]string{
	"AL": "01", "AK": "02", "AZ": "04", "AR": "05", "CA": "06",
	"CO": "08", "CT": "09", "DE": "10", "DC": "11", "FL": "12",
	"GA": "13", "HI": "15", "ID": "16", "IL": "17", "IN": "18",
	"IA": "19", "KS": "20", "KY": "21", "LA": "22", "ME": "23",
	"MD": "24", "MA": "25", "MI": "26", "MN": "27", "MS": "28",
	"MO": "29", "MT": "30", "NE": "31", "NV": "32", "NH": "33",
	"NJ": "34", "NM": "35", "NY": "36", "NC": "37", "ND": "38",
	"OH": "39", "OK": "40", "OR": "41", "PA": "42", "RI": "44",
	"SC": "45", "SD": "46", "TN": "47", "TX": "48", "UT": "49",
	"VT": "50", "VA": "51", "WA": "53", "WV": "54", "WI": "55",
	"WY": "56", "PR": "72",
}

// fipsStateNames maps 2-digit state FIPS codes to state names.
var fipsStateNames = map[string]string{
	"01": "Alabama", "02": "Alaska", "04": "Arizona", "05": "Arkansas",
	"06": "California", "08": "Colorado", "09": "Connecticut", "10": "Delaware",
	"11": "District of Columbia", "12": "Florida", "13": "Georgia", "15": "Hawaii",
	"16": "Idaho", "17": "Illinois", "18": "Indiana", "19": "Iowa",
	"20": "Kansas", "21": "Kentucky", "22": "Louisiana", "23": "Maine",
	"24": "Maryland", "25": "Massachusetts", "26": "Michigan", "27": "Minnesota",
	"28": "Mississippi", "29": "Missouri", "30": "Montana", "31": "Nebraska",
	"32": "Nevada", "33": "New Hampshire", "34": "New Jersey", "35": "New Mexico",
	"36": "New York", "37": "North Carolina", "38": "North Dakota", "39": "Ohio",
	"40": "Oklahoma", "41": "Oregon", "42": "Pennsylvania", "44": "Rhode Island",
	"45": "South Carolina", "46": "South Dakota", "47": "Tennessee", "48": "Texas",
	"49": "Utah", "50": "Vermont", "51": "Virginia", "53": "Washington",
	"54": "West Virginia", "55": "Wisconsin", "56": "Wyoming", "72": "Puerto Rico",
}

// StateFIPS resolves a USPS abbreviation (any case) or a numeric FIPS code to
// the 2-digit state FIPS code.
func StateFIPS(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if fips, ok := stateFIPS[code]; ok {
		return fips, true
	}
	fips := NormalizeFIPSState(code)
	if _, ok := fipsStateNames[fips]; ok {
		return fips, true
	}
	return "", false
}

// StateName returns the state name for a 2-digit FIPS code, or UnknownState.
func StateName(fips string) string {
	if name, ok := fipsStateNames[NormalizeFIPSState(fips)]; ok {
		return name
	}
	return UnknownState
}

// NormalizeFIPSState normalizes a state FIPS code to 2 digits with zero-padding.
func NormalizeFIPSState(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if len(code) == 1 {
		return "0" + code
	}
	return code
}

// NormalizeFIPSCounty normalizes a county FIPS code to 3 digits with zero-padding.
func NormalizeFIPSCounty(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	for len(code) < 3 {
		code = "0" + code
	}
	return code
}

// AreaKind classifies the optional county/metro code of a lookup.
type AreaKind int

const (
	// AreaState means no sub-state code was given.
	AreaState AreaKind = iota
	// AreaCounty is a 3-digit county FIPS code.
	AreaCounty
	// AreaMetro is a 5-digit CBSA code.
	AreaMetro
)

// ClassifyArea decides whether code names a county or a metro area. Codes of
// 1-3 digits are counties, 5 digits are CBSAs; anything else falls back to the
// state.
func ClassifyArea(code string) (AreaKind, string) {
	code = strings.TrimSpace(code)
	if code == "" || !isDigits(code) {
		return AreaState, ""
	}
	switch {
	case len(code) <= 3:
		return AreaCounty, NormalizeFIPSCounty(code)
	case len(code) == 5:
		return AreaMetro, code
	default:
		return AreaState, ""
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

package canon

import (
	"regexp"
	"strings"
)

var rePunct = regexp.MustCompile(`[^A-Za-z0-9\s]`)

// JoinParts builds a street line from its components, skipping blanks so an empty
// unit never leaves a double space.
func JoinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// PropertyKey returns a stable identity for an address, ignoring unit/suite,
// punctuation, case and street-suffix spelling. Empty when line1 is empty.
func PropertyKey(line1, city, state, zip string) string {
	n1 := normalizeLine(line1)
	if n1 == "" {
		return ""
	}
	c := collapseSpaces(rePunct.ReplaceAllString(strings.ToUpper(strings.TrimSpace(city)), " "))
	return strings.ToLower(n1 + "|" + c + "|" + StateCode(state) + "|" + trimZIP(zip))
}

func normalizeLine(line1 string) string {
	n := strings.ToUpper(strings.TrimSpace(line1))
	n = stripUnit(n)
	n = rePunct.ReplaceAllString(n, " ")
	n = collapseSpaces(n)
	return abbreviateSuffix(n)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func trimZIP(z string) string {
	z = strings.TrimSpace(z)
	if len(z) >= 5 {
		return z[:5]
	}
	return z
}

func stripUnit(s string) string {
	up := " " + s + " "
	for _, t := range []string{" APT ", " UNIT ", " STE ", " SUITE ", " #"} {
		if i := strings.Index(up, t); i >= 0 {
			return strings.TrimSpace(up[:i])
		}
	}
	return strings.TrimSpace(s)
}

var suffixes = map[string]string{
	"STREET":    "ST",
	"ROAD":      "RD",
	"AVENUE":    "AVE",
	"BOULEVARD": "BLVD",
	"DRIVE":     "DR",
	"LANE":      "LN",
	"COURT":     "CT",
	"CIRCLE":    "CIR",
	"TERRACE":   "TER",
	"PLACE":     "PL",
	"PARKWAY":   "PKWY",
	"HIGHWAY":   "HWY",
	"WAY":       "WAY",
}

// abbreviateSuffix works token-wise so "STREETER RD" keeps its first word intact.
func abbreviateSuffix(s string) string {
	toks := strings.Fields(s)
	for i, t := range toks {
		if i == 0 {
			continue
		}
		if abbr, ok := suffixes[t]; ok {
			toks[i] = abbr
		}
	}
	return strings.Join(toks, " ")
}

var states = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR", "CALIFORNIA": "CA",
	"COLORADO": "CO", "CONNECTICUT": "CT", "DELAWARE": "DE", "FLORIDA": "FL", "GEORGIA": "GA",
	"HAWAII": "HI", "IDAHO": "ID", "ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA",
	"KANSAS": "KS", "KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME", "MARYLAND": "MD",
	"MASSACHUSETTS": "MA", "MICHIGAN": "MI", "MINNESOTA": "MN", "MISSISSIPPI": "MS",
	"MISSOURI": "MO", "MONTANA": "MT", "NEBRASKA": "NE", "NEVADA": "NV", "NEW HAMPSHIRE": "NH",
	"NEW JERSEY": "NJ", "NEW MEXICO": "NM", "NEW YORK": "NY", "NORTH CAROLINA": "NC",
	"NORTH DAKOTA": "ND", "OHIO": "OH", "OKLAHOMA": "OK", "OREGON": "OR", "PENNSYLVANIA": "PA",
	"RHODE ISLAND": "RI", "SOUTH CAROLINA": "SC", "SOUTH DAKOTA": "SD", "TENNESSEE": "TN",
	"TEXAS": "TX", "UTAH": "UT", "VERMONT": "VT", "VIRGINIA": "VA", "WASHINGTON": "WA",
	"WEST VIRGINIA": "WV", "WISCONSIN": "WI", "WYOMING": "WY",
}

// StateCode upper-cases a state and maps full names to USPS codes.
func StateCode(s string) string {
	st := collapseSpaces(strings.ToUpper(strings.TrimSpace(s)))
	if len(st) > 2 {
		if v, ok := states[st]; ok {
			return v
		}
	}
	return st
}

// Package vocab holds the shared provider and service alias tables.
//
// The source spreadsheet and ad-hoc queries spell the same vocabulary several
// ways ("Dasani", "DASANI", "dasani"). Both the ingestion normalizer and the
// filter parser canonicalize through these tables so the two pipelines always
// agree on field values.
package vocab

import "strings"

// providerAliases maps lower-cased variants to the canonical provider name.
var providerAliases = map[string]string{
	"coke":       "Coca-Cola",
	"cocacola":   "Coca-Cola",
	"coca cola":  "Coca-Cola",
	"coca-cola":  "Coca-Cola",
	"pepsi":      "Pepsi",
	"pepsico":    "Pepsi",
	"dasani":     "Dasani",
	"aramark":    "Aramark",
	"canteen":    "Canteen",
	"frito lay":  "Frito-Lay",
	"frito-lay":  "Frito-Lay",
	"fritolay":   "Frito-Lay",
	"nestle":     "Nestle",
	"snapple":    "Snapple",
	"dr pepper":  "Dr Pepper",
	"dr. pepper": "Dr Pepper",
}

// serviceAliases maps lower-cased variants to the canonical (lower-case)
// service token. Services are always stored lower-cased.
var serviceAliases = map[string]string{
	"snack":        "snacks",
	"snacks":       "snacks",
	"drink":        "drinks",
	"drinks":       "drinks",
	"beverage":     "drinks",
	"beverages":    "drinks",
	"soda":         "drinks",
	"water":        "water",
	"coffee":       "coffee",
	"hot drinks":   "coffee",
	"food":         "food",
	"fresh food":   "food",
	"candy":        "candy",
	"ice cream":    "ice cream",
	"energy drink": "drinks",
}

// CanonicalProvider resolves a provider value against the alias table,
// preserving the input casing when no alias is known.
func CanonicalProvider(raw string) string {
	if canonical, ok := providerAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return canonical
	}
	return strings.TrimSpace(raw)
}

// CanonicalService resolves a service token to its canonical lower-case form.
func CanonicalService(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := serviceAliases[key]; ok {
		return canonical
	}
	return key
}

// Package ingest turns spreadsheet rows into normalized vending machine
// documents and emits them as JSON and bulk-load NDJSON.
package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/campus-maps/vendmap/internal/domain/machine"
	"github.com/campus-maps/vendmap/internal/domain/vocab"
)

// Row is one raw spreadsheet row. Every cell arrives as text; normalization
// owns all type coercion.
type Row struct {
	ID             string
	StoreName      string
	Address        string
	City           string
	Zip            string
	Campus         string
	Status         string
	RoomNumber     string
	Provider       string
	Services       string
	PaymentMethods string
	SpecialAccess  string
	Rating         string
	Latitude       string
	Longitude      string
}

// listSeparators matches the delimiters spreadsheet authors use
// interchangeably inside multi-valued cells.
var listSeparators = regexp.MustCompile(`[/,;|]`)

// whitespaceRun collapses internal runs of whitespace to a single space.
var whitespaceRun = regexp.MustCompile(`\s+`)

// truthy is the accepted spelling set for boolean cells. Anything else,
// including empty, is false.
var truthy = map[string]bool{
	"true": true,
	"yes":  true,
	"y":    true,
	"1":    true,
}

// normalizeRow converts one raw row into a document. position is the 1-based
// row number and becomes the identifier when the id cell is empty. The row
// itself cannot fail normalization: malformed cells degrade to the field's
// documented default.
func normalizeRow(row Row, position int) machine.Document {
	doc := machine.Document{
		MachineID:      strings.TrimSpace(row.ID),
		StoreName:      collapseSpace(row.StoreName),
		Address:        collapseSpace(row.Address),
		City:           collapseSpace(row.City),
		Zip:            strings.TrimSpace(row.Zip),
		Campus:         collapseSpace(row.Campus),
		Status:         collapseSpace(row.Status),
		RoomNumber:     strings.TrimSpace(row.RoomNumber),
		Provider:       vocab.CanonicalProvider(row.Provider),
		Services:       splitList(row.Services, vocab.CanonicalService),
		PaymentMethods: splitList(row.PaymentMethods, strings.ToLower),
		SpecialAccess:  parseBool(row.SpecialAccess),
		Rating:         parseRating(row.Rating),
	}
	if doc.MachineID == "" {
		doc.MachineID = strconv.Itoa(position)
	}
	doc.Location = parseLocation(row.Latitude, row.Longitude)
	return doc
}

// splitList breaks a multi-valued cell on any of the accepted delimiters,
// collapses whitespace, normalizes each item through norm, and drops
// duplicates case-insensitively keeping the first occurrence.
func splitList(raw string, norm func(string) string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var items []string
	seen := make(map[string]bool)
	for _, part := range listSeparators.Split(raw, -1) {
		item := norm(collapseSpace(part))
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, item)
	}
	return items
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func parseBool(raw string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(raw))]
}

// parseRating reads an integer rating, defaulting to 0 for anything it
// cannot parse.
func parseRating(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// parseLocation accepts either bare decimal degrees or a degree value
// followed by a hemisphere letter ("40.01 N", "83.02 W"). South and west
// hemispheres negate the value. A location is only kept when both
// coordinates parse.
func parseLocation(latRaw, lonRaw string) *machine.Location {
	lat, ok := parseCoordinate(latRaw)
	if !ok {
		return nil
	}
	lon, ok := parseCoordinate(lonRaw)
	if !ok {
		return nil
	}
	return &machine.Location{Lat: lat, Lon: lon}
}

var coordinate = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*(?:°\s*)?([NSEWnsew])?$`)

func parseCoordinate(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	m := coordinate.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToUpper(m[2]) {
	case "S", "W":
		v = -v
	}
	return v, true
}

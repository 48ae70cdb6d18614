// Package machine defines the canonical vending-machine document shared by
// the ingestion and query pipelines.
package machine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ListSeparator joins multi-valued attributes in the flat hash encoding.
// Safe because list items are split on / , ; | during normalization and so
// can never contain a comma themselves.
const ListSeparator = ","

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Document is the canonical unit indexed and searched.
// Absent attributes are zero-valued and omitted from every encoding;
// a document never carries empty strings or empty lists.
type Document struct {
	MachineID      string    `json:"machine_id"`
	StoreName      string    `json:"store_name,omitempty"`
	Address        string    `json:"address,omitempty"`
	City           string    `json:"city,omitempty"`
	Zip            string    `json:"zip,omitempty"`
	Campus         string    `json:"campus,omitempty"`
	Status         string    `json:"status,omitempty"`
	SpecialAccess  bool      `json:"special_access"`
	Rating         int       `json:"rating"`
	PaymentMethods []string  `json:"payment_methods,omitempty"`
	RoomNumber     string    `json:"room_number,omitempty"`
	Services       []string  `json:"services,omitempty"`
	Provider       string    `json:"provider,omitempty"`
	Location       *Location `json:"location,omitempty"`
}

// Validate checks the document invariants.
func (d *Document) Validate() error {
	if d.MachineID == "" {
		return fmt.Errorf("machine_id is required")
	}
	if d.Location != nil {
		if !isFinite(d.Location.Lat) || !isFinite(d.Location.Lon) {
			return fmt.Errorf("machine %s: location must hold finite coordinates", d.MachineID)
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// HashFields flattens the document into the string fields stored in the
// search backend. Absent attributes produce no field at all.
func (d *Document) HashFields() map[string]string {
	fields := map[string]string{
		"machine_id":     d.MachineID,
		"special_access": strconv.FormatBool(d.SpecialAccess),
		"rating":         strconv.Itoa(d.Rating),
	}
	setIfPresent(fields, "store_name", d.StoreName)
	setIfPresent(fields, "address", d.Address)
	setIfPresent(fields, "city", d.City)
	setIfPresent(fields, "zip", d.Zip)
	setIfPresent(fields, "campus", d.Campus)
	setIfPresent(fields, "status", d.Status)
	setIfPresent(fields, "room_number", d.RoomNumber)
	setIfPresent(fields, "provider", d.Provider)
	if len(d.PaymentMethods) > 0 {
		fields["payment_methods"] = strings.Join(d.PaymentMethods, ListSeparator)
	}
	if len(d.Services) > 0 {
		fields["services"] = strings.Join(d.Services, ListSeparator)
	}
	if d.Location != nil {
		fields["location"] = FormatLocation(*d.Location)
	}
	return fields
}

func setIfPresent(fields map[string]string, key, value string) {
	if value != "" {
		fields[key] = value
	}
}

// FormatLocation encodes a location as "<lat>,<lon>".
func FormatLocation(loc Location) string {
	return strconv.FormatFloat(loc.Lat, 'f', -1, 64) +
		ListSeparator +
		strconv.FormatFloat(loc.Lon, 'f', -1, 64)
}

// ParseLocation decodes a "<lat>,<lon>" pair. Returns nil when the value
// does not parse to two finite floats: position unknown, not position zero.
func ParseLocation(s string) *Location {
	lat, lon, ok := strings.Cut(s, ListSeparator)
	if !ok {
		return nil
	}
	latF, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil || !isFinite(latF) {
		return nil
	}
	lonF, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil || !isFinite(lonF) {
		return nil
	}
	return &Location{Lat: latF, Lon: lonF}
}

// SplitList splits a stored multi-valued field back into its items.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ListSeparator)
}

// FromHashFields rebuilds a document from its flat hash encoding. It is the
// inverse of HashFields; unparseable boolean or numeric values fall back to
// their documented defaults.
func FromHashFields(fields map[string]string) Document {
	d := Document{
		MachineID:      fields["machine_id"],
		StoreName:      fields["store_name"],
		Address:        fields["address"],
		City:           fields["city"],
		Zip:            fields["zip"],
		Campus:         fields["campus"],
		Status:         fields["status"],
		RoomNumber:     fields["room_number"],
		Provider:       fields["provider"],
		PaymentMethods: SplitList(fields["payment_methods"]),
		Services:       SplitList(fields["services"]),
	}
	if v, err := strconv.ParseBool(fields["special_access"]); err == nil {
		d.SpecialAccess = v
	}
	if n, err := strconv.Atoi(fields["rating"]); err == nil {
		d.Rating = n
	}
	if loc, ok := fields["location"]; ok {
		d.Location = ParseLocation(loc)
	}
	return d
}

package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerAliases maps normalized column headings onto Row fields. Spreadsheets
// from different campuses label the same column differently; every spelling
// here has been seen in a real export.
var headerAliases = map[string]string{
	"id":              "id",
	"machine_id":      "id",
	"machine":         "id",
	"store_name":      "store_name",
	"name":            "store_name",
	"store":           "store_name",
	"address":         "address",
	"street_address":  "address",
	"city":            "city",
	"zip":             "zip",
	"zip_code":        "zip",
	"postal_code":     "zip",
	"campus":          "campus",
	"campus_area":     "campus",
	"status":          "status",
	"room_number":     "room_number",
	"room":            "room_number",
	"provider":        "provider",
	"vendor":          "provider",
	"services":        "services",
	"service":         "services",
	"payment_methods": "payment_methods",
	"payment":         "payment_methods",
	"payments":        "payment_methods",
	"special_access":  "special_access",
	"restricted":      "special_access",
	"rating":          "rating",
	"latitude":        "latitude",
	"lat":             "latitude",
	"longitude":       "longitude",
	"lon":             "longitude",
	"lng":             "longitude",
}

// ReadCSV parses a comma-separated export. The first record is the header;
// unknown columns are ignored, and short records are padded so trailing
// empty cells are not an error.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns := mapHeader(records[0])
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, buildRow(columns, record))
	}
	return rows, nil
}

// ReadXLSX parses the first sheet of a workbook, header row first, using the
// same column mapping as ReadCSV.
func ReadXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns := mapHeader(records[0])
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, buildRow(columns, record))
	}
	return rows, nil
}

// mapHeader resolves each header cell to a Row field name; unrecognized
// columns map to an empty string and are skipped during row building.
func mapHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		key = strings.ReplaceAll(key, " ", "_")
		columns[i] = headerAliases[key]
	}
	return columns
}

func buildRow(columns []string, record []string) Row {
	var row Row
	for i, field := range columns {
		if field == "" || i >= len(record) {
			continue
		}
		value := record[i]
		switch field {
		case "id":
			row.ID = value
		case "store_name":
			row.StoreName = value
		case "address":
			row.Address = value
		case "city":
			row.City = value
		case "zip":
			row.Zip = value
		case "campus":
			row.Campus = value
		case "status":
			row.Status = value
		case "room_number":
			row.RoomNumber = value
		case "provider":
			row.Provider = value
		case "services":
			row.Services = value
		case "payment_methods":
			row.PaymentMethods = value
		case "special_access":
			row.SpecialAccess = value
		case "rating":
			row.Rating = value
		case "latitude":
			row.Latitude = value
		case "longitude":
			row.Longitude = value
		}
	}
	return row
}

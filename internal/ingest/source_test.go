package ingest

import (
	"strings"
	"testing"
)

func TestReadCSV_HeaderAliases(t *testing.T) {
	csvData := strings.Join([]string{
		"Machine ID,Name,Vendor,Service,Payment,Lat,Lng,Restricted",
		"12,Baker Hall,coke,snacks/drinks,card,40.01 N,83.02 W,yes",
		"13,Union,pepsi,coffee,cash,,,no",
	}, "\n")

	rows, err := ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "12" || rows[0].StoreName != "Baker Hall" {
		t.Errorf("unexpected row %+v", rows[0])
	}
	if rows[0].Provider != "coke" || rows[0].Services != "snacks/drinks" {
		t.Errorf("unexpected row %+v", rows[0])
	}
	if rows[0].Latitude != "40.01 N" || rows[0].Longitude != "83.02 W" {
		t.Errorf("unexpected coordinates %+v", rows[0])
	}
	if rows[0].SpecialAccess != "yes" {
		t.Errorf("unexpected special access %q", rows[0].SpecialAccess)
	}
}

func TestReadCSV_ShortRecordsPadded(t *testing.T) {
	csvData := "id,name,provider\n1,Union\n"

	rows, err := ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Provider != "" {
		t.Errorf("expected missing cell to stay empty, got %q", rows[0].Provider)
	}
}

func TestReadCSV_UnknownColumnsIgnored(t *testing.T) {
	csvData := "id,name,internal_notes\n1,Union,do not publish\n"

	rows, err := ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].StoreName != "Union" {
		t.Errorf("unexpected row %+v", rows[0])
	}
}

func TestReadCSV_Empty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestReadCSV_EndToEnd(t *testing.T) {
	csvData := strings.Join([]string{
		"id,name,services,special_access",
		"1,Scott Lab,beverages; snacks,no",
		"1,Scott Lab Copy,coffee,no",
		",Union,soda,yes",
	}, "\n")

	rows, err := ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	batch := Normalize(rows)
	if len(batch.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(batch.Documents))
	}
	if got := batch.Documents[0].Services; len(got) != 2 || got[0] != "drinks" || got[1] != "snacks" {
		t.Errorf("unexpected services %v", got)
	}
	if batch.Documents[1].MachineID != "3" {
		t.Errorf("expected positional id 3, got %q", batch.Documents[1].MachineID)
	}
	if !batch.Documents[1].SpecialAccess {
		t.Error("expected special access true")
	}
}

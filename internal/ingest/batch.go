package ingest

import (
	"fmt"

	"github.com/campus-maps/vendmap/internal/domain/machine"
)

// SkippedRow records a row excluded from the batch and why.
type SkippedRow struct {
	Position int
	Reason   string
}

// Batch is the outcome of normalizing one spreadsheet.
type Batch struct {
	Documents []machine.Document
	Skipped   []SkippedRow
}

// Normalize converts rows in order into a de-duplicated document batch.
// Identifier collisions keep the first row and skip the rest; rows with no
// usable content are skipped. Normalization is deterministic: the same rows
// always produce the same batch.
func Normalize(rows []Row) Batch {
	var batch Batch
	seen := make(map[string]int, len(rows))

	for i, row := range rows {
		position := i + 1

		if isBlank(row) {
			batch.Skipped = append(batch.Skipped, SkippedRow{
				Position: position,
				Reason:   "empty row",
			})
			continue
		}

		doc := normalizeRow(row, position)
		if first, dup := seen[doc.MachineID]; dup {
			batch.Skipped = append(batch.Skipped, SkippedRow{
				Position: position,
				Reason:   fmt.Sprintf("duplicate id %s (first seen at row %d)", doc.MachineID, first),
			})
			continue
		}
		seen[doc.MachineID] = position
		batch.Documents = append(batch.Documents, doc)
	}

	return batch
}

// isBlank reports whether a row carries nothing worth indexing: every cell
// other than the id is empty. The id cell alone does not count, so a row that
// is only an id is still empty.
func isBlank(row Row) bool {
	return row.StoreName == "" && row.Address == "" && row.City == "" &&
		row.Zip == "" && row.Campus == "" && row.Status == "" &&
		row.RoomNumber == "" && row.Provider == "" && row.Services == "" &&
		row.PaymentMethods == "" && row.SpecialAccess == "" &&
		row.Rating == "" && row.Latitude == "" && row.Longitude == ""
}

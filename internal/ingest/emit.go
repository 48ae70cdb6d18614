package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/campus-maps/vendmap/internal/domain/machine"
)

// WriteJSON emits the batch as a human-readable JSON array, the review
// artifact people diff between ingestion runs.
func WriteJSON(w io.Writer, docs []machine.Document) error {
	if docs == nil {
		docs = []machine.Document{}
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write documents: %w", err)
	}
	return nil
}

// bulkAction is the metadata line preceding each document in the NDJSON
// stream.
type bulkAction struct {
	Index bulkIndex `json:"index"`
}

type bulkIndex struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

// WriteBulk emits the batch as action/document NDJSON pairs for bulk loading:
// one metadata line naming the target index and document id, then the
// document itself, one JSON object per line.
func WriteBulk(w io.Writer, docs []machine.Document, indexName string) error {
	enc := json.NewEncoder(w)
	for _, doc := range docs {
		action := bulkAction{Index: bulkIndex{Index: indexName, ID: doc.MachineID}}
		if err := enc.Encode(action); err != nil {
			return fmt.Errorf("encode action for %s: %w", doc.MachineID, err)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode document %s: %w", doc.MachineID, err)
		}
	}
	return nil
}

// Package result holds the projected output of a machine search.
package result

import "github.com/campus-maps/vendmap/internal/domain/machine"

// Machine is a single search hit: the projected document together with the
// index key it was stored under and its relevance score.
type Machine struct {
	ID    string           `json:"id"`
	Score float64          `json:"score"`
	Doc   machine.Document `json:"doc"`
}

// Page is one page of search results. Total counts every document matching
// the query, not just the entries returned on this page.
type Page struct {
	Total    int       `json:"total"`
	From     int       `json:"from"`
	Size     int       `json:"size"`
	Machines []Machine `json:"machines"`
}

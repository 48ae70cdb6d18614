// Package filter models the exclusionary clause group of a compiled search
// query: conditions that narrow the result set without affecting relevance
// scoring.
package filter

import "fmt"

// MaxConditions is the maximum number of conditions per expression.
const MaxConditions = 16

// Expression is the conjunction of filter conditions: a document must
// satisfy every condition to match.
type Expression struct {
	must []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must []Condition) (Expression, error) {
	if len(must) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	return Expression{must: must}, nil
}

// Must returns the conditions, all of which a matching document satisfies.
func (e Expression) Must() []Condition { return e.must }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.must) == 0 }

// Condition is a single filter clause over one set-valued or scalar field.
// With a single value it is an exact-equality term; with several values it is
// a membership test satisfied when the document's field contains any of them.
type Condition struct {
	key    string
	values []string
}

// NewTerm creates an exact-equality condition.
func NewTerm(key, value string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("term value is required for key %q", key)
	}
	return Condition{key: key, values: []string{value}}, nil
}

// NewMembership creates an any-of condition over the supplied values.
func NewMembership(key string, values []string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if len(values) == 0 {
		return Condition{}, fmt.Errorf("at least one value is required for key %q", key)
	}
	for _, v := range values {
		if v == "" {
			return Condition{}, fmt.Errorf("empty value not allowed for key %q", key)
		}
	}
	return Condition{key: key, values: values}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Values returns the accepted values.
func (c Condition) Values() []string { return c.values }

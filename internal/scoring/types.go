// Package scoring implements the composite lead-scoring pipeline: six
// per-attribute sub-scores combined through fixed weights, post-hoc
// behavioral modifiers, and derived grade/priority/conversion insights.
package scoring

import (
	"strconv"
	"strings"
	"time"
)

// Lead is the read-only customer view the scorer operates on.
// Field semantics follow the customers module; the scorer never mutates it.
// ID is an opaque caller reference and carries no scoring signal.
type Lead struct {
	ID       string
	Name     string
	Company  string
	Industry string
	Status   string
	Budget   float64
	Website  string
	Email    string
	Phone    string
	Notes    string
}

// Interaction is one engagement activity, immutable once recorded.
type Interaction struct {
	Type      string
	Notes     string
	CreatedAt time.Time
}

// BudgetValue coerces an arbitrary JSON value to a budget amount.
// Unparsable or missing input degrades to 0, never an error.
func BudgetValue(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

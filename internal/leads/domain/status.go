package domain

import "github.com/google/uuid"

// Category partitions the pipeline into three mutually exclusive buckets.
// It drives UI tabs and the scoring short-circuits (won=100, lost=0).
type Category string

const (
	CategoryActive Category = "active"
	CategoryWon    Category = "won"
	CategoryLost   Category = "lost"
)

// Valid reports whether the category is one of the three known buckets.
func (c Category) Valid() bool {
	return c == CategoryActive || c == CategoryWon || c == CategoryLost
}

// Status is a pipeline status catalog entry. Color is an opaque semantic
// token resolved by the presentation layer; the core never interprets it.
type Status struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Category Category  `json:"category"`
}

// LookupStatusCategory resolves a status id against the catalog. The second
// return value reports whether the id was found, so callers at the boundary
// can log unresolved references before falling back.
func LookupStatusCategory(statusID uuid.UUID, statuses []Status) (Category, bool) {
	for _, status := range statuses {
		if status.ID == statusID {
			return status.Category, true
		}
	}
	return CategoryActive, false
}

// ResolveStatusCategory maps a status id to its category, degrading to
// active when the id is missing from the catalog. Most operational leads are
// active, so the lookup fails open rather than erroring.
func ResolveStatusCategory(statusID uuid.UUID, statuses []Status) Category {
	category, _ := LookupStatusCategory(statusID, statuses)
	return category
}

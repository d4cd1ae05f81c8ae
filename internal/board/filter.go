package board

import "strings"

// Completion states accepted by FilterOptions.State.
const (
	StatePending   = "pending"
	StateCompleted = "completed"
	StateExpired   = "expired"
)

// FilterOptions defines which rows to include.
type FilterOptions struct {
	State  string // "", StatePending, StateCompleted or StateExpired
	Search string // case-insensitive substring match across title and description
}

// Filter returns rows matching all specified criteria (AND logic).
func Filter(rows []Row, opts FilterOptions) []Row {
	result := make([]Row, 0, len(rows))
	for _, r := range rows {
		if matchesState(r, opts.State) && matchesSearch(r, opts.Search) {
			result = append(result, r)
		}
	}
	return result
}

func matchesState(r Row, state string) bool {
	switch state {
	case StatePending:
		return !r.Completed
	case StateCompleted:
		return r.Completed
	case StateExpired:
		return !r.Completed && r.Expired
	default:
		return true
	}
}

func matchesSearch(r Row, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Description), q)
}

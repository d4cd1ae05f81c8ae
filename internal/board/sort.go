package board

import (
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
)

// Sort fields.
const (
	SortOrder    = "order"
	SortDeadline = "deadline"
	SortCreated  = "created"
	SortProgress = "progress"
	SortTitle    = "title"
)

// SortFields lists the accepted sort fields.
var SortFields = []string{SortOrder, SortDeadline, SortCreated, SortProgress, SortTitle}

// Sort sorts rows by field. "order" keeps the stored order (reversed when
// asked); ties keep stored order.
func Sort(rows []Row, field string, reverse bool) error {
	less, err := lessFunc(field)
	if err != nil {
		return err
	}
	if less == nil {
		if reverse {
			for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
				rows[i], rows[j] = rows[j], rows[i]
			}
		}
		return nil
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if reverse {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
	return nil
}

func lessFunc(field string) (func(a, b Row) bool, error) {
	switch field {
	case SortOrder:
		return nil, nil
	case SortDeadline:
		return func(a, b Row) bool { return a.Deadline < b.Deadline }, nil
	case SortCreated:
		return func(a, b Row) bool { return a.CreatedAt < b.CreatedAt }, nil
	case SortProgress:
		return func(a, b Row) bool { return a.Percent < b.Percent }, nil
	case SortTitle:
		return func(a, b Row) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }, nil
	default:
		return nil, clierr.Newf(clierr.InvalidSortField,
			"invalid sort field %q; allowed: %s", field, strings.Join(SortFields, ", "))
	}
}

package patient

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey selects the field the collection is ordered by.
type SortKey string

const (
	SortByIDKey   SortKey = "id"
	SortByNameKey SortKey = "name"
)

// ParseSortKey maps user input to a SortKey. Anything unrecognised falls back
// to ordering by id.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByIDKey:
		return SortByIDKey, true
	case SortByNameKey:
		return SortByNameKey, true
	}
	return SortByIDKey, false
}

// SortByID reorders the stored collection by id.
func (s *Store) SortByID(ascending bool) {
	sortStable(s.records, func(a, b Patient) int { return cmp.Compare(a.ID, b.ID) }, ascending)
}

// SortByName reorders the stored collection by name using byte-wise string
// comparison.
func (s *Store) SortByName(ascending bool) {
	sortStable(s.records, func(a, b Patient) int { return strings.Compare(a.Name, b.Name) }, ascending)
}

// Sort dispatches on key.
func (s *Store) Sort(key SortKey, ascending bool) {
	if key == SortByNameKey {
		s.SortByName(ascending)
		return
	}
	s.SortByID(ascending)
}

func sortStable(records []Patient, compare func(a, b Patient) int, ascending bool) {
	if ascending {
		slices.SortStableFunc(records, compare)
		return
	}
	slices.SortStableFunc(records, func(a, b Patient) int { return compare(b, a) })
}

package services

import (
	"fmt"
	"sort"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// Constraints are the caller-supplied day constraints, keyed by attraction
// name. An isolated attraction claims its day exclusively; a preferred
// attraction has a soft day assignment. Everything else is flexible.
type Constraints struct {
	Isolated  map[string]int
	Preferred map[string]int
}

// ClassifiedConstraints is the validated, disjoint partition consumed by the
// day assignment engine. FlexibleNames preserves the caller's input order.
type ClassifiedConstraints struct {
	IsolatedByDay  map[int][]string
	PreferredByDay map[int][]string
	FlexibleNames  []string
}

// InvalidDayAssignmentError reports a constraint day outside [1, numDays].
type InvalidDayAssignmentError struct {
	Name    string
	Day     int
	NumDays int
}

func (e *InvalidDayAssignmentError) Error() string {
	return fmt.Sprintf("classify constraints: %q assigned to day %d, want a day in [1, %d]", e.Name, e.Day, e.NumDays)
}

// ConflictingConstraintError reports a name present in both isolated and
// preferred constraints.
type ConflictingConstraintError struct {
	Name string
}

func (e *ConflictingConstraintError) Error() string {
	return fmt.Sprintf("classify constraints: %q is both isolated and preferred", e.Name)
}

// ReservedDayConflictError reports a preferred constraint targeting a day
// already reserved by an isolated attraction.
type ReservedDayConflictError struct {
	Name string
	Day  int
}

func (e *ReservedDayConflictError) Error() string {
	return fmt.Sprintf("classify constraints: %q prefers day %d, which is reserved by an isolated attraction", e.Name, e.Day)
}

// UnresolvedAttractionError reports a constrained name with no resolved
// coordinate.
type UnresolvedAttractionError struct {
	Name string
}

func (e *UnresolvedAttractionError) Error() string {
	return fmt.Sprintf("classify constraints: %q has no resolved coordinate", e.Name)
}

// ClassifyConstraints validates the caller's constraints against the
// attraction list and coordinate store and partitions the names into three
// disjoint sets. Pure validation; no side effects. Constraint maps are
// checked in lexical name order so the first reported error is deterministic.
func ClassifyConstraints(
	names []string,
	constraints Constraints,
	numDays int,
	store *domain.CoordinateStore,
) (*ClassifiedConstraints, error) {
	isolatedNames := sortedKeys(constraints.Isolated)
	preferredNames := sortedKeys(constraints.Preferred)

	for _, name := range isolatedNames {
		if day := constraints.Isolated[name]; day < 1 || day > numDays {
			return nil, &InvalidDayAssignmentError{Name: name, Day: day, NumDays: numDays}
		}
	}
	for _, name := range preferredNames {
		if day := constraints.Preferred[name]; day < 1 || day > numDays {
			return nil, &InvalidDayAssignmentError{Name: name, Day: day, NumDays: numDays}
		}
	}

	// Isolated and preferred must be disjoint; never silently prefer one.
	for _, name := range preferredNames {
		if _, ok := constraints.Isolated[name]; ok {
			return nil, &ConflictingConstraintError{Name: name}
		}
	}

	reserved := make(map[int]struct{}, len(constraints.Isolated))
	for _, day := range constraints.Isolated {
		reserved[day] = struct{}{}
	}

	// An isolated day is exclusive: no preferred attraction may target it.
	for _, name := range preferredNames {
		day := constraints.Preferred[name]
		if _, ok := reserved[day]; ok {
			return nil, &ReservedDayConflictError{Name: name, Day: day}
		}
	}

	for _, name := range isolatedNames {
		if _, ok := store.Get(name); !ok {
			return nil, &UnresolvedAttractionError{Name: name}
		}
	}
	for _, name := range preferredNames {
		if _, ok := store.Get(name); !ok {
			return nil, &UnresolvedAttractionError{Name: name}
		}
	}

	out := &ClassifiedConstraints{
		IsolatedByDay:  make(map[int][]string),
		PreferredByDay: make(map[int][]string),
	}
	for _, name := range isolatedNames {
		day := constraints.Isolated[name]
		out.IsolatedByDay[day] = append(out.IsolatedByDay[day], name)
	}
	for _, name := range preferredNames {
		day := constraints.Preferred[name]
		out.PreferredByDay[day] = append(out.PreferredByDay[day], name)
	}

	for _, name := range names {
		if _, ok := constraints.Isolated[name]; ok {
			continue
		}
		if _, ok := constraints.Preferred[name]; ok {
			continue
		}
		out.FlexibleNames = append(out.FlexibleNames, name)
	}

	return out, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package services

import (
	"errors"
	"testing"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

func TestAssignDaysFullyPredefined(t *testing.T) {
	store := storeFor("A", "B", "C")

	classified, err := ClassifyConstraints([]string{"A", "B", "C"}, Constraints{
		Isolated:  map[string]int{"A": 1},
		Preferred: map[string]int{"B": 2, "C": 2},
	}, 2, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assignment, err := AssignDays(classified, 2, store, AssignmentOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assignment.UsedClustering {
		t.Fatal("no flexible attractions, clustering should not run")
	}
	if assignment.Days["A"] != 1 || assignment.Days["B"] != 2 || assignment.Days["C"] != 2 {
		t.Fatalf("unexpected assignment: %v", assignment.Days)
	}
}

func TestAssignDaysClustersFlexible(t *testing.T) {
	// Two geographic groups over two days; each group should stay together.
	store := domain.NewCoordinateStore()
	store.Merge(map[string]domain.Coordinates{
		"A1": {Lat: 48.85, Lon: 2.29},
		"A2": {Lat: 48.86, Lon: 2.30},
		"A3": {Lat: 48.85, Lon: 2.31},
		"B1": {Lat: 41.38, Lon: 2.17},
		"B2": {Lat: 41.39, Lon: 2.18},
		"B3": {Lat: 41.40, Lon: 2.16},
	})

	names := []string{"A1", "A2", "A3", "B1", "B2", "B3"}
	classified, err := ClassifyConstraints(names, Constraints{}, 2, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assignment, err := AssignDays(classified, 2, store, AssignmentOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !assignment.UsedClustering {
		t.Fatal("expected clustering for flexible attractions")
	}
	if len(assignment.Days) != 6 {
		t.Fatalf("expected all 6 attractions assigned, got %d", len(assignment.Days))
	}

	if assignment.Days["A1"] != assignment.Days["A2"] || assignment.Days["A2"] != assignment.Days["A3"] {
		t.Fatalf("group A split across days: %v", assignment.Days)
	}
	if assignment.Days["B1"] != assignment.Days["B2"] || assignment.Days["B2"] != assignment.Days["B3"] {
		t.Fatalf("group B split across days: %v", assignment.Days)
	}
	if assignment.Days["A1"] == assignment.Days["B1"] {
		t.Fatalf("both groups on one day: %v", assignment.Days)
	}
}

func TestAssignDaysExcludesReservedDays(t *testing.T) {
	store := domain.NewCoordinateStore()
	store.Merge(map[string]domain.Coordinates{
		"Versailles": {Lat: 48.80, Lon: 2.12},
		"F1":         {Lat: 48.85, Lon: 2.29},
		"F2":         {Lat: 48.86, Lon: 2.30},
		"F3":         {Lat: 41.38, Lon: 2.17},
		"F4":         {Lat: 41.39, Lon: 2.18},
	})

	names := []string{"Versailles", "F1", "F2", "F3", "F4"}
	classified, err := ClassifyConstraints(names, Constraints{
		Isolated: map[string]int{"Versailles": 1},
	}, 3, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assignment, err := AssignDays(classified, 3, store, AssignmentOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assignment.Days["Versailles"] != 1 {
		t.Fatalf("isolated attraction moved: %v", assignment.Days)
	}
	for _, name := range []string{"F1", "F2", "F3", "F4"} {
		if assignment.Days[name] == 1 {
			t.Fatalf("flexible attraction %q placed on reserved day 1", name)
		}
	}
}

func TestAssignDaysAnchorsToPreferred(t *testing.T) {
	// The cluster nearest to day 2's preferred attraction must land on day 2.
	store := domain.NewCoordinateStore()
	store.Merge(map[string]domain.Coordinates{
		"Anchor": {Lat: 41.38, Lon: 2.17},
		"F1":     {Lat: 48.85, Lon: 2.29},
		"F2":     {Lat: 48.86, Lon: 2.30},
		"F3":     {Lat: 41.39, Lon: 2.18},
		"F4":     {Lat: 41.40, Lon: 2.16},
	})

	names := []string{"Anchor", "F1", "F2", "F3", "F4"}
	classified, err := ClassifyConstraints(names, Constraints{
		Preferred: map[string]int{"Anchor": 2},
	}, 2, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assignment, err := AssignDays(classified, 2, store, AssignmentOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assignment.Days["F3"] != 2 || assignment.Days["F4"] != 2 {
		t.Fatalf("cluster near anchor not on day 2: %v", assignment.Days)
	}
	if assignment.Days["F1"] != 1 || assignment.Days["F2"] != 1 {
		t.Fatalf("distant cluster not on day 1: %v", assignment.Days)
	}
}

func TestAssignDaysNoDaysAvailable(t *testing.T) {
	store := storeFor("X", "A")

	classified, err := ClassifyConstraints([]string{"X", "A"}, Constraints{
		Isolated: map[string]int{"X": 1},
	}, 1, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = AssignDays(classified, 1, store, AssignmentOptions{})

	var noDays *NoDaysAvailableError
	if !errors.As(err, &noDays) {
		t.Fatalf("expected NoDaysAvailableError, got %v", err)
	}
	if noDays.ReservedDays != 1 || noDays.Flexible != 1 {
		t.Fatalf("unexpected error details: %+v", noDays)
	}
}

func TestAssignDaysInfeasibleMinimum(t *testing.T) {
	store := storeFor("A", "B")

	classified, err := ClassifyConstraints([]string{"A", "B"}, Constraints{}, 2, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = AssignDays(classified, 2, store, AssignmentOptions{MinAttractionsPerDay: 2})

	var infeasible *InfeasibleSizeConstraintError
	if !errors.As(err, &infeasible) {
		t.Fatalf("expected InfeasibleSizeConstraintError, got %v", err)
	}
	if infeasible.Bound != "min" {
		t.Fatalf("bound = %q, want min", infeasible.Bound)
	}
}

func TestAssignDaysMissingCoordinates(t *testing.T) {
	store := domain.NewCoordinateStore()
	store.Merge(map[string]domain.Coordinates{"A": {Lat: 1, Lon: 1}})

	classified, err := ClassifyConstraints([]string{"A", "B"}, Constraints{}, 2, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = AssignDays(classified, 2, store, AssignmentOptions{})

	var noCoords *NoCoordinatesError
	if !errors.As(err, &noCoords) {
		t.Fatalf("expected NoCoordinatesError, got %v", err)
	}
	if len(noCoords.Missing) != 1 || noCoords.Missing[0] != "B" {
		t.Fatalf("missing = %v, want [B]", noCoords.Missing)
	}
}

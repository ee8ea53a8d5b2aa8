package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luizlzg/itinerary-generator/internal/adapters/enrich"
	"github.com/luizlzg/itinerary-generator/internal/adapters/geocode"
	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// Two geographic groups for clustering scenarios.
var testCoords = map[string]domain.Coordinates{
	"A1": {Lat: 48.85, Lon: 2.29},
	"A2": {Lat: 48.86, Lon: 2.30},
	"B1": {Lat: 41.38, Lon: 2.17},
	"B2": {Lat: 41.39, Lon: 2.18},
}

func newTestPlanner() *Planner {
	return &Planner{
		Geocoder:   geocode.NewMockGeocoder(testCoords),
		Enricher:   enrich.NewMockEnricher(),
		Proposals:  NewProposalStore(),
		MaxRetries: 1,
		BaseWait:   time.Millisecond,
	}
}

func TestPlanSuspendsForApproval(t *testing.T) {
	p := newTestPlanner()

	outcome, err := p.Plan(context.Background(), PlanRequest{
		Attractions: []string{"A1", "A2", "B1", "B2"},
		NumDays:     2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Proposal == nil {
		t.Fatal("clustered plan should suspend with a proposal")
	}
	if outcome.Document != nil {
		t.Fatal("suspended plan should not carry a document")
	}
	if len(outcome.Proposal.Itinerary) != 2 {
		t.Fatalf("expected 2 proposed days, got %d", len(outcome.Proposal.Itinerary))
	}

	names := outcome.Proposal.Itinerary.Names()
	if len(names) != 4 {
		t.Fatalf("proposal lost attractions: %v", names)
	}
}

func TestPlanPredefinedSkipsApproval(t *testing.T) {
	p := newTestPlanner()

	outcome, err := p.Plan(context.Background(), PlanRequest{
		Attractions: []string{"A1", "B1"},
		NumDays:     2,
		Constraints: Constraints{
			Isolated:  map[string]int{"A1": 1},
			Preferred: map[string]int{"B1": 2},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Proposal != nil {
		t.Fatal("fully predefined plan should not suspend")
	}
	if outcome.Document == nil {
		t.Fatal("expected a finished document")
	}
	if outcome.Document.Title != "Travel Itinerary - 2 Days" {
		t.Fatalf("default title = %q", outcome.Document.Title)
	}
}

func TestPlanGeocodeFailure(t *testing.T) {
	p := newTestPlanner()

	_, err := p.Plan(context.Background(), PlanRequest{
		Attractions: []string{"A1", "Atlantis"},
		NumDays:     2,
	})

	var geocodeErr *GeocodeFailedError
	if !errors.As(err, &geocodeErr) {
		t.Fatalf("expected GeocodeFailedError, got %v", err)
	}
	if len(geocodeErr.Names) != 1 || geocodeErr.Names[0] != "Atlantis" {
		t.Fatalf("failed names = %v, want [Atlantis]", geocodeErr.Names)
	}
}

func TestPlanRejectsInvalidInput(t *testing.T) {
	p := newTestPlanner()

	if _, err := p.Plan(context.Background(), PlanRequest{Attractions: []string{"A1"}, NumDays: 0}); err == nil {
		t.Error("expected error for num_days=0")
	}
	if _, err := p.Plan(context.Background(), PlanRequest{NumDays: 2}); err == nil {
		t.Error("expected error for empty attraction list")
	}
}

type fakeRepo struct {
	attractions []*domain.Attraction
}

func (r *fakeRepo) ListAttractions(ctx context.Context) ([]*domain.Attraction, error) {
	return r.attractions, nil
}

func TestPlanLoadsSavedAttractions(t *testing.T) {
	p := newTestPlanner()
	p.Repo = &fakeRepo{attractions: []*domain.Attraction{
		{AttractionID: 1, Name: "A1", IsolatedDay: 1},
		{AttractionID: 2, Name: "B1", PreferredDay: 2},
	}}

	outcome, err := p.Plan(context.Background(), PlanRequest{NumDays: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Stored constraints applied: everything predefined, no approval needed.
	if outcome.Document == nil {
		t.Fatal("expected a finished document")
	}

	if len(outcome.Document.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(outcome.Document.Days))
	}
	day1 := outcome.Document.Days[0]
	if day1.DayNumber != 1 || len(day1.Attractions) != 1 || day1.Attractions[0].Name != "A1" {
		t.Fatalf("unexpected document days: %+v", outcome.Document.Days)
	}
}

func TestPlanDeduplicatesNames(t *testing.T) {
	p := newTestPlanner()

	outcome, err := p.Plan(context.Background(), PlanRequest{
		Attractions: []string{"A1", "A1", " A2 ", "B1", "B2"},
		NumDays:     2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := outcome.Proposal.Itinerary.Names()
	if len(names) != 4 {
		t.Fatalf("expected 4 unique attractions, got %v", names)
	}
}

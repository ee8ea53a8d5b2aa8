package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/luizlzg/itinerary-generator/internal/adapters/enrich"
	"github.com/luizlzg/itinerary-generator/internal/domain"
	"github.com/luizlzg/itinerary-generator/internal/ports"
)

func dayRecords(day int, names ...string) domain.DayResult {
	result := domain.DayResult{DayNumber: day}
	for _, name := range names {
		result.Attractions = append(result.Attractions, domain.AttractionResearch{
			Name:          name,
			DayNumber:     day,
			Description:   "researched",
			EstimatedCost: 10,
			Currency:      "EUR",
		})
	}
	return result
}

func TestEnrichOneDayRetriesValidationFailures(t *testing.T) {
	mock := enrich.NewMockEnricher()
	mock.Script(1,
		enrich.MockStep{Err: &ports.ValidationFailureError{Reason: "missing description"}},
		enrich.MockStep{Err: &ports.ValidationFailureError{Reason: "missing description"}},
		enrich.MockStep{Result: dayRecords(1, "A", "B")},
	)

	p := &Planner{Enricher: mock, MaxRetries: 3, BaseWait: time.Millisecond}

	records := p.enrichOneDay(context.Background(), 1, []string{"A", "B"}, "", "")

	if len(records) != 2 || records[0].Description != "researched" {
		t.Fatalf("expected the third attempt's records, got %+v", records)
	}
	if len(mock.Calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(mock.Calls))
	}

	// The retry request carries a correction instruction.
	if mock.Calls[0].Feedback != "" {
		t.Fatalf("first attempt should have no feedback, got %q", mock.Calls[0].Feedback)
	}
	if !strings.Contains(mock.Calls[1].Feedback, "missing description") {
		t.Fatalf("retry feedback should name the validation problem, got %q", mock.Calls[1].Feedback)
	}
}

func TestEnrichOneDayRateLimitFeedback(t *testing.T) {
	mock := enrich.NewMockEnricher()
	mock.Script(2,
		enrich.MockStep{Err: &ports.RateLimitedError{}},
		enrich.MockStep{Result: dayRecords(2, "A")},
	)

	p := &Planner{Enricher: mock, MaxRetries: 2, BaseWait: time.Millisecond}

	records := p.enrichOneDay(context.Background(), 2, []string{"A"}, "", "")

	if len(records) != 1 || records[0].Description != "researched" {
		t.Fatalf("expected recovery after rate limit, got %+v", records)
	}
	if !strings.Contains(mock.Calls[1].Feedback, "rate limit") {
		t.Fatalf("retry feedback should mention the rate limit, got %q", mock.Calls[1].Feedback)
	}
}

func TestEnrichOneDayExhaustionFallsBack(t *testing.T) {
	mock := enrich.NewMockEnricher()
	mock.Script(1,
		enrich.MockStep{Err: &ports.ValidationFailureError{Reason: "bad"}},
		enrich.MockStep{Err: &ports.ValidationFailureError{Reason: "bad"}},
	)

	p := &Planner{Enricher: mock, MaxRetries: 1, BaseWait: time.Millisecond}

	records := p.enrichOneDay(context.Background(), 1, []string{"A", "B"}, "", "")

	// MaxRetries=1 means two attempts total, then degradation.
	if len(mock.Calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(mock.Calls))
	}
	if len(records) != 2 {
		t.Fatalf("expected one fallback record per attraction, got %d", len(records))
	}
	for _, rec := range records {
		if rec.Description != "" || rec.EstimatedCost != 0 {
			t.Fatalf("fallback record should be minimal: %+v", rec)
		}
		if rec.Currency != "EUR" {
			t.Fatalf("fallback currency = %q, want EUR", rec.Currency)
		}
		if rec.DayNumber != 1 {
			t.Fatalf("fallback day = %d, want 1", rec.DayNumber)
		}
	}
}

func TestEnrichOneDayUnexpectedErrorFallsBack(t *testing.T) {
	mock := enrich.NewMockEnricher()
	mock.Script(1, enrich.MockStep{Err: errors.New("connection reset")})

	p := &Planner{Enricher: mock, MaxRetries: 3, BaseWait: time.Millisecond}

	records := p.enrichOneDay(context.Background(), 1, []string{"A"}, "", "")

	// Unexpected errors do not retry.
	if len(mock.Calls) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(mock.Calls))
	}
	if len(records) != 1 || records[0].Name != "A" || records[0].Description != "" {
		t.Fatalf("expected fallback record, got %+v", records)
	}
}

func TestEnrichDaysOrdersResults(t *testing.T) {
	mock := enrich.NewMockEnricher()
	p := &Planner{Enricher: mock, MaxRetries: 1, BaseWait: time.Millisecond}

	itin := domain.Itinerary{
		{Day: 3, Attractions: []string{"C"}},
		{Day: 1, Attractions: []string{"A"}},
		{Day: 2, Attractions: []string{"B"}},
	}

	results := p.enrichDays(context.Background(), itin, "", "")

	if len(results) != 3 {
		t.Fatalf("expected 3 day results, got %d", len(results))
	}
	for i, want := range []int{1, 2, 3} {
		if results[i].DayNumber != want {
			t.Fatalf("results out of day order: %+v", results)
		}
	}
}

func TestBuildDocumentCostSummary(t *testing.T) {
	results := []domain.DayResult{
		{DayNumber: 1, Attractions: []domain.AttractionResearch{
			{Name: "A", DayNumber: 1, EstimatedCost: 25, Currency: "EUR"},
			{Name: "B", DayNumber: 1, EstimatedCost: 0, Currency: "EUR"},
		}},
		{DayNumber: 2, Attractions: []domain.AttractionResearch{
			{Name: "C", DayNumber: 2, EstimatedCost: 30, Currency: "USD"},
			{Name: "D", DayNumber: 2, EstimatedCost: 5},
		}},
	}

	doc := buildDocument("Trip", results)

	if doc.Title != "Trip" {
		t.Fatalf("title = %q", doc.Title)
	}
	if len(doc.Days) != 2 || doc.Days[0].DayNumber != 1 || doc.Days[1].DayNumber != 2 {
		t.Fatalf("unexpected day grouping: %+v", doc.Days)
	}

	// Zero-cost records stay listed but never contribute to the sums, and a
	// missing currency defaults to EUR.
	if doc.CostsByCurrency["EUR"] != 30 {
		t.Fatalf("EUR total = %v, want 30", doc.CostsByCurrency["EUR"])
	}
	if doc.CostsByCurrency["USD"] != 30 {
		t.Fatalf("USD total = %v, want 30", doc.CostsByCurrency["USD"])
	}
	if len(doc.Days[0].Attractions) != 2 {
		t.Fatalf("zero-cost record dropped from listing: %+v", doc.Days[0])
	}
}

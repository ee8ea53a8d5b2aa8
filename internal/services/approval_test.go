package services

import (
	"context"
	"errors"
	"testing"
)

func suspend(t *testing.T, p *Planner) *Proposal {
	t.Helper()

	outcome, err := p.Plan(context.Background(), PlanRequest{
		Attractions: []string{"A1", "A2", "B1", "B2"},
		NumDays:     2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Proposal == nil {
		t.Fatal("expected a suspended proposal")
	}
	return outcome.Proposal
}

func TestResolveAcceptFinishesPipeline(t *testing.T) {
	p := newTestPlanner()
	proposal := suspend(t, p)

	outcome, err := p.Resolve(context.Background(), proposal.ID, ApprovalDecision{Accept: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Document == nil {
		t.Fatal("accepting should produce the document")
	}
	if len(outcome.Document.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(outcome.Document.Days))
	}

	// Accepted proposals leave the store.
	if _, err := p.Resolve(context.Background(), proposal.ID, ApprovalDecision{Accept: true}); err == nil {
		t.Fatal("expected resolving twice to fail")
	}
}

func TestResolveRevisionPresentsAgain(t *testing.T) {
	p := newTestPlanner()
	proposal := suspend(t, p)

	outcome, err := p.Resolve(context.Background(), proposal.ID, ApprovalDecision{
		RevisedDays: map[int][]string{
			1: {"A1", "B1"},
			2: {"A2", "B2"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Document != nil {
		t.Fatal("revision should suspend again, not finish")
	}
	if outcome.Proposal == nil || outcome.Proposal.ID != proposal.ID {
		t.Fatalf("revision should keep the proposal ID, got %+v", outcome.Proposal)
	}

	day1, _ := outcome.Proposal.Itinerary.Day(1)
	if len(day1.Attractions) != 2 {
		t.Fatalf("revised day 1 = %v", day1.Attractions)
	}

	// The revised grouping can then be accepted.
	final, err := p.Resolve(context.Background(), proposal.ID, ApprovalDecision{Accept: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final.Document == nil {
		t.Fatal("expected the document after accepting the revision")
	}
}

func TestResolveUnknownProposal(t *testing.T) {
	p := newTestPlanner()

	_, err := p.Resolve(context.Background(), "nope", ApprovalDecision{Accept: true})

	var unknown *UnknownProposalError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownProposalError, got %v", err)
	}
}

func TestResolveRevisionValidation(t *testing.T) {
	p := newTestPlanner()
	proposal := suspend(t, p)

	// Dropping an attraction is rejected.
	_, err := p.Resolve(context.Background(), proposal.ID, ApprovalDecision{
		RevisedDays: map[int][]string{1: {"A1", "A2", "B1"}},
	})
	var missing *MissingAttractionError
	if !errors.As(err, &missing) || missing.Name != "B2" {
		t.Fatalf("expected MissingAttractionError for B2, got %v", err)
	}

	// Unknown names are rejected.
	_, err = p.Resolve(context.Background(), proposal.ID, ApprovalDecision{
		RevisedDays: map[int][]string{1: {"A1", "A2", "B1", "B2", "Z"}},
	})
	var unknown *UnknownAttractionError
	if !errors.As(err, &unknown) || unknown.Name != "Z" {
		t.Fatalf("expected UnknownAttractionError for Z, got %v", err)
	}

	// Listing a name twice is rejected.
	_, err = p.Resolve(context.Background(), proposal.ID, ApprovalDecision{
		RevisedDays: map[int][]string{1: {"A1", "A2"}, 2: {"B1", "B2", "A1"}},
	})
	var dup *DuplicateAttractionError
	if !errors.As(err, &dup) || dup.Name != "A1" {
		t.Fatalf("expected DuplicateAttractionError for A1, got %v", err)
	}

	// Days outside the trip are rejected.
	_, err = p.Resolve(context.Background(), proposal.ID, ApprovalDecision{
		RevisedDays: map[int][]string{5: {"A1", "A2", "B1", "B2"}},
	})
	var invalid *InvalidDayAssignmentError
	if !errors.As(err, &invalid) || invalid.Day != 5 {
		t.Fatalf("expected InvalidDayAssignmentError for day 5, got %v", err)
	}

	// A failed revision leaves the original proposal pending.
	outcome, err := p.Resolve(context.Background(), proposal.ID, ApprovalDecision{Accept: true})
	if err != nil {
		t.Fatalf("proposal should still be pending: %v", err)
	}
	if outcome.Document == nil {
		t.Fatal("expected the document")
	}
}

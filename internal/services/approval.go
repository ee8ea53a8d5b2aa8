package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// Proposal is a day grouping suspended for caller approval. The pipeline
// holds nothing else while suspended; resumption happens through Resolve.
type Proposal struct {
	ID        string
	Itinerary domain.Itinerary
}

// ApprovalDecision resumes a suspended proposal: accept it, or replace the
// whole grouping with RevisedDays. There is no ceiling on revision rounds.
type ApprovalDecision struct {
	Accept      bool
	RevisedDays map[int][]string
}

// UnknownProposalError reports a resume call for an ID that is not pending.
type UnknownProposalError struct {
	ID string
}

func (e *UnknownProposalError) Error() string {
	return fmt.Sprintf("approval: no pending proposal %q", e.ID)
}

// MissingAttractionError reports a revision that drops a known attraction.
type MissingAttractionError struct {
	Name string
}

func (e *MissingAttractionError) Error() string {
	return fmt.Sprintf("approval: revision is missing attraction %q", e.Name)
}

// UnknownAttractionError reports a revision naming an attraction that was
// not part of the original plan.
type UnknownAttractionError struct {
	Name string
}

func (e *UnknownAttractionError) Error() string {
	return fmt.Sprintf("approval: revision references unknown attraction %q", e.Name)
}

// DuplicateAttractionError reports a revision listing the same attraction
// on more than one day (or twice on one day).
type DuplicateAttractionError struct {
	Name string
}

func (e *DuplicateAttractionError) Error() string {
	return fmt.Sprintf("approval: revision lists attraction %q more than once", e.Name)
}

type pendingPlan struct {
	itinerary domain.Itinerary
	req       PlanRequest
	names     []string
	store     *domain.CoordinateStore
}

// ProposalStore holds groupings suspended at the approval checkpoint,
// keyed by proposal ID. In-memory only: checkpointing a suspended approval
// across restarts is the orchestrating framework's responsibility.
type ProposalStore struct {
	mu      sync.Mutex
	pending map[string]*pendingPlan
}

func NewProposalStore() *ProposalStore {
	return &ProposalStore{pending: make(map[string]*pendingPlan)}
}

func (s *ProposalStore) put(itin domain.Itinerary, req PlanRequest, names []string, store *domain.CoordinateStore) *Proposal {
	id := newProposalID()

	s.mu.Lock()
	s.pending[id] = &pendingPlan{itinerary: itin, req: req, names: names, store: store}
	s.mu.Unlock()

	return &Proposal{ID: id, Itinerary: itin}
}

func (s *ProposalStore) get(id string) (*pendingPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	return p, ok
}

func (s *ProposalStore) delete(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

func (s *ProposalStore) replace(id string, itin domain.Itinerary) {
	s.mu.Lock()
	if p, ok := s.pending[id]; ok {
		p.itinerary = itin
	}
	s.mu.Unlock()
}

// Resolve resumes a suspended proposal with the caller's decision.
//
// Accepting finishes the pipeline (enrichment + document assembly) and
// returns the document. A revision replaces the entire grouping — it must
// reference every previously-known attraction exactly once — and the
// checkpoint is presented again with the revised proposal.
func (p *Planner) Resolve(ctx context.Context, proposalID string, decision ApprovalDecision) (*PlanOutcome, error) {
	pending, ok := p.Proposals.get(proposalID)
	if !ok {
		return nil, &UnknownProposalError{ID: proposalID}
	}

	if decision.Accept {
		p.Proposals.delete(proposalID)
		log.Printf("approval: proposal=%s accepted", proposalID)
		return p.finish(ctx, pending.itinerary, pending.req)
	}

	revised, err := reviseItinerary(decision.RevisedDays, pending.names, pending.req.NumDays)
	if err != nil {
		return nil, err
	}

	// Membership changed, so every touched day gets re-ordered.
	revised = orderItinerary(revised, pending.store, pending.req.Options.StartingPoint)

	p.Proposals.replace(proposalID, revised)
	log.Printf("approval: proposal=%s revised, awaiting approval again", proposalID)
	return &PlanOutcome{Proposal: &Proposal{ID: proposalID, Itinerary: revised}}, nil
}

// reviseItinerary validates and builds the replacement grouping. The
// revision must cover the known attraction set exactly once per name.
func reviseItinerary(revisedDays map[int][]string, known []string, numDays int) (domain.Itinerary, error) {
	knownSet := make(map[string]struct{}, len(known))
	for _, name := range known {
		knownSet[name] = struct{}{}
	}

	days := make([]int, 0, len(revisedDays))
	for day := range revisedDays {
		if day < 1 || day > numDays {
			return nil, &InvalidDayAssignmentError{Name: firstName(revisedDays[day]), Day: day, NumDays: numDays}
		}
		days = append(days, day)
	}
	sort.Ints(days)

	seen := make(map[string]struct{}, len(known))
	itin := make(domain.Itinerary, 0, len(days))
	for _, day := range days {
		attractions := revisedDays[day]
		for _, name := range attractions {
			if _, ok := knownSet[name]; !ok {
				return nil, &UnknownAttractionError{Name: name}
			}
			if _, dup := seen[name]; dup {
				return nil, &DuplicateAttractionError{Name: name}
			}
			seen[name] = struct{}{}
		}
		itin = append(itin, domain.DayPlan{Day: day, Attractions: attractions})
	}

	for _, name := range known {
		if _, ok := seen[name]; !ok {
			return nil, &MissingAttractionError{Name: name}
		}
	}

	return itin, nil
}

func firstName(names []string) string {
	if len(names) > 0 {
		return names[0]
	}
	return ""
}

func newProposalID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand.Read does not fail on supported platforms.
		panic(err)
	}
	return hex.EncodeToString(b)
}

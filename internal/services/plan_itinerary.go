package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/luizlzg/itinerary-generator/internal/domain"
	"github.com/luizlzg/itinerary-generator/internal/ports"
)

const (
	defaultMaxRetries = 3
	defaultBaseWait   = 10 * time.Second
)

// Planner wires the planning pipeline's collaborators. Constructed once by
// the composition root and shared across requests; it holds no per-run
// state (pending proposals live in the ProposalStore).
type Planner struct {
	Geocoder  ports.Geocoder
	Cache     ports.GeocodeCache // optional
	Repo      ports.AttractionRepository
	Enricher  ports.DayEnricher
	Renderer  ports.DocumentRenderer // optional
	Proposals *ProposalStore

	// Retry tuning for per-day enrichment tasks.
	MaxRetries int
	BaseWait   time.Duration
}

type PlanRequest struct {
	Title       string
	Attractions []string
	NumDays     int
	Constraints Constraints
	Preferences string
	Language    string
	Options     AssignmentOptions
}

// PlanOutcome is either a finished document or a proposal awaiting approval,
// never both.
type PlanOutcome struct {
	Document     *domain.ItineraryDocument
	DocumentPath string
	Proposal     *Proposal
}

// GeocodeFailedError lists the names that could not be geocoded so the
// caller can retry with corrected input. The engine does not guess
// alternate spellings.
type GeocodeFailedError struct {
	Names []string
}

func (e *GeocodeFailedError) Error() string {
	return fmt.Sprintf("plan itinerary: geocoding failed for %d name(s): %v", len(e.Names), e.Names)
}

// Plan runs the organization pipeline: geocode, classify, assign days,
// order routes. When clustering was used the proposed grouping is held for
// approval and returned instead of a document; otherwise the pipeline
// continues straight into per-day enrichment and document assembly.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (_ *PlanOutcome, err error) {
	if req.NumDays < 1 {
		return nil, fmt.Errorf("plan itinerary: num_days must be at least 1, got %d", req.NumDays)
	}

	if len(req.Attractions) == 0 && p.Repo != nil {
		if err := p.loadSavedAttractions(ctx, &req); err != nil {
			return nil, err
		}
	}

	names := dedupeNames(req.Attractions)
	if len(names) == 0 {
		return nil, fmt.Errorf("plan itinerary: attraction list must not be empty")
	}

	store, err := p.geocodeAll(ctx, names)
	if err != nil {
		return nil, err
	}

	classified, err := ClassifyConstraints(names, req.Constraints, req.NumDays, store)
	if err != nil {
		return nil, fmt.Errorf("plan itinerary: %w", err)
	}

	assignment, err := AssignDays(classified, req.NumDays, store, req.Options)
	if err != nil {
		return nil, fmt.Errorf("plan itinerary: %w", err)
	}

	itin := domain.NewItinerary(assignment.Days, names)
	if assignment.UsedClustering || req.Options.OptimizeOrderByDistance {
		itin = orderItinerary(itin, store, req.Options.StartingPoint)
	}

	if req.Title == "" {
		req.Title = fmt.Sprintf("Travel Itinerary - %d Days", req.NumDays)
	}

	// Clustered groupings are presented to the caller before enrichment
	// begins; fully predefined days skip the checkpoint.
	if assignment.UsedClustering {
		proposal := p.Proposals.put(itin, req, names, store)
		log.Printf("plan itinerary: proposal=%s days=%d awaiting approval", proposal.ID, len(itin))
		return &PlanOutcome{Proposal: proposal}, nil
	}

	return p.finish(ctx, itin, req)
}

// finish runs enrichment and document assembly for an approved (or
// approval-exempt) itinerary.
func (p *Planner) finish(ctx context.Context, itin domain.Itinerary, req PlanRequest) (*PlanOutcome, error) {
	results := p.enrichDays(ctx, itin, req.Preferences, req.Language)
	doc := buildDocument(req.Title, results)

	outcome := &PlanOutcome{Document: doc}
	if p.Renderer != nil {
		path, err := p.Renderer.RenderDocument(ctx, doc)
		if err != nil {
			// Document generation trouble never aborts the run; the
			// reduced document is still returned to the caller.
			log.Printf("plan itinerary: render document: %v", err)
		} else {
			outcome.DocumentPath = path
		}
	}
	return outcome, nil
}

// geocodeAll resolves every name, cache-first, then one remote call at a
// time. Sequential on purpose: parallel geocoding requests would trip
// third-party rate limits.
func (p *Planner) geocodeAll(ctx context.Context, names []string) (*domain.CoordinateStore, error) {
	store := domain.NewCoordinateStore()

	if p.Cache != nil {
		cached, err := p.Cache.GetMany(ctx, names)
		if err != nil {
			log.Printf("plan itinerary: geocode cache read: %v", err)
		} else {
			store.Merge(cached)
		}
	}

	var failed []string
	fresh := make(map[string]domain.Coordinates)
	for _, name := range store.Missing(names) {
		coords, err := p.Geocoder.Geocode(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("plan itinerary: geocode %q: %w", name, err)
			}
			log.Printf("plan itinerary: geocode %q failed: %v", name, err)
			failed = append(failed, name)
			continue
		}
		fresh[name] = coords
	}

	// Batches merge right-biased as results arrive.
	store.Merge(fresh)

	if p.Cache != nil && len(fresh) > 0 {
		if err := p.Cache.PutMany(ctx, fresh); err != nil {
			log.Printf("plan itinerary: geocode cache write: %v", err)
		}
	}

	if len(failed) > 0 {
		return nil, &GeocodeFailedError{Names: failed}
	}
	return store, nil
}

func (p *Planner) loadSavedAttractions(ctx context.Context, req *PlanRequest) error {
	saved, err := p.Repo.ListAttractions(ctx)
	if err != nil {
		return fmt.Errorf("plan itinerary: list saved attractions: %w", err)
	}

	if req.Constraints.Isolated == nil {
		req.Constraints.Isolated = make(map[string]int)
	}
	if req.Constraints.Preferred == nil {
		req.Constraints.Preferred = make(map[string]int)
	}

	for _, a := range saved {
		req.Attractions = append(req.Attractions, a.Name)
		if a.IsolatedDay > 0 {
			req.Constraints.Isolated[a.Name] = a.IsolatedDay
		}
		if a.PreferredDay > 0 {
			req.Constraints.Preferred[a.Name] = a.PreferredDay
		}
	}
	return nil
}

func orderItinerary(itin domain.Itinerary, store *domain.CoordinateStore, startingPoint string) domain.Itinerary {
	ordered := make(domain.Itinerary, 0, len(itin))
	for _, dp := range itin {
		ordered = append(ordered, domain.DayPlan{
			Day:         dp.Day,
			Attractions: OrderDayRoute(dp.Attractions, store, startingPoint),
		})
	}
	return ordered
}

func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

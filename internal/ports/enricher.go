package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// EnrichRequest carries everything one day's research task needs.
// Feedback is empty on the first attempt; on retries it carries the
// correction or slow-down instruction produced by the previous failure.
type EnrichRequest struct {
	DayNumber   int
	Attractions []string
	Preferences string
	Language    string
	Feedback    string
}

// Contract for the external collaborator that researches one day's
// attractions (web search, images, ticket info) and returns structured
// per-attraction records.
type DayEnricher interface {
	// Research every attraction for one day. Returns a typed
	// ValidationFailureError or RateLimitedError when the caller should
	// retry; any other error is terminal for the attempt.
	EnrichDay(ctx context.Context, req EnrichRequest) (domain.DayResult, error)
}

// ValidationFailureError indicates the enricher's structured output failed
// schema checks. Reason is fed back to the next attempt as a correction
// instruction.
type ValidationFailureError struct {
	Reason string
}

func (e *ValidationFailureError) Error() string {
	return fmt.Sprintf("enrichment validation failed: %s", e.Reason)
}

// RateLimitedError indicates the enricher was throttled. The orchestrator
// backs off before the next attempt.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("enrichment rate limited (retry after %s)", e.RetryAfter)
}

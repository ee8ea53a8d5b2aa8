package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/luizlzg/itinerary-generator/internal/domain"
	"github.com/luizlzg/itinerary-generator/internal/ports"
)

// Fallback currency for degraded records, matching the document defaults.
const fallbackCurrency = "EUR"

type dayEnrichResult struct {
	day     int
	records []domain.AttractionResearch
}

// enrichDays fans out one research task per day and reduces the results into
// a single collection ordered by day number. Tasks run concurrently and
// share no mutable state; completion order is irrelevant because the reduce
// step re-sorts by day.
//
// A task that exhausts its retries, or fails unexpectedly, degrades to one
// minimal fallback record per attraction instead of aborting the run.
func (p *Planner) enrichDays(ctx context.Context, itin domain.Itinerary, preferences, language string) []domain.DayResult {
	sem := make(chan struct{}, 4)
	resultsCh := make(chan dayEnrichResult, len(itin))
	var wg sync.WaitGroup

	for _, dp := range itin {
		wg.Add(1)
		go func(day int, attractions []string) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			records := p.enrichOneDay(ctx, day, attractions, preferences, language)
			resultsCh <- dayEnrichResult{day: day, records: records}
		}(dp.Day, dp.Attractions)
	}

	wg.Wait()
	close(resultsCh)

	results := make([]dayEnrichResult, 0, len(itin))
	for r := range resultsCh {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].day < results[j].day })

	out := make([]domain.DayResult, 0, len(results))
	for _, r := range results {
		out = append(out, domain.DayResult{DayNumber: r.day, Attractions: r.records})
	}
	return out
}

// enrichOneDay runs the bounded retry loop for a single day's task.
// Validation failures re-invoke with a correction instruction; rate limits
// wait with linearly increasing backoff and re-invoke with a slow-down
// instruction. Retry exhaustion and unexpected errors degrade to fallback
// records.
func (p *Planner) enrichOneDay(ctx context.Context, day int, attractions []string, preferences, language string) []domain.AttractionResearch {
	maxRetries := p.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	baseWait := p.BaseWait
	if baseWait <= 0 {
		baseWait = defaultBaseWait
	}

	req := ports.EnrichRequest{
		DayNumber:   day,
		Attractions: attractions,
		Preferences: preferences,
		Language:    language,
	}

	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		result, err := p.Enricher.EnrichDay(ctx, req)
		if err == nil {
			log.Printf("enrich day=%d attempt=%d attractions=%d ok", day, attempt, len(result.Attractions))
			return result.Attractions
		}

		var vf *ports.ValidationFailureError
		var rl *ports.RateLimitedError
		switch {
		case errors.As(err, &vf):
			log.Printf("enrich day=%d attempt=%d validation failure: %v", day, attempt, vf)
			req.Feedback = fmt.Sprintf(
				"The previous response was not in the expected structure: %s. Provide the complete result again with every required field filled.",
				vf.Reason,
			)

		case errors.As(err, &rl):
			log.Printf("enrich day=%d attempt=%d rate limited: %v", day, attempt, rl)
			req.Feedback = "Too many searches in a short window hit the rate limit. Start over and spread the searches out to stay under the limit."

			// Linear backoff blocks only this day's task.
			wait := baseWait * time.Duration(attempt)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fallbackRecords(day, attractions)
			case <-timer.C:
			}

		default:
			log.Printf("enrich day=%d attempt=%d unexpected error: %v", day, attempt, err)
			return fallbackRecords(day, attractions)
		}
	}

	log.Printf("enrich day=%d retries exhausted, degrading to fallback records", day)
	return fallbackRecords(day, attractions)
}

// fallbackRecords builds one minimal record per attraction: name and day
// populated, every enrichment field empty, zero cost.
func fallbackRecords(day int, attractions []string) []domain.AttractionResearch {
	records := make([]domain.AttractionResearch, 0, len(attractions))
	for _, name := range attractions {
		records = append(records, domain.AttractionResearch{
			Name:      name,
			DayNumber: day,
			Currency:  fallbackCurrency,
		})
	}
	return records
}

// buildDocument reduces per-day results into the final document: records
// grouped by day number (task emit order preserved within a day) and costs
// summed per currency. Zero-cost records remain listed but contribute
// nothing to the sums.
func buildDocument(title string, results []domain.DayResult) *domain.ItineraryDocument {
	byDay := make(map[int][]domain.AttractionResearch)
	var dayOrder []int
	for _, r := range results {
		for _, rec := range r.Attractions {
			day := rec.DayNumber
			if day == 0 {
				day = r.DayNumber
			}
			if _, ok := byDay[day]; !ok {
				dayOrder = append(dayOrder, day)
			}
			byDay[day] = append(byDay[day], rec)
		}
	}
	sort.Ints(dayOrder)

	doc := &domain.ItineraryDocument{
		Title:           title,
		Days:            make([]domain.DayResult, 0, len(dayOrder)),
		CostsByCurrency: make(map[string]float64),
	}

	for _, day := range dayOrder {
		doc.Days = append(doc.Days, domain.DayResult{DayNumber: day, Attractions: byDay[day]})
		for _, rec := range byDay[day] {
			if rec.EstimatedCost <= 0 {
				continue
			}
			currency := rec.Currency
			if currency == "" {
				currency = fallbackCurrency
			}
			doc.CostsByCurrency[currency] += rec.EstimatedCost
		}
	}

	return doc
}

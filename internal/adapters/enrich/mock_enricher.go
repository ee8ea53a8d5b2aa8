package enrich

import (
	"context"
	"sync"

	"github.com/luizlzg/itinerary-generator/internal/domain"
	"github.com/luizlzg/itinerary-generator/internal/ports"
)

// MockEnricher replays a scripted sequence of outcomes per day, for tests.
// Each call consumes the next step for that day: a non-nil error step fails
// the attempt, otherwise the step's result is returned.
type MockEnricher struct {
	mu    sync.Mutex
	steps map[int][]MockStep

	// Calls records every request received, in arrival order.
	Calls []ports.EnrichRequest
}

type MockStep struct {
	Result domain.DayResult
	Err    error
}

func NewMockEnricher() *MockEnricher {
	return &MockEnricher{steps: make(map[int][]MockStep)}
}

// Script appends outcomes for a day, consumed one per attempt.
func (m *MockEnricher) Script(day int, steps ...MockStep) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps[day] = append(m.steps[day], steps...)
}

func (m *MockEnricher) EnrichDay(ctx context.Context, req ports.EnrichRequest) (domain.DayResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	queue := m.steps[req.DayNumber]
	if len(queue) == 0 {
		// Unscripted days succeed with empty descriptions.
		result := domain.DayResult{DayNumber: req.DayNumber}
		for _, name := range req.Attractions {
			result.Attractions = append(result.Attractions, domain.AttractionResearch{
				Name:      name,
				DayNumber: req.DayNumber,
				Currency:  "EUR",
			})
		}
		return result, nil
	}

	step := queue[0]
	m.steps[req.DayNumber] = queue[1:]

	if step.Err != nil {
		return domain.DayResult{}, step.Err
	}
	return step.Result, nil
}

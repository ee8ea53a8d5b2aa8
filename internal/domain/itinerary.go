package domain

import "sort"

// DayPlan lists the attractions assigned to one day, in visiting order.
type DayPlan struct {
	Day         int
	Attractions []string
}

// Itinerary is a complete day-by-day grouping, ordered by day number.
// It is recomputed wholesale on revision, never partially mutated.
type Itinerary []DayPlan

// NewItinerary builds an Itinerary from a total name -> day assignment,
// preserving the given name order within each day.
func NewItinerary(assignment map[string]int, nameOrder []string) Itinerary {
	byDay := make(map[int][]string)
	for _, name := range nameOrder {
		day, ok := assignment[name]
		if !ok {
			continue
		}
		byDay[day] = append(byDay[day], name)
	}

	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	itin := make(Itinerary, 0, len(days))
	for _, d := range days {
		itin = append(itin, DayPlan{Day: d, Attractions: byDay[d]})
	}
	return itin
}

// Names returns every attraction name across all days, day order first.
func (it Itinerary) Names() []string {
	var names []string
	for _, dp := range it {
		names = append(names, dp.Attractions...)
	}
	return names
}

// Day returns the plan for the given day number, if present.
func (it Itinerary) Day(n int) (DayPlan, bool) {
	for _, dp := range it {
		if dp.Day == n {
			return dp, true
		}
	}
	return DayPlan{}, false
}

// ItineraryDocument is the fully reduced output handed to a renderer:
// per-day researched attractions in visiting order plus a cost summary
// grouped by currency code. Zero-cost records stay in the listing but are
// excluded from the sums.
type ItineraryDocument struct {
	Title           string
	Days            []DayResult
	CostsByCurrency map[string]float64
}

package domain

// Attraction as stored in the repository: a named point of interest with
// optional day constraints. A zero day means "no constraint of that kind".
type Attraction struct {
	AttractionID int
	Name         string
	IsolatedDay  int
	PreferredDay int
}

// Image found for an attraction during enrichment.
type ImageInfo struct {
	ID      string
	URL     string
	Caption string
}

// Ticket or entrance information for an attraction.
type TicketInfo struct {
	Title   string
	Content string
	URL     string
}

// Useful link for an attraction.
type LinkInfo struct {
	Title string
	URL   string
}

// AttractionResearch is the enrichment result for a single attraction.
// A fallback record carries only the name and day number with all
// enrichment fields empty and zero cost.
type AttractionResearch struct {
	Name          string
	DayNumber     int
	Description   string
	Images        []ImageInfo
	TicketInfo    []TicketInfo
	UsefulLinks   []LinkInfo
	EstimatedCost float64
	Currency      string
}

// DayResult holds the researched attractions for one day, in visiting order.
type DayResult struct {
	DayNumber   int
	Attractions []AttractionResearch
}

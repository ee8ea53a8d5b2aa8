package dto

type PlanItineraryRequest struct {
	Title                   string         `json:"title"`
	Attractions             []string       `json:"attractions"`
	NumDays                 int            `json:"num_days"`
	IsolatedAttractions     map[string]int `json:"isolated_attractions"`
	PreferredAttractions    map[string]int `json:"preferred_attractions"`
	Preferences             string         `json:"preferences"`
	Language                string         `json:"language"`
	OptimizeOrderByDistance bool           `json:"optimize_order_by_distance"`
	StartingPoint           string         `json:"starting_point"`
	MinAttractionsPerDay    int            `json:"min_attractions_per_day"`
	MaxAttractionsPerDay    int            `json:"max_attractions_per_day"`
}

type DayPlanResponse struct {
	Day         int      `json:"day"`
	Attractions []string `json:"attractions"`
}

// ProposalResponse is the grouping suspended at the approval checkpoint.
type ProposalResponse struct {
	ProposalID string            `json:"proposal_id"`
	Days       []DayPlanResponse `json:"days"`
}

type ImageResponse struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

type TicketResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
}

type LinkResponse struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type ResearchedAttractionResponse struct {
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Images        []ImageResponse  `json:"images,omitempty"`
	TicketInfo    []TicketResponse `json:"ticket_info,omitempty"`
	UsefulLinks   []LinkResponse   `json:"useful_links,omitempty"`
	EstimatedCost float64          `json:"estimated_cost"`
	Currency      string           `json:"currency"`
}

type DocumentDayResponse struct {
	Day         int                            `json:"day"`
	Attractions []ResearchedAttractionResponse `json:"attractions"`
}

type DocumentResponse struct {
	Title           string                `json:"title"`
	Days            []DocumentDayResponse `json:"days"`
	CostsByCurrency map[string]float64    `json:"costs_by_currency"`
	DocumentPath    string                `json:"document_path,omitempty"`
}

type RevisedDayRequest struct {
	Day         int      `json:"day"`
	Attractions []string `json:"attractions"`
}

type ResolveProposalRequest struct {
	ProposalID  string              `json:"proposal_id"`
	Accept      bool                `json:"accept"`
	RevisedDays []RevisedDayRequest `json:"revised_days"`
}

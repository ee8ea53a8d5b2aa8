package dto

type AttractionResponse struct {
	AttractionID int    `json:"attraction_id"`
	Name         string `json:"name"`
	IsolatedDay  int    `json:"isolated_day,omitempty"`
	PreferredDay int    `json:"preferred_day,omitempty"`
}

type ListAttractionsResponse struct {
	Attractions []AttractionResponse `json:"attractions"`
}

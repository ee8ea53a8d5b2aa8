package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/luizlzg/itinerary-generator/internal/domain"
	"github.com/luizlzg/itinerary-generator/internal/platform/obs"
	"github.com/luizlzg/itinerary-generator/internal/ports"
)

// SearchEnricher researches a day's attractions through a Tavily-style
// web-search API: one information search and one image search per
// attraction. HTTP 429 maps to the orchestrator's RateLimited error and a
// structurally empty response maps to a ValidationFailure, so the caller's
// retry loop can distinguish the two.
type SearchEnricher struct {
	baseURL string
	apiKey  string
	session *http.Client

	// MaxResults caps search hits folded into one attraction record.
	MaxResults int
}

func NewSearchEnricher(baseURL, apiKey string) (*SearchEnricher, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("search enricher: baseURL must be non-empty")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("search enricher: apiKey must be non-empty")
	}

	return &SearchEnricher{
		baseURL:    baseURL,
		apiKey:     apiKey,
		session:    &http.Client{Timeout: 30 * time.Second},
		MaxResults: 3,
	}, nil
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeImages bool   `json:"include_images"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
	Images []string `json:"images"`
}

// EnrichDay researches every attraction for one day and compiles the
// structured result in the orderer's visiting order.
func (e *SearchEnricher) EnrichDay(ctx context.Context, req ports.EnrichRequest) (_ domain.DayResult, err error) {
	defer obs.Time(ctx, fmt.Sprintf("search.EnrichDay.%d", req.DayNumber))(&err)

	result := domain.DayResult{DayNumber: req.DayNumber}

	for _, name := range req.Attractions {
		record, err := e.researchAttraction(ctx, name, req)
		if err != nil {
			return domain.DayResult{}, err
		}
		result.Attractions = append(result.Attractions, record)
	}

	if len(result.Attractions) == 0 {
		return domain.DayResult{}, &ports.ValidationFailureError{Reason: "attractions list is empty"}
	}

	return result, nil
}

func (e *SearchEnricher) researchAttraction(ctx context.Context, name string, req ports.EnrichRequest) (domain.AttractionResearch, error) {
	query := fmt.Sprintf("%s tickets opening hours prices", name)
	if req.Preferences != "" {
		query = fmt.Sprintf("%s (%s)", query, req.Preferences)
	}

	info, err := e.search(ctx, query, false)
	if err != nil {
		return domain.AttractionResearch{}, err
	}

	images, err := e.search(ctx, fmt.Sprintf("%s photos", name), true)
	if err != nil {
		return domain.AttractionResearch{}, err
	}

	if len(info.Results) == 0 {
		return domain.AttractionResearch{}, &ports.ValidationFailureError{
			Reason: fmt.Sprintf("no search results for attraction %q", name),
		}
	}

	record := domain.AttractionResearch{
		Name:        name,
		DayNumber:   req.DayNumber,
		Description: info.Results[0].Content,
		Currency:    "EUR",
	}

	for _, r := range info.Results {
		record.UsefulLinks = append(record.UsefulLinks, domain.LinkInfo{Title: r.Title, URL: r.URL})
		if looksLikeTicketPage(r.Title, r.URL) {
			record.TicketInfo = append(record.TicketInfo, domain.TicketInfo{
				Title:   r.Title,
				Content: r.Content,
				URL:     r.URL,
			})
		}
	}

	for i, url := range images.Images {
		if i >= e.MaxResults {
			break
		}
		record.Images = append(record.Images, domain.ImageInfo{
			ID:      fmt.Sprintf("img_%d", i),
			URL:     url,
			Caption: fmt.Sprintf("Image related to %q", name),
		})
	}

	return record, nil
}

func (e *SearchEnricher) search(ctx context.Context, query string, includeImages bool) (*searchResponse, error) {
	body, err := json.Marshal(searchRequest{
		APIKey:        e.apiKey,
		Query:         query,
		MaxResults:    e.MaxResults,
		IncludeImages: includeImages,
	})
	if err != nil {
		return nil, fmt.Errorf("search: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := e.session.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &ports.RateLimitedError{RetryAfter: 10 * time.Second}
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ports.ValidationFailureError{Reason: fmt.Sprintf("malformed search response: %v", err)}
	}

	return &decoded, nil
}

func looksLikeTicketPage(title, url string) bool {
	s := strings.ToLower(title + " " + url)
	return strings.Contains(s, "ticket") || strings.Contains(s, "admission") || strings.Contains(s, "booking")
}

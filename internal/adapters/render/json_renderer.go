package render

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luizlzg/itinerary-generator/internal/domain"
)

// JSONRenderer writes the reduced itinerary document as a JSON file that a
// downstream layout tool (DOCX, PDF) can consume. Document layout itself is
// deliberately out of scope here.
type JSONRenderer struct {
	OutputDir string
}

func NewJSONRenderer(outputDir string) *JSONRenderer {
	return &JSONRenderer{OutputDir: outputDir}
}

type renderedImage struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

type renderedTicket struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
}

type renderedLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type renderedAttraction struct {
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Images        []renderedImage  `json:"images,omitempty"`
	TicketInfo    []renderedTicket `json:"ticket_info,omitempty"`
	UsefulLinks   []renderedLink   `json:"useful_links,omitempty"`
	EstimatedCost float64          `json:"estimated_cost"`
	Currency      string           `json:"currency"`
}

type renderedDay struct {
	Day         int                  `json:"day"`
	Attractions []renderedAttraction `json:"attractions"`
}

type renderedDocument struct {
	Title           string             `json:"title"`
	Days            []renderedDay      `json:"days"`
	CostsByCurrency map[string]float64 `json:"costs_by_currency"`
}

// RenderDocument writes the document and returns the created file path.
func (r *JSONRenderer) RenderDocument(ctx context.Context, doc *domain.ItineraryDocument) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("render document: document is nil")
	}

	out := renderedDocument{
		Title:           doc.Title,
		Days:            make([]renderedDay, 0, len(doc.Days)),
		CostsByCurrency: doc.CostsByCurrency,
	}

	for _, day := range doc.Days {
		rd := renderedDay{Day: day.DayNumber}
		for _, a := range day.Attractions {
			ra := renderedAttraction{
				Name:          a.Name,
				Description:   a.Description,
				EstimatedCost: a.EstimatedCost,
				Currency:      a.Currency,
			}
			for _, img := range a.Images {
				ra.Images = append(ra.Images, renderedImage{ID: img.ID, URL: img.URL, Caption: img.Caption})
			}
			for _, t := range a.TicketInfo {
				ra.TicketInfo = append(ra.TicketInfo, renderedTicket{Title: t.Title, Content: t.Content, URL: t.URL})
			}
			for _, l := range a.UsefulLinks {
				ra.UsefulLinks = append(ra.UsefulLinks, renderedLink{Title: l.Title, URL: l.URL})
			}
			rd.Attractions = append(rd.Attractions, ra)
		}
		out.Days = append(out.Days, rd)
	}

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("render document: create output dir: %w", err)
	}

	path := filepath.Join(r.OutputDir, fmt.Sprintf("%s_%s.json", slugify(doc.Title), time.Now().Format("20060102_150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("render document: create %q: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("render document: encode json: %w", err)
	}

	return path, nil
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "itinerary"
	}
	return b.String()
}

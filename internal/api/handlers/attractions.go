package handlers

import (
	"log"
	"net/http"

	"github.com/luizlzg/itinerary-generator/internal/api/dto"
	"github.com/luizlzg/itinerary-generator/internal/ports"
)

// AttractionHandler exposes read-only attraction retrieval endpoints.
type AttractionHandler struct {
	Repo ports.AttractionRepository
}

func (h *AttractionHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	attractions, err := h.Repo.ListAttractions(r.Context())
	if err != nil {
		log.Printf("list attractions failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListAttractionsResponse{
		Attractions: make([]dto.AttractionResponse, 0, len(attractions)),
	}
	for _, a := range attractions {
		res.Attractions = append(res.Attractions, dto.AttractionResponse{
			AttractionID: a.AttractionID,
			Name:         a.Name,
			IsolatedDay:  a.IsolatedDay,
			PreferredDay: a.PreferredDay,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

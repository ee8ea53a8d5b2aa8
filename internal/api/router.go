package api

import (
	"net/http"

	"github.com/luizlzg/itinerary-generator/internal/api/handlers"
	"github.com/luizlzg/itinerary-generator/internal/ports"
	"github.com/luizlzg/itinerary-generator/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(planner *services.Planner, repo ports.AttractionRepository) http.Handler {
	mux := http.NewServeMux()

	itinHandler := &handlers.ItineraryHandler{Planner: planner}
	attractionHandler := &handlers.AttractionHandler{Repo: repo}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/attractions", attractionHandler.List)
	mux.HandleFunc("/itineraries", itinHandler.Plan)
	mux.HandleFunc("/itineraries/approval", itinHandler.Resolve)

	return loggingMiddleware(mux)
}

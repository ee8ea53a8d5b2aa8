package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/luizlzg/itinerary-generator/internal/api/dto"
	"github.com/luizlzg/itinerary-generator/internal/domain"
	"github.com/luizlzg/itinerary-generator/internal/services"
)

// ItineraryHandler exposes the planning pipeline and its approval
// checkpoint. Handlers stay unaware of concrete adapters; all collaborators
// arrive through the Planner.
type ItineraryHandler struct {
	Planner *services.Planner
}

// Plan runs day organization for the requested attractions. When clustering
// proposed the grouping, a 202 with the pending proposal is returned and the
// caller resumes through Resolve; otherwise the finished document comes back
// directly.
func (h *ItineraryHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanItineraryRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.NumDays < 1 {
		writeError(w, r, http.StatusBadRequest, "num_days must be at least 1")
		return
	}
	if req.MinAttractionsPerDay < 0 || req.MaxAttractionsPerDay < 0 {
		writeError(w, r, http.StatusBadRequest, "size constraints cannot be negative")
		return
	}
	if req.MaxAttractionsPerDay > 0 && req.MinAttractionsPerDay > req.MaxAttractionsPerDay {
		writeError(w, r, http.StatusBadRequest, "min_attractions_per_day cannot exceed max_attractions_per_day")
		return
	}

	svcReq := services.PlanRequest{
		Title:       strings.TrimSpace(req.Title),
		Attractions: req.Attractions,
		NumDays:     req.NumDays,
		Constraints: services.Constraints{
			Isolated:  req.IsolatedAttractions,
			Preferred: req.PreferredAttractions,
		},
		Preferences: req.Preferences,
		Language:    req.Language,
		Options: services.AssignmentOptions{
			OptimizeOrderByDistance: req.OptimizeOrderByDistance,
			StartingPoint:           req.StartingPoint,
			MinAttractionsPerDay:    req.MinAttractionsPerDay,
			MaxAttractionsPerDay:    req.MaxAttractionsPerDay,
		},
	}

	outcome, err := h.Planner.Plan(r.Context(), svcReq)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	if outcome.Proposal != nil {
		writeJSON(w, r, http.StatusAccepted, toProposalResponse(outcome.Proposal))
		return
	}

	writeJSON(w, r, http.StatusOK, toDocumentResponse(outcome))
}

// Resolve resumes a suspended proposal with the caller's decision: accept,
// or submit a full replacement grouping and review again.
func (h *ItineraryHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ResolveProposalRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if strings.TrimSpace(req.ProposalID) == "" {
		writeError(w, r, http.StatusBadRequest, "proposal_id is required")
		return
	}
	if !req.Accept && len(req.RevisedDays) == 0 {
		writeError(w, r, http.StatusBadRequest, "revised_days is required when not accepting")
		return
	}

	decision := services.ApprovalDecision{Accept: req.Accept}
	if !req.Accept {
		decision.RevisedDays = make(map[int][]string, len(req.RevisedDays))
		for _, rd := range req.RevisedDays {
			if _, dup := decision.RevisedDays[rd.Day]; dup {
				writeError(w, r, http.StatusBadRequest, "revised_days lists the same day twice")
				return
			}
			decision.RevisedDays[rd.Day] = rd.Attractions
		}
	}

	outcome, err := h.Planner.Resolve(r.Context(), req.ProposalID, decision)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	if outcome.Proposal != nil {
		writeJSON(w, r, http.StatusAccepted, toProposalResponse(outcome.Proposal))
		return
	}

	writeJSON(w, r, http.StatusOK, toDocumentResponse(outcome))
}

// writePlanError maps the pipeline's typed errors onto HTTP statuses.
// Caller mistakes come back as 4xx with the precise reason; anything else
// is logged and hidden behind a 500.
func writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidDay  *services.InvalidDayAssignmentError
		conflicting *services.ConflictingConstraintError
		reserved    *services.ReservedDayConflictError
		unresolved  *services.UnresolvedAttractionError
		noCoords    *services.NoCoordinatesError
		noDays      *services.NoDaysAvailableError
		infeasible  *services.InfeasibleSizeConstraintError
		geocode     *services.GeocodeFailedError
		unknownProp *services.UnknownProposalError
		missing     *services.MissingAttractionError
		unknownAttr *services.UnknownAttractionError
		duplicate   *services.DuplicateAttractionError
	)

	switch {
	case errors.As(err, &invalidDay),
		errors.As(err, &conflicting),
		errors.As(err, &reserved),
		errors.As(err, &unresolved),
		errors.As(err, &noDays),
		errors.As(err, &infeasible),
		errors.As(err, &missing),
		errors.As(err, &unknownAttr),
		errors.As(err, &duplicate):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &noCoords), errors.As(err, &geocode):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &unknownProp):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		log.Printf("plan itinerary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func toProposalResponse(p *services.Proposal) dto.ProposalResponse {
	res := dto.ProposalResponse{
		ProposalID: p.ID,
		Days:       make([]dto.DayPlanResponse, 0, len(p.Itinerary)),
	}
	for _, dp := range p.Itinerary {
		res.Days = append(res.Days, dto.DayPlanResponse{Day: dp.Day, Attractions: dp.Attractions})
	}
	return res
}

func toDocumentResponse(outcome *services.PlanOutcome) dto.DocumentResponse {
	doc := outcome.Document
	res := dto.DocumentResponse{
		Title:           doc.Title,
		Days:            make([]dto.DocumentDayResponse, 0, len(doc.Days)),
		CostsByCurrency: doc.CostsByCurrency,
		DocumentPath:    outcome.DocumentPath,
	}
	for _, day := range doc.Days {
		res.Days = append(res.Days, dto.DocumentDayResponse{
			Day:         day.DayNumber,
			Attractions: toAttractionResponses(day.Attractions),
		})
	}
	return res
}

func toAttractionResponses(records []domain.AttractionResearch) []dto.ResearchedAttractionResponse {
	out := make([]dto.ResearchedAttractionResponse, 0, len(records))
	for _, a := range records {
		res := dto.ResearchedAttractionResponse{
			Name:          a.Name,
			Description:   a.Description,
			EstimatedCost: a.EstimatedCost,
			Currency:      a.Currency,
		}
		for _, img := range a.Images {
			res.Images = append(res.Images, dto.ImageResponse{ID: img.ID, URL: img.URL, Caption: img.Caption})
		}
		for _, t := range a.TicketInfo {
			res.TicketInfo = append(res.TicketInfo, dto.TicketResponse{Title: t.Title, Content: t.Content, URL: t.URL})
		}
		for _, l := range a.UsefulLinks {
			res.UsefulLinks = append(res.UsefulLinks, dto.LinkResponse{Title: l.Title, URL: l.URL})
		}
		out = append(out, res)
	}
	return out
}

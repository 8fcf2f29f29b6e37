package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(standingsService services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService}
}

func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	orgID, err := getIDFromURL(r, "orgID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	divisionID, err := getOptionalIntQuery(r, "division_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.standingsService.GetStandings(r.Context(), orgID, seasonID, divisionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecomputeStandings forces a fresh computation. With a division_id query
// parameter only that division is recomputed, otherwise the whole season is.
func (h *StandingsHandler) RecomputeStandings(w http.ResponseWriter, r *http.Request) {
	orgID, err := getIDFromURL(r, "orgID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	divisionID, err := getOptionalIntQuery(r, "division_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var snapshot interface{}
	if divisionID != nil {
		snapshot, err = h.standingsService.ComputeStandings(r.Context(), orgID, seasonID, divisionID)
	} else {
		snapshot, err = h.standingsService.RecomputeSeason(r.Context(), orgID, seasonID)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

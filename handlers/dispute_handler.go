package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/services"
)

type DisputeHandler struct {
	disputeService services.DisputeService
}

func NewDisputeHandler(disputeService services.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputeService: disputeService}
}

func (h *DisputeHandler) OpenDispute(w http.ResponseWriter, r *http.Request) {
	orgID, err := getIDFromURL(r, "orgID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "missing or invalid authentication token")
		return
	}

	var input services.OpenDisputeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.CreatedBy = userID

	dispute, err := h.disputeService.OpenDispute(r.Context(), orgID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"dispute": dispute}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DisputeHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	orgID, err := getIDFromURL(r, "orgID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	disputeID, err := getIDFromURL(r, "disputeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "missing or invalid authentication token")
		return
	}

	var input services.ResolveDisputeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.RuledBy = userID

	ruling, err := h.disputeService.ResolveDispute(r.Context(), orgID, disputeID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"ruling": ruling}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

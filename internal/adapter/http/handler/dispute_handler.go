package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gigvora/escrow/internal/adapter/http/dto"
	"github.com/gigvora/escrow/internal/usecase"
)

// DisputeHandler serves dispute endpoints.
type DisputeHandler struct {
	disputeUC  *usecase.DisputeUseCase
	overviewUC *usecase.OverviewUseCase
}

// NewDisputeHandler creates a new DisputeHandler.
func NewDisputeHandler(disputeUC *usecase.DisputeUseCase, overviewUC *usecase.OverviewUseCase) *DisputeHandler {
	return &DisputeHandler{disputeUC: disputeUC, overviewUC: overviewUC}
}

// Open handles POST /freelancers/{freelancerID}/escrow/transactions/{transactionID}/disputes.
func (h *DisputeHandler) Open(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")
	transactionID := chi.URLParam(r, "transactionID")

	var req dto.OpenDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	dispute, err := h.disputeUC.OpenDispute(r.Context(), req.ToUseCaseInput(freelancerID, transactionID))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	h.overviewUC.Invalidate(r.Context(), freelancerID)
	writeJSON(w, http.StatusCreated, dto.DisputeFromDomain(dispute))
}

// AppendEvent handles POST /freelancers/{freelancerID}/escrow/disputes/{disputeID}/events.
func (h *DisputeHandler) AppendEvent(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")
	disputeID := chi.URLParam(r, "disputeID")

	var req dto.AppendDisputeEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	dispute, err := h.disputeUC.AppendDisputeEvent(r.Context(), req.ToUseCaseInput(freelancerID, disputeID))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	h.overviewUC.Invalidate(r.Context(), freelancerID)
	writeJSON(w, http.StatusCreated, dto.DisputeFromDomain(dispute))
}

// Get handles GET /freelancers/{freelancerID}/escrow/disputes/{disputeID}.
func (h *DisputeHandler) Get(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")
	disputeID := chi.URLParam(r, "disputeID")

	dispute, err := h.disputeUC.GetDispute(r.Context(), freelancerID, disputeID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DisputeFromDomain(dispute))
}

// List handles GET /freelancers/{freelancerID}/escrow/disputes.
func (h *DisputeHandler) List(w http.ResponseWriter, r *http.Request) {
	disputes, err := h.disputeUC.ListDisputes(r.Context(), usecase.ListDisputesInput{
		FreelancerID: chi.URLParam(r, "freelancerID"),
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DisputesFromDomain(disputes))
}

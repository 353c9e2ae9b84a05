package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gigvora/escrow/internal/adapter/http/dto"
	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
)

// OverviewHandler serves the aggregated escrow overview.
type OverviewHandler struct {
	overviewUC *usecase.OverviewUseCase
}

// NewOverviewHandler creates a new OverviewHandler.
func NewOverviewHandler(overviewUC *usecase.OverviewUseCase) *OverviewHandler {
	return &OverviewHandler{overviewUC: overviewUC}
}

// Get handles GET /freelancers/{freelancerID}/escrow/overview.
//
// Optional query parameters: status and transaction_id narrow the
// transaction list, force=true skips the cached snapshot.
func (h *OverviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	overview, err := h.overviewUC.BuildOverview(r.Context(), usecase.BuildOverviewInput{
		FreelancerID:  chi.URLParam(r, "freelancerID"),
		Status:        domain.TransactionStatus(query.Get("status")),
		TransactionID: query.Get("transaction_id"),
		Force:         query.Get("force") == "true",
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OverviewFromDomain(overview))
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gigvora/escrow/internal/adapter/http/dto"
	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
)

// TransactionHandler serves escrow transaction endpoints.
type TransactionHandler struct {
	transactionUC *usecase.TransactionUseCase
	overviewUC    *usecase.OverviewUseCase
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC *usecase.TransactionUseCase, overviewUC *usecase.OverviewUseCase) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC, overviewUC: overviewUC}
}

// Create handles POST /freelancers/{freelancerID}/escrow/transactions.
// Funding is the only way a transaction enters the system.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")

	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	txn, err := h.transactionUC.CreateTransaction(r.Context(), req.ToUseCaseInput(freelancerID))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	h.overviewUC.Invalidate(r.Context(), freelancerID)
	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Release handles POST /freelancers/{freelancerID}/escrow/transactions/{transactionID}/release.
func (h *TransactionHandler) Release(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")
	transactionID := chi.URLParam(r, "transactionID")

	txn, err := h.transactionUC.ReleaseTransaction(r.Context(), freelancerID, transactionID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	h.overviewUC.Invalidate(r.Context(), freelancerID)
	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Refund handles POST /freelancers/{freelancerID}/escrow/transactions/{transactionID}/refund.
func (h *TransactionHandler) Refund(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")
	transactionID := chi.URLParam(r, "transactionID")

	txn, err := h.transactionUC.RefundTransaction(r.Context(), freelancerID, transactionID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	h.overviewUC.Invalidate(r.Context(), freelancerID)
	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Get handles GET /freelancers/{freelancerID}/escrow/transactions/{transactionID}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")
	transactionID := chi.URLParam(r, "transactionID")

	txn, err := h.transactionUC.GetTransaction(r.Context(), freelancerID, transactionID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// List handles GET /freelancers/{freelancerID}/escrow/transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txns, err := h.transactionUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		FreelancerID: chi.URLParam(r, "freelancerID"),
		Status:       domain.TransactionStatus(r.URL.Query().Get("status")),
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

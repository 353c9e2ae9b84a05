package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gigvora/escrow/internal/adapter/http/dto"
	"github.com/gigvora/escrow/internal/usecase"
)

// AccountHandler serves escrow account endpoints.
type AccountHandler struct {
	accountUC  *usecase.AccountUseCase
	overviewUC *usecase.OverviewUseCase
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC *usecase.AccountUseCase, overviewUC *usecase.OverviewUseCase) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, overviewUC: overviewUC}
}

// Create handles POST /freelancers/{freelancerID}/escrow/accounts.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")

	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(freelancerID))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	h.overviewUC.Invalidate(r.Context(), freelancerID)
	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Update handles PATCH /freelancers/{freelancerID}/escrow/accounts/{accountID}.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")
	accountID := chi.URLParam(r, "accountID")

	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(), req.ToUseCaseInput(freelancerID, accountID))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	h.overviewUC.Invalidate(r.Context(), freelancerID)
	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Get handles GET /freelancers/{freelancerID}/escrow/accounts/{accountID}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")
	accountID := chi.URLParam(r, "accountID")

	account, err := h.accountUC.GetAccount(r.Context(), freelancerID, accountID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List handles GET /freelancers/{freelancerID}/escrow/accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		FreelancerID: chi.URLParam(r, "freelancerID"),
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

package client

import (
	"context"
	"net/http"

	"github.com/gigvora/escrow/internal/adapter/http/dto"
	"github.com/gigvora/escrow/internal/domain"
)

// Action names recorded in ActionState.
const (
	ActionCreateAccount      = "createAccount"
	ActionUpdateAccount      = "updateAccount"
	ActionCreateTransaction  = "createTransaction"
	ActionReleaseTransaction = "releaseTransaction"
	ActionRefundTransaction  = "refundTransaction"
	ActionOpenDispute        = "openDispute"
	ActionAppendDisputeEvent = "appendDisputeEvent"
)

// runAction wraps every mutation in the same protocol: guard against a
// missing freelancer id, record pending, call the endpoint, force a
// cache refresh on success and record the outcome. Errors are returned
// to the caller unchanged.
func runAction[T any](c *Client, ctx context.Context, action string, call func(context.Context) (T, error)) (T, error) {
	var zero T

	if c.freelancerID == "" {
		return zero, ErrNoFreelancer
	}

	c.setActionState(ActionState{Action: action, Status: ActionPending})

	result, err := call(ctx)
	if err != nil {
		c.setActionState(ActionState{Action: action, Status: ActionError, Err: err})
		return zero, err
	}

	// Refresh strictly follows the successful mutation so the caller
	// observes server-computed balances, never locally patched ones.
	if _, refreshErr := c.Refresh(ctx); refreshErr != nil {
		c.logger.Warn().Err(refreshErr).Str("action", action).Msg("post-mutation refresh failed")
	}

	c.setActionState(ActionState{Action: action, Status: ActionSuccess})

	return result, nil
}

// CreateAccount opens a new escrow account.
func (c *Client) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	return runAction(c, ctx, ActionCreateAccount, func(ctx context.Context) (*domain.Account, error) {
		var resp dto.AccountResponse
		if err := c.doJSON(ctx, http.MethodPost, c.escrowPath("/accounts"), req, &resp); err != nil {
			return nil, err
		}
		return resp.ToDomain(), nil
	})
}

// UpdateAccount applies a partial account update.
func (c *Client) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	return runAction(c, ctx, ActionUpdateAccount, func(ctx context.Context) (*domain.Account, error) {
		var resp dto.AccountResponse
		if err := c.doJSON(ctx, http.MethodPatch, c.escrowPath("/accounts/"+accountID), req, &resp); err != nil {
			return nil, err
		}
		return resp.ToDomain(), nil
	})
}

// CreateTransaction funds a milestone into escrow.
func (c *Client) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	return runAction(c, ctx, ActionCreateTransaction, func(ctx context.Context) (*domain.Transaction, error) {
		var resp dto.TransactionResponse
		if err := c.doJSON(ctx, http.MethodPost, c.escrowPath("/transactions"), req, &resp); err != nil {
			return nil, err
		}
		return resp.ToDomain(), nil
	})
}

// ReleaseTransaction pays out a held transaction to the freelancer.
func (c *Client) ReleaseTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return runAction(c, ctx, ActionReleaseTransaction, func(ctx context.Context) (*domain.Transaction, error) {
		var resp dto.TransactionResponse
		path := c.escrowPath("/transactions/" + transactionID + "/release")
		if err := c.doJSON(ctx, http.MethodPost, path, struct{}{}, &resp); err != nil {
			return nil, err
		}
		return resp.ToDomain(), nil
	})
}

// RefundTransaction returns held funds to the counterparty.
func (c *Client) RefundTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return runAction(c, ctx, ActionRefundTransaction, func(ctx context.Context) (*domain.Transaction, error) {
		var resp dto.TransactionResponse
		path := c.escrowPath("/transactions/" + transactionID + "/refund")
		if err := c.doJSON(ctx, http.MethodPost, path, struct{}{}, &resp); err != nil {
			return nil, err
		}
		return resp.ToDomain(), nil
	})
}

// OpenDispute escalates a transaction into a dispute.
func (c *Client) OpenDispute(ctx context.Context, transactionID string, req dto.OpenDisputeRequest) (*domain.Dispute, error) {
	return runAction(c, ctx, ActionOpenDispute, func(ctx context.Context) (*domain.Dispute, error) {
		var resp dto.DisputeResponse
		path := c.escrowPath("/transactions/" + transactionID + "/disputes")
		if err := c.doJSON(ctx, http.MethodPost, path, req, &resp); err != nil {
			return nil, err
		}
		return resp.ToDomain(), nil
	})
}

// AppendDisputeEvent adds a note to a dispute timeline.
func (c *Client) AppendDisputeEvent(ctx context.Context, disputeID string, req dto.AppendDisputeEventRequest) (*domain.Dispute, error) {
	return runAction(c, ctx, ActionAppendDisputeEvent, func(ctx context.Context) (*domain.Dispute, error) {
		var resp dto.DisputeResponse
		path := c.escrowPath("/disputes/" + disputeID + "/events")
		if err := c.doJSON(ctx, http.MethodPost, path, req, &resp); err != nil {
			return nil, err
		}
		return resp.ToDomain(), nil
	})
}

package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gigvora/escrow/internal/adapter/http/dto"
	"github.com/gigvora/escrow/internal/domain"
)

// OverviewResult is the aggregator's answer: the overview plus enough
// context for a consumer to distinguish fresh, stale-but-displayed and
// failed-no-data states.
type OverviewResult struct {
	Overview    *domain.Overview
	FromCache   bool
	Stale       bool
	LastUpdated time.Time
	Err         error
}

// OverviewFilters narrow the transaction list server-side. Filtered
// fetches never touch the cache.
type OverviewFilters struct {
	Status        string
	TransactionID string
}

// FetchOverview returns the freelancer's overview. Without a bound
// freelancer id it returns the frozen zero overview and performs no
// network call. Within the cache TTL the cached snapshot is returned;
// on transport failure an existing stale snapshot stays servable with
// the error recorded on the result.
func (c *Client) FetchOverview(ctx context.Context, filters *OverviewFilters) (*OverviewResult, error) {
	if c.freelancerID == "" {
		return &OverviewResult{Overview: domain.ZeroOverview()}, nil
	}

	if filters != nil && (filters.Status != "" || filters.TransactionID != "") {
		overview, err := c.fetchRemote(ctx, filters)
		if err != nil {
			return nil, err
		}
		return &OverviewResult{Overview: overview, LastUpdated: time.Now()}, nil
	}

	if entry, fresh := c.cache.get(c.freelancerID); fresh && entry.overview != nil {
		return &OverviewResult{
			Overview:    entry.overview,
			FromCache:   true,
			LastUpdated: entry.fetchedAt,
			Err:         entry.err,
		}, nil
	}

	return c.Refresh(ctx)
}

// Refresh fetches unconditionally, bypassing the TTL, and replaces the
// cached snapshot on success. On failure the previous snapshot (if
// any) is served stale with the error attached.
func (c *Client) Refresh(ctx context.Context) (*OverviewResult, error) {
	if c.freelancerID == "" {
		return &OverviewResult{Overview: domain.ZeroOverview()}, nil
	}

	overview, err := c.fetchRemote(ctx, nil)
	if err != nil {
		c.cache.setError(c.freelancerID, err)
		c.logger.Warn().Err(err).Str("freelancer_id", c.freelancerID).Msg("overview fetch failed")

		if entry, _ := c.cache.get(c.freelancerID); entry != nil && entry.overview != nil {
			return &OverviewResult{
				Overview:    entry.overview,
				FromCache:   true,
				Stale:       true,
				LastUpdated: entry.fetchedAt,
				Err:         err,
			}, nil
		}

		return nil, err
	}

	c.cache.set(c.freelancerID, overview)

	return &OverviewResult{Overview: overview, LastUpdated: time.Now()}, nil
}

func (c *Client) fetchRemote(ctx context.Context, filters *OverviewFilters) (*domain.Overview, error) {
	path := c.escrowPath("/overview")

	if filters != nil {
		query := url.Values{}
		if filters.Status != "" {
			query.Set("status", filters.Status)
		}
		if filters.TransactionID != "" {
			query.Set("transaction_id", filters.TransactionID)
		}
		if encoded := query.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var resp dto.OverviewResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return resp.ToDomain(), nil
}

// Package catalog is the REST client for the remote SKU catalog store.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"admin-console/internal/models"
	"admin-console/internal/util"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Client wraps the catalog endpoint with a timeout and a circuit breaker.
// Failed calls are returned as-is: no retries, no backoff.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient creates a catalog client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0)

	return &Client{
		http:    httpClient,
		breaker: newBreaker("catalog"),
		logger:  util.GetLogger(),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})
}

// ListActiveSKUs fetches one page of active SKUs matching search. The page
// number is the cursor; a full page means more may follow.
func (c *Client) ListActiveSKUs(ctx context.Context, search string, page, pageSize int) ([]models.SKUOption, error) {
	ctx, span := util.StartSpan(ctx, "catalog.ListActiveSKUs")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CatalogLookupLatency.Observe(time.Since(start).Seconds())
	}()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out []models.SKUOption
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"_page":  strconv.Itoa(page),
				"_limit": strconv.Itoa(pageSize),
				"q":      search,
				"active": "true",
			}).
			SetResult(&out).
			Get("/skus")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("catalog lookup: status %d", resp.StatusCode())
		}
		return out, nil
	})
	if err != nil {
		util.CatalogLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to list active SKUs: %w", err)
	}

	util.CatalogLookupsTotal.WithLabelValues("ok").Inc()
	return result.([]models.SKUOption), nil
}

// ListSKUs fetches the full catalog, active and inactive
func (c *Client) ListSKUs(ctx context.Context) ([]models.SKU, error) {
	ctx, span := util.StartSpan(ctx, "catalog.ListSKUs")
	defer span.End()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out []models.SKU
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&out).
			Get("/skus")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("catalog list: status %d", resp.StatusCode())
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list SKUs: %w", err)
	}
	return result.([]models.SKU), nil
}

// CreateSKU registers a new SKU; the store assigns the id
func (c *Client) CreateSKU(ctx context.Context, sku *models.SKU) error {
	ctx, span := util.StartSpan(ctx, "catalog.CreateSKU")
	defer span.End()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out models.SKU
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(sku).
			SetResult(&out).
			Post("/skus")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("catalog create: status %d", resp.StatusCode())
		}
		return &out, nil
	})
	if err != nil {
		return fmt.Errorf("failed to create SKU: %w", err)
	}

	*sku = *result.(*models.SKU)
	return nil
}

// UpdateSKU replaces the stored record for sku.ID
func (c *Client) UpdateSKU(ctx context.Context, sku *models.SKU) error {
	ctx, span := util.StartSpan(ctx, "catalog.UpdateSKU")
	defer span.End()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out models.SKU
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(sku).
			SetResult(&out).
			Put(fmt.Sprintf("/skus/%d", sku.ID))
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("catalog update: status %d", resp.StatusCode())
		}
		return &out, nil
	})
	if err != nil {
		return fmt.Errorf("failed to update SKU %d: %w", sku.ID, err)
	}

	*sku = *result.(*models.SKU)
	return nil
}

// DeleteSKU removes a SKU from the catalog
func (c *Client) DeleteSKU(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "catalog.DeleteSKU")
	defer span.End()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			Delete(fmt.Sprintf("/skus/%d", id))
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("catalog delete: status %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete SKU %d: %w", id, err)
	}
	return nil
}

// SetActive flips the active flag by writing back the full record, the way
// the store expects
func (c *Client) SetActive(ctx context.Context, sku models.SKU, active bool) (*models.SKU, error) {
	sku.Active = active
	if err := c.UpdateSKU(ctx, &sku); err != nil {
		return nil, err
	}
	return &sku, nil
}

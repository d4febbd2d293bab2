// Package orderstore is the REST client for the remote order store. Orders
// are fetched wholesale; all filtering, sorting and paging happens locally.
package orderstore

import (
	"context"
	"fmt"
	"time"

	"admin-console/internal/models"
	"admin-console/internal/util"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient creates an order store client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0)

	return &Client{
		http: httpClient,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "order-store",
			MaxRequests: 3,
			Interval:    15 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}),
		logger: util.GetLogger(),
	}
}

// ListOrders fetches the complete order collection
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "orderstore.ListOrders")
	defer span.End()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out []models.Order
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&out).
			Get("/orders")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("order list: status %d", resp.StatusCode())
		}
		return out, nil
	})
	if err != nil {
		util.OrdersRefreshTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	util.OrdersRefreshTotal.WithLabelValues("ok").Inc()
	return result.([]models.Order), nil
}

// CreateOrder submits a composed order; the store assigns the id
func (c *Client) CreateOrder(ctx context.Context, order *models.Order) error {
	ctx, span := util.StartSpan(ctx, "orderstore.CreateOrder")
	defer span.End()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out models.Order
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(order).
			SetResult(&out).
			Post("/orders")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("order create: status %d", resp.StatusCode())
		}
		return &out, nil
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	*order = *result.(*models.Order)
	return nil
}

// UpdateStatus moves one order to the given lifecycle status
func (c *Client) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	ctx, span := util.StartSpan(ctx, "orderstore.UpdateStatus")
	defer span.End()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(map[string]string{"status": status}).
			Patch(fmt.Sprintf("/orders/%d", orderID))
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("order status update: status %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		c.logger.Warn("Order status update failed",
			zap.Int64("order_id", orderID),
			zap.String("status", status),
			zap.Error(err))
		return fmt.Errorf("failed to update order %d: %w", orderID, err)
	}
	return nil
}

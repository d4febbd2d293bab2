// Package composer validates and submits manually composed orders.
package composer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"admin-console/internal/models"
	"admin-console/internal/notify"
	"admin-console/internal/util"

	"go.uber.org/zap"
)

// Form is the order entry form as the operator fills it in.
type Form struct {
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	Phone   string             `json:"phone"`
	Address string             `json:"address"`
	City    string             `json:"city"`
	Country string             `json:"country"`
	Items   []models.OrderItem `json:"items"`
}

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	countryPattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// Validate checks every field and returns field-keyed messages. An empty map
// means the form may be submitted.
func Validate(f *Form) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Full Name is required"
	}
	if !emailPattern.MatchString(f.Email) {
		errs["email"] = "Invalid email format"
	}
	if !phonePattern.MatchString(f.Phone) {
		errs["phone"] = "Phone No must be 10 digits"
	}
	if strings.TrimSpace(f.Address) == "" {
		errs["address"] = "Address is required"
	}
	if strings.TrimSpace(f.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(f.Country) == "" {
		errs["country"] = "Country is required"
	} else if !countryPattern.MatchString(f.Country) {
		errs["country"] = "Country must contain only letters"
	}

	if len(f.Items) == 0 {
		errs["items"] = "At least one SKU must be added"
	} else {
		for i, item := range f.Items {
			if item.SKUID == 0 {
				errs[fmt.Sprintf("skuId_%d", i)] = "Please select a SKU"
			}
			if item.Qty < 1 {
				errs[fmt.Sprintf("qty_%d", i)] = "Quantity must be at least 1"
			}
		}
	}

	return errs
}

// Total sums qty times resolved price over the active SKU set. An item whose
// skuId does not resolve contributes nothing: the reference is weak.
func Total(items []models.OrderItem, skus []models.SKU) float64 {
	byID := make(map[int64]models.SKU, len(skus))
	for _, s := range skus {
		byID[s.ID] = s
	}

	var total float64
	for _, item := range items {
		if sku, ok := byID[item.SKUID]; ok {
			total += sku.Price * float64(item.Qty)
		}
	}
	return total
}

// CatalogLister provides the SKU set items are priced against.
type CatalogLister interface {
	ListSKUs(ctx context.Context) ([]models.SKU, error)
}

// OrderCreator accepts a composed order.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order *models.Order) error
}

// Composer turns a validated form into a stored order.
type Composer struct {
	catalog CatalogLister
	store   OrderCreator
	sink    notify.Notifier
	logger  *zap.Logger
}

func New(catalog CatalogLister, store OrderCreator, sink notify.Notifier) *Composer {
	return &Composer{
		catalog: catalog,
		store:   store,
		sink:    sink,
		logger:  util.GetLogger(),
	}
}

// Submit validates the form, prices it against the active SKU set and posts
// it to the order store. Field errors block submission without touching the
// store; a transport failure surfaces as an error notification.
func (c *Composer) Submit(ctx context.Context, f *Form) (*models.Order, map[string]string, error) {
	ctx, span := util.StartSpan(ctx, "composer.Submit")
	defer span.End()

	if errs := Validate(f); len(errs) > 0 {
		util.OrdersRejectedTotal.Inc()
		return nil, errs, nil
	}

	skus, err := c.catalog.ListSKUs(ctx)
	if err != nil {
		c.sink.Notify("Failed to load SKUs", notify.SeverityError)
		return nil, nil, fmt.Errorf("price order items: %w", err)
	}

	active := skus[:0:0]
	for _, s := range skus {
		if s.Active {
			active = append(active, s)
		}
	}

	order := &models.Order{
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Address:   f.Address,
		City:      f.City,
		Country:   f.Country,
		Items:     f.Items,
		Total:     Total(f.Items, active),
		Status:    models.OrderStatusNew,
		CreatedAt: time.Now().UTC(),
	}

	if err := c.store.CreateOrder(ctx, order); err != nil {
		c.sink.Notify("Failed to create order", notify.SeverityError)
		return nil, nil, fmt.Errorf("submit order: %w", err)
	}

	util.OrdersSubmittedTotal.Inc()
	c.logger.Info("Order submitted",
		zap.Int64("order_id", order.ID),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)))
	c.sink.Notify("Order Created", notify.SeveritySuccess)

	return order, nil, nil
}

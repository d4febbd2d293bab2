package models

import "time"

// SKU represents a purchasable catalog line item
type SKU struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Code   string  `json:"code"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
}

// SKUOption is the reduced SKU shape returned by paginated catalog lookups
type SKUOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Order represents a customer order, owned by the remote order store
type Order struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	City      string      `json:"city"`
	Country   string      `json:"country"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderItem references a SKU by id only; resolution against the active
// SKU set is best-effort and may miss
type OrderItem struct {
	SKUID int64 `json:"skuId"`
	Qty   int   `json:"qty"`
}

// Order statuses
const (
	OrderStatusNew       = "New"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// StatusFilterAll matches every order status on the dashboard
const StatusFilterAll = "All"

// ValidStatus reports whether s is a known order status
func ValidStatus(s string) bool {
	switch s {
	case OrderStatusNew, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidStatusFilter reports whether s is a known dashboard status filter
func ValidStatusFilter(s string) bool {
	return s == StatusFilterAll || ValidStatus(s)
}

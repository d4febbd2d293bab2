// Package dashboard drives the order dashboard: a wholesale-fetched order
// collection derived into a filtered, sorted, paged view, with a
// propose-then-confirm gate on bulk status transitions.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"admin-console/internal/models"
	"admin-console/internal/notify"
	"admin-console/internal/pagination"
	"admin-console/internal/util"

	"go.uber.org/zap"
)

// OrderStore is the order collaborator the engine refreshes from and routes
// confirmed bulk updates through.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

var (
	ErrNoSelection    = errors.New("no order selected")
	ErrNothingPending = errors.New("no pending transition")
	ErrInvalidStatus  = errors.New("invalid order status")
)

// PendingTransition is the propose-time snapshot gating a bulk status change.
// Confirm applies exactly AffectedIDs, regardless of later selection changes.
type PendingTransition struct {
	TargetStatus string  `json:"target_status"`
	AffectedIDs  []int64 `json:"affected_ids"`
}

// BulkResult reports a confirmed transition, split into the ids the store
// accepted and the ids it rejected.
type BulkResult struct {
	TargetStatus string
	UpdatedIDs   []int64
	FailedIDs    []int64
}

// Engine owns the dashboard state. All mutation is synchronous and
// single-writer; the derived view is recomputed from scratch on every read.
type Engine struct {
	mu       sync.Mutex
	store    OrderStore
	sink     notify.Notifier
	logger   *zap.Logger
	pageSize int

	orders       []models.Order
	statusFilter string
	search       string
	sortAsc      bool
	page         int
	selected     map[int64]struct{}
	pending      *PendingTransition
}

// View is the derived dashboard state for one page.
type View struct {
	Orders        []models.Order     `json:"orders"`
	Page          int                `json:"page"`
	TotalPages    int                `json:"total_pages"`
	TotalFiltered int                `json:"total_filtered"`
	StatusFilter  string             `json:"status_filter"`
	Search        string             `json:"search"`
	SortAscending bool               `json:"sort_ascending"`
	SelectedIDs   []int64            `json:"selected_ids"`
	Pending       *PendingTransition `json:"pending,omitempty"`
}

func New(store OrderStore, sink notify.Notifier, pageSize int) *Engine {
	return &Engine{
		store:        store,
		sink:         sink,
		logger:       util.GetLogger(),
		pageSize:     pageSize,
		statusFilter: models.StatusFilterAll,
		page:         1,
		selected:     make(map[int64]struct{}),
	}
}

// Refresh replaces the cached order collection wholesale. Selection survives:
// it is keyed by order identity, not by row position.
func (e *Engine) Refresh(ctx context.Context) error {
	orders, err := e.store.ListOrders(ctx)
	if err != nil {
		e.sink.Notify("Failed to load orders", notify.SeverityError)
		return fmt.Errorf("refresh orders: %w", err)
	}

	e.mu.Lock()
	e.orders = orders
	e.mu.Unlock()

	e.logger.Info("Order collection refreshed", zap.Int("count", len(orders)))
	return nil
}

// SetStatusFilter narrows the view to one status (or All) and rewinds to the
// first page. The selection set is untouched.
func (e *Engine) SetStatusFilter(status string) error {
	if !models.ValidStatusFilter(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	e.mu.Lock()
	e.statusFilter = status
	e.page = 1
	e.mu.Unlock()
	return nil
}

// SetSearch filters by customer name or stringified order id and rewinds to
// the first page. The selection set is untouched.
func (e *Engine) SetSearch(q string) {
	e.mu.Lock()
	e.search = q
	e.page = 1
	e.mu.Unlock()
}

// ToggleSort flips the creation-time sort direction
func (e *Engine) ToggleSort() {
	e.mu.Lock()
	e.sortAsc = !e.sortAsc
	e.mu.Unlock()
}

// SetSortAscending sets the creation-time sort direction explicitly
func (e *Engine) SetSortAscending(asc bool) {
	e.mu.Lock()
	e.sortAsc = asc
	e.mu.Unlock()
}

// SetPage moves to the requested page. The page index is derived state: the
// next View clamps it against the current filtered set.
func (e *Engine) SetPage(page int) {
	e.mu.Lock()
	e.page = page
	e.mu.Unlock()
}

// ToggleSelect flips membership of one order id in the selection set,
// independent of filtering, sorting and paging.
func (e *Engine) ToggleSelect(orderID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.selected[orderID]; ok {
		delete(e.selected, orderID)
	} else {
		e.selected[orderID] = struct{}{}
	}
}

// Propose opens the confirm gate for a bulk transition to target. An empty
// selection aborts with an error notification and no state change.
func (e *Engine) Propose(target string) error {
	if !models.ValidStatus(target) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.selected) == 0 {
		e.sink.Notify("No order selected", notify.SeverityError)
		return ErrNoSelection
	}

	ids := make([]int64, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	e.pending = &PendingTransition{TargetStatus: target, AffectedIDs: ids}
	return nil
}

// Confirm applies the pending transition through the order store, one status
// update per affected id. Ids the store accepts mutate the cached copy; ids
// it rejects keep their prior status and are reported back. The selection set
// and the pending transition are cleared either way.
func (e *Engine) Confirm(ctx context.Context) (*BulkResult, error) {
	e.mu.Lock()
	pending := e.pending
	e.mu.Unlock()

	if pending == nil {
		return nil, ErrNothingPending
	}

	var updated, failed []int64
	for _, id := range pending.AffectedIDs {
		if err := e.store.UpdateStatus(ctx, id, pending.TargetStatus); err != nil {
			e.logger.Error("Bulk status update failed for order",
				zap.Int64("order_id", id),
				zap.String("target", pending.TargetStatus),
				zap.Error(err))
			failed = append(failed, id)
			continue
		}
		updated = append(updated, id)
	}

	e.mu.Lock()
	applied := make(map[int64]struct{}, len(updated))
	for _, id := range updated {
		applied[id] = struct{}{}
	}
	for i := range e.orders {
		if _, ok := applied[e.orders[i].ID]; ok {
			e.orders[i].Status = pending.TargetStatus
		}
	}
	e.selected = make(map[int64]struct{})
	e.pending = nil
	e.mu.Unlock()

	util.BulkOrdersUpdatedTotal.Add(float64(len(updated)))
	util.BulkOrdersFailedTotal.Add(float64(len(failed)))

	result := &BulkResult{
		TargetStatus: pending.TargetStatus,
		UpdatedIDs:   updated,
		FailedIDs:    failed,
	}

	if len(failed) == 0 {
		util.BulkTransitionsTotal.WithLabelValues(pending.TargetStatus, "ok").Inc()
		e.sink.Notify(fmt.Sprintf("Updated to %s", pending.TargetStatus), notify.SeveritySuccess)
	} else {
		util.BulkTransitionsTotal.WithLabelValues(pending.TargetStatus, "partial").Inc()
		e.sink.Notify(
			fmt.Sprintf("Updated %d to %s, %d failed", len(updated), pending.TargetStatus, len(failed)),
			notify.SeverityWarning)
	}

	return result, nil
}

// Cancel discards the pending transition. Selection and orders are untouched.
func (e *Engine) Cancel() {
	e.mu.Lock()
	e.pending = nil
	e.mu.Unlock()
}

// View derives the current page: status filter, then name-or-id search, then
// a stable sort by creation time, then the page slice. The page index is
// re-clamped here, so a filter change that shrinks the set can never leave
// the view past the last page.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	filtered := e.filteredLocked()

	totalPages := pagination.TotalPages(len(filtered), e.pageSize)
	e.page = pagination.Clamp(e.page, totalPages)
	start, end := pagination.Bounds(e.page, e.pageSize, len(filtered))

	page := make([]models.Order, end-start)
	copy(page, filtered[start:end])

	selected := make([]int64, 0, len(e.selected))
	for id := range e.selected {
		selected = append(selected, id)
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i] < selected[j] })

	return View{
		Orders:        page,
		Page:          e.page,
		TotalPages:    totalPages,
		TotalFiltered: len(filtered),
		StatusFilter:  e.statusFilter,
		Search:        e.search,
		SortAscending: e.sortAsc,
		SelectedIDs:   selected,
		Pending:       e.pending,
	}
}

func (e *Engine) filteredLocked() []models.Order {
	q := strings.ToLower(e.search)

	out := make([]models.Order, 0, len(e.orders))
	for _, o := range e.orders {
		if e.statusFilter != models.StatusFilterAll && o.Status != e.statusFilter {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(o.Name), q) &&
			!strings.Contains(strconv.FormatInt(o.ID, 10), e.search) {
			continue
		}
		out = append(out, o)
	}

	// ties keep input order
	sort.SliceStable(out, func(i, j int) bool {
		if e.sortAsc {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[j].CreatedAt.Before(out[i].CreatedAt)
	})
	return out
}

// Prefs returns the view preferences worth persisting across sessions
func (e *Engine) Prefs() (statusFilter, search string, sortAsc bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusFilter, e.search, e.sortAsc
}

// RestorePrefs reinstates persisted view preferences
func (e *Engine) RestorePrefs(statusFilter, search string, sortAsc bool) {
	if !models.ValidStatusFilter(statusFilter) {
		statusFilter = models.StatusFilterAll
	}
	e.mu.Lock()
	e.statusFilter = statusFilter
	e.search = search
	e.sortAsc = sortAsc
	e.page = 1
	e.mu.Unlock()
}

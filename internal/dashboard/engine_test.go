package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"admin-console/internal/models"
	"admin-console/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageSize = 10

type statusUpdate struct {
	OrderID int64
	Status  string
}

type fakeStore struct {
	orders  []models.Order
	failIDs map[int64]bool
	updates []statusUpdate
}

func (f *fakeStore) ListOrders(context.Context) ([]models.Order, error) {
	out := make([]models.Order, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, orderID int64, status string) error {
	if f.failIDs[orderID] {
		return fmt.Errorf("order %d: store rejected update", orderID)
	}
	f.updates = append(f.updates, statusUpdate{orderID, status})
	return nil
}

// seedOrders builds n orders with descending ages: order 1 is the oldest
func seedOrders(n int, status func(i int) string) []models.Order {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.Order, n)
	for i := range out {
		out[i] = models.Order{
			ID:        int64(i + 1),
			Name:      fmt.Sprintf("Customer %d", i+1),
			Status:    status(i),
			Total:     float64((i + 1) * 100),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func newEngine(t *testing.T, store *fakeStore) *Engine {
	t.Helper()
	eng := New(store, notify.NewSink(time.Minute), pageSize)
	require.NoError(t, eng.Refresh(context.Background()))
	return eng
}

func TestFilterSelectConfirmScenario(t *testing.T) {
	// 10 New followed by 5 Delivered
	store := &fakeStore{orders: seedOrders(15, func(i int) string {
		if i < 10 {
			return models.OrderStatusNew
		}
		return models.OrderStatusDelivered
	})}
	sink := notify.NewSink(time.Minute)
	eng := New(store, sink, pageSize)
	require.NoError(t, eng.Refresh(context.Background()))

	require.NoError(t, eng.SetStatusFilter(models.OrderStatusNew))
	v := eng.View()
	assert.Equal(t, 1, v.TotalPages)
	assert.Len(t, v.Orders, 10)

	eng.ToggleSelect(2)
	eng.ToggleSelect(5)
	eng.ToggleSelect(7)

	require.NoError(t, eng.Propose(models.OrderStatusDelivered))
	result, err := eng.Confirm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 5, 7}, result.UpdatedIDs)
	assert.Empty(t, result.FailedIDs)

	require.NoError(t, eng.SetStatusFilter(models.StatusFilterAll))
	delivered := 0
	for _, o := range allRows(eng) {
		if o.Status == models.OrderStatusDelivered {
			delivered++
		}
	}
	assert.Equal(t, 8, delivered, "the 3 confirmed plus the 5 seeded")
	assert.Empty(t, eng.View().SelectedIDs)

	msg := sink.Current()
	require.NotNil(t, msg)
	assert.Contains(t, msg.Text, "Delivered")
	assert.Equal(t, notify.SeveritySuccess, msg.Severity)
}

// allRows walks every page and concatenates the rows
func allRows(eng *Engine) []models.Order {
	var out []models.Order
	eng.SetPage(1)
	for {
		v := eng.View()
		out = append(out, v.Orders...)
		if v.Page >= v.TotalPages {
			return out
		}
		eng.SetPage(v.Page + 1)
	}
}

func TestPagesPartitionFilteredSet(t *testing.T) {
	store := &fakeStore{orders: seedOrders(37, func(i int) string {
		if i%3 == 0 {
			return models.OrderStatusCancelled
		}
		return models.OrderStatusNew
	})}
	eng := newEngine(t, store)
	require.NoError(t, eng.SetStatusFilter(models.OrderStatusNew))
	eng.SetSortAscending(true)

	rows := allRows(eng)

	seen := make(map[int64]int)
	for _, o := range rows {
		assert.Equal(t, models.OrderStatusNew, o.Status)
		seen[o.ID]++
	}
	assert.Len(t, seen, len(rows), "no duplicates across pages")
	assert.Equal(t, eng.View().TotalFiltered, len(rows), "no omissions")

	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].CreatedAt.Before(rows[i-1].CreatedAt),
			"ascending order across page boundaries")
	}
}

func TestSearchMatchesNameOrID(t *testing.T) {
	store := &fakeStore{orders: seedOrders(20, func(int) string { return models.OrderStatusNew })}
	eng := newEngine(t, store)

	eng.SetSearch("customer 12")
	v := eng.View()
	require.Len(t, v.Orders, 1)
	assert.Equal(t, int64(12), v.Orders[0].ID)

	// id substring match
	eng.SetSearch("17")
	v = eng.View()
	require.Len(t, v.Orders, 1)
	assert.Equal(t, int64(17), v.Orders[0].ID)
}

func TestFilterChangeResetsPageButKeepsSelection(t *testing.T) {
	store := &fakeStore{orders: seedOrders(25, func(int) string { return models.OrderStatusNew })}
	eng := newEngine(t, store)

	eng.ToggleSelect(3)
	eng.ToggleSelect(21)
	eng.SetPage(3)
	require.Equal(t, 3, eng.View().Page)

	require.NoError(t, eng.SetStatusFilter(models.OrderStatusNew))
	v := eng.View()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, []int64{3, 21}, v.SelectedIDs)

	eng.SetPage(2)
	eng.SetSearch("customer")
	v = eng.View()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, []int64{3, 21}, v.SelectedIDs)
}

func TestPageClampedAfterFilterNarrows(t *testing.T) {
	store := &fakeStore{orders: seedOrders(35, func(i int) string {
		if i < 5 {
			return models.OrderStatusDelivered
		}
		return models.OrderStatusNew
	})}
	eng := newEngine(t, store)

	eng.SetPage(4)
	require.Equal(t, 4, eng.View().Page)

	require.NoError(t, eng.SetStatusFilter(models.OrderStatusDelivered))
	eng.SetPage(4) // stale page index from the wider view
	v := eng.View()
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, 1, v.Page)
	assert.Len(t, v.Orders, 5)
}

func TestConfirmUsesProposeTimeSnapshot(t *testing.T) {
	store := &fakeStore{orders: seedOrders(10, func(int) string { return models.OrderStatusNew })}
	eng := newEngine(t, store)

	eng.ToggleSelect(1)
	eng.ToggleSelect(2)
	require.NoError(t, eng.Propose(models.OrderStatusCancelled))

	// selection churn between propose and confirm must not leak in
	eng.ToggleSelect(2)
	eng.ToggleSelect(9)

	result, err := eng.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, result.UpdatedIDs)

	statuses := map[int64]string{}
	for _, o := range allRows(eng) {
		statuses[o.ID] = o.Status
	}
	assert.Equal(t, models.OrderStatusCancelled, statuses[1])
	assert.Equal(t, models.OrderStatusCancelled, statuses[2])
	assert.Equal(t, models.OrderStatusNew, statuses[9])
}

func TestConfirmPartialFailure(t *testing.T) {
	store := &fakeStore{
		orders:  seedOrders(6, func(int) string { return models.OrderStatusNew }),
		failIDs: map[int64]bool{4: true},
	}
	sink := notify.NewSink(time.Minute)
	eng := New(store, sink, pageSize)
	require.NoError(t, eng.Refresh(context.Background()))

	eng.ToggleSelect(3)
	eng.ToggleSelect(4)
	eng.ToggleSelect(5)
	require.NoError(t, eng.Propose(models.OrderStatusDelivered))

	result, err := eng.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5}, result.UpdatedIDs)
	assert.Equal(t, []int64{4}, result.FailedIDs)

	statuses := map[int64]string{}
	for _, o := range allRows(eng) {
		statuses[o.ID] = o.Status
	}
	assert.Equal(t, models.OrderStatusDelivered, statuses[3])
	assert.Equal(t, models.OrderStatusNew, statuses[4], "rejected id keeps its prior status")
	assert.Equal(t, models.OrderStatusDelivered, statuses[5])

	msg := sink.Current()
	require.NotNil(t, msg)
	assert.Equal(t, notify.SeverityWarning, msg.Severity)
	assert.Contains(t, msg.Text, "1 failed")
}

func TestProposeWithEmptySelection(t *testing.T) {
	store := &fakeStore{orders: seedOrders(3, func(int) string { return models.OrderStatusNew })}
	sink := notify.NewSink(time.Minute)
	eng := New(store, sink, pageSize)
	require.NoError(t, eng.Refresh(context.Background()))

	err := eng.Propose(models.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Nil(t, eng.View().Pending)

	msg := sink.Current()
	require.NotNil(t, msg)
	assert.Equal(t, notify.SeverityError, msg.Severity)

	_, err = eng.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestCancelClearsPendingOnly(t *testing.T) {
	store := &fakeStore{orders: seedOrders(5, func(int) string { return models.OrderStatusNew })}
	eng := newEngine(t, store)

	eng.ToggleSelect(1)
	require.NoError(t, eng.Propose(models.OrderStatusCancelled))
	require.NotNil(t, eng.View().Pending)

	eng.Cancel()

	v := eng.View()
	assert.Nil(t, v.Pending)
	assert.Equal(t, []int64{1}, v.SelectedIDs, "cancel keeps the selection")
	assert.Empty(t, store.updates, "no write was issued")
}

func TestStableSortKeepsInputOrderOnTies(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: 7, Name: "A", Status: models.OrderStatusNew, CreatedAt: when},
		{ID: 3, Name: "B", Status: models.OrderStatusNew, CreatedAt: when},
		{ID: 9, Name: "C", Status: models.OrderStatusNew, CreatedAt: when},
	}
	eng := newEngine(t, &fakeStore{orders: orders})
	eng.SetSortAscending(true)

	v := eng.View()
	require.Len(t, v.Orders, 3)
	assert.Equal(t, int64(7), v.Orders[0].ID)
	assert.Equal(t, int64(3), v.Orders[1].ID)
	assert.Equal(t, int64(9), v.Orders[2].ID)
}

func TestInvalidStatusRejected(t *testing.T) {
	eng := newEngine(t, &fakeStore{})
	assert.ErrorIs(t, eng.SetStatusFilter("Shipped"), ErrInvalidStatus)
	assert.ErrorIs(t, eng.Propose("Shipped"), ErrInvalidStatus)
}

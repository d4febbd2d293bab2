package session

import (
	"context"
	"testing"
	"time"

	"admin-console/internal/models"
	"admin-console/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct{}

func (fakeCatalog) ListActiveSKUs(context.Context, string, int, int) ([]models.SKUOption, error) {
	return []models.SKUOption{{ID: 1, Name: "Widget", Code: "W-001"}}, nil
}

type fakeOrders struct{}

func (fakeOrders) ListOrders(context.Context) ([]models.Order, error) {
	return []models.Order{{ID: 1, Name: "Asha Rao", Status: models.OrderStatusNew}}, nil
}

func (fakeOrders) UpdateStatus(context.Context, int64, string) error {
	return nil
}

func newManager() *Manager {
	return NewManager(fakeCatalog{}, fakeOrders{}, notify.NewSink(time.Minute), nil, 5, 10)
}

func TestCreatePrimesSelectorAndDashboard(t *testing.T) {
	m := newManager()

	sess, err := m.Create(context.Background(), "")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, sess.ID, sess.ConsoleID, "empty console key falls back to the session id")

	assert.Equal(t, 1, sess.Dashboard.View().TotalFiltered)

	sess.Selector.Wait()
	assert.Len(t, sess.Selector.View().Candidates, 1)
}

func TestGetAndDelete(t *testing.T) {
	m := newManager()

	sess, err := m.Create(context.Background(), "console-abc")
	require.NoError(t, err)
	assert.Equal(t, "console-abc", sess.ConsoleID)

	got, ok := m.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	m.Delete(sess.ID)
	_, ok = m.Get(sess.ID)
	assert.False(t, ok)
}

func TestSessionsAreIndependent(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	a, err := m.Create(ctx, "")
	require.NoError(t, err)
	b, err := m.Create(ctx, "")
	require.NoError(t, err)

	a.Dashboard.ToggleSelect(1)
	assert.Len(t, a.Dashboard.View().SelectedIDs, 1)
	assert.Empty(t, b.Dashboard.View().SelectedIDs)
}

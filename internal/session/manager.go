// Package session owns the per-operator console sessions: each one holds an
// incremental SKU selector and an order dashboard engine.
package session

import (
	"context"
	"sync"
	"time"

	"admin-console/internal/dashboard"
	"admin-console/internal/notify"
	"admin-console/internal/redisclient"
	"admin-console/internal/selector"
	"admin-console/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one operator's console state. ConsoleID is the stable key the
// browser presents across reconnects; the session id itself is ephemeral.
type Session struct {
	ID        string
	ConsoleID string
	Selector  *selector.Selector
	Dashboard *dashboard.Engine
	CreatedAt time.Time
}

// Manager creates and tracks sessions, restoring persisted view preferences
// when the same console key reconnects.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	catalog           selector.Catalog
	orders            dashboard.OrderStore
	sink              notify.Notifier
	prefs             *redisclient.Client // nil disables preference persistence
	selectorPageSize  int
	dashboardPageSize int
	logger            *zap.Logger
}

func NewManager(
	catalog selector.Catalog,
	orders dashboard.OrderStore,
	sink notify.Notifier,
	prefs *redisclient.Client,
	selectorPageSize, dashboardPageSize int,
) *Manager {
	return &Manager{
		sessions:          make(map[string]*Session),
		catalog:           catalog,
		orders:            orders,
		sink:              sink,
		prefs:             prefs,
		selectorPageSize:  selectorPageSize,
		dashboardPageSize: dashboardPageSize,
		logger:            util.GetLogger(),
	}
}

// Create starts a session: primes the selector, fetches the order collection
// once, and restores any persisted preferences for the console key. An empty
// consoleID keys the preferences by the new session id.
func (m *Manager) Create(ctx context.Context, consoleID string) (*Session, error) {
	id := uuid.New().String()
	if consoleID == "" {
		consoleID = id
	}

	sess := &Session{
		ID:        id,
		ConsoleID: consoleID,
		Selector:  selector.New(m.catalog, m.sink, m.selectorPageSize),
		Dashboard: dashboard.New(m.orders, m.sink, m.dashboardPageSize),
		CreatedAt: time.Now(),
	}

	if m.prefs != nil {
		if p, err := m.prefs.LoadPrefs(ctx, consoleID); err != nil {
			m.logger.Warn("Failed to load console preferences", zap.Error(err))
		} else if p != nil {
			sess.Dashboard.RestorePrefs(p.StatusFilter, p.Search, p.SortAscending)
		}
	}

	if err := sess.Dashboard.Refresh(ctx); err != nil {
		return nil, err
	}
	sess.Selector.Start(ctx)

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	m.logger.Info("Console session created",
		zap.String("session_id", id),
		zap.String("console_id", consoleID))
	return sess, nil
}

// Get looks up a session by id
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Delete drops a session; persisted preferences survive
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// SavePrefs snapshots the session's dashboard preferences, best effort
func (m *Manager) SavePrefs(ctx context.Context, sess *Session) {
	if m.prefs == nil {
		return
	}

	statusFilter, search, sortAsc := sess.Dashboard.Prefs()
	p := redisclient.Prefs{
		StatusFilter:  statusFilter,
		Search:        search,
		SortAscending: sortAsc,
	}
	if err := m.prefs.SavePrefs(ctx, sess.ConsoleID, p); err != nil {
		m.logger.Warn("Failed to save console preferences",
			zap.String("console_id", sess.ConsoleID),
			zap.Error(err))
	}
}

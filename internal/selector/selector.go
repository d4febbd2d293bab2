// Package selector implements the incremental SKU picker: search-as-you-type
// with scroll-triggered page loads against the paginated catalog lookup.
package selector

import (
	"context"
	"fmt"
	"sync"

	"admin-console/internal/models"
	"admin-console/internal/notify"
	"admin-console/internal/util"

	"go.uber.org/zap"
)

// Catalog is the lookup collaborator the selector pages through.
type Catalog interface {
	ListActiveSKUs(ctx context.Context, search string, page, pageSize int) ([]models.SKUOption, error)
}

// Selector accumulates candidate pages for the current search session and
// resolves a single selected SKU id. Lookups run asynchronously; a response
// mutates state only while its search token is still current, so a slow
// response for an abandoned search term is discarded rather than applied.
type Selector struct {
	mu       sync.Mutex
	catalog  Catalog
	sink     notify.Notifier
	logger   *zap.Logger
	pageSize int

	search     string
	page       int
	candidates []models.SKUOption
	hasMore    bool
	open       bool
	selectedID int64

	// token identifies the current search session; bumped whenever the
	// search text resets the candidate list
	token uint64

	inflight sync.WaitGroup
}

// View is a consistent snapshot of the selector state.
type View struct {
	Search        string             `json:"search"`
	Candidates    []models.SKUOption `json:"candidates"`
	HasMore       bool               `json:"has_more"`
	Open          bool               `json:"open"`
	SelectedID    int64              `json:"selected_id"`
	SelectedLabel string             `json:"selected_label"`
}

func New(catalog Catalog, sink notify.Notifier, pageSize int) *Selector {
	return &Selector{
		catalog:  catalog,
		sink:     sink,
		logger:   util.GetLogger(),
		pageSize: pageSize,
		page:     1,
		hasMore:  true,
	}
}

// Start primes the first candidate page for the empty search
func (s *Selector) Start(ctx context.Context) {
	s.mu.Lock()
	s.token++
	token := s.token
	s.mu.Unlock()

	s.issueLookup(ctx, "", 1, token)
}

// SetSearch replaces the search text, resets paging to the first page and
// opens the dropdown. The candidate list is replaced when the response lands.
func (s *Selector) SetSearch(ctx context.Context, text string) {
	s.mu.Lock()
	s.search = text
	s.page = 1
	s.open = true
	s.token++
	token := s.token
	s.mu.Unlock()

	s.issueLookup(ctx, text, 1, token)
}

// Open shows the dropdown without changing the candidate window
func (s *Selector) Open() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
}

// Dismiss closes the dropdown, leaving search text and selection untouched.
// This is the pointer-outside interaction.
func (s *Selector) Dismiss() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

// ScrollToBottom reports that the candidate list was scrolled to its end.
// While more data remains, it advances the page cursor and fetches the next
// increment under the current search token.
func (s *Selector) ScrollToBottom(ctx context.Context) {
	s.mu.Lock()
	if !s.hasMore {
		s.mu.Unlock()
		return
	}
	s.page++
	page := s.page
	search := s.search
	token := s.token
	s.mu.Unlock()

	s.issueLookup(ctx, search, page, token)
}

// Select resolves the choice: records the id and closes the dropdown. The
// accumulated candidates stay as they are, so reopening shows the same window.
func (s *Selector) Select(id int64) {
	s.mu.Lock()
	s.selectedID = id
	s.open = false
	s.mu.Unlock()
}

// SelectedLabel renders "Name (CODE)" for the selected candidate, resolved
// against the locally loaded window. An id that is not loaded renders empty.
func (s *Selector) SelectedLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labelLocked()
}

func (s *Selector) labelLocked() string {
	if s.selectedID == 0 {
		return ""
	}
	for _, opt := range s.candidates {
		if opt.ID == s.selectedID {
			return fmt.Sprintf("%s (%s)", opt.Name, opt.Code)
		}
	}
	return ""
}

// View returns a snapshot of the current state
func (s *Selector) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]models.SKUOption, len(s.candidates))
	copy(candidates, s.candidates)

	return View{
		Search:        s.search,
		Candidates:    candidates,
		HasMore:       s.hasMore,
		Open:          s.open,
		SelectedID:    s.selectedID,
		SelectedLabel: s.labelLocked(),
	}
}

// Wait blocks until all in-flight lookups have completed or been discarded
func (s *Selector) Wait() {
	s.inflight.Wait()
}

func (s *Selector) issueLookup(ctx context.Context, search string, page int, token uint64) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		opts, err := s.catalog.ListActiveSKUs(ctx, search, page, s.pageSize)
		if err != nil {
			s.logger.Warn("SKU lookup failed",
				zap.String("search", search),
				zap.Int("page", page),
				zap.Error(err))
			s.sink.Notify("Failed to load SKUs", notify.SeverityError)
			return
		}

		s.apply(token, page, opts)
	}()
}

// apply installs one page of results. The first page replaces the candidate
// list; later pages append. A superseded token means the search session that
// issued the lookup is gone, and the response is dropped.
func (s *Selector) apply(token uint64, page int, opts []models.SKUOption) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		util.SelectorStaleDropsTotal.Inc()
		s.logger.Debug("Discarded stale lookup response",
			zap.Int("page", page),
			zap.Uint64("token", token))
		return
	}

	if page == 1 {
		s.candidates = opts
	} else {
		s.candidates = append(s.candidates, opts...)
	}
	s.hasMore = len(opts) == s.pageSize
}

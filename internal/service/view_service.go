package service

import (
	"context"
	"log/slog"

	"scanner_go/internal/domain"
	"scanner_go/internal/engine"
	"scanner_go/internal/event"
)

// ViewService is the presentation boundary over one filtered view. It owns
// the reconciler, translates user intents into engine commands and exposes
// the derived read model (window, total count, loading flag, error).
//
// Each independent filtered view gets its own ViewService; two views never
// share cache state.
type ViewService struct {
	rec *engine.Reconciler
}

// NewViewService wires a reconciler over the given fetcher and feed sender.
// onChange, when non-nil, fires after every revision bump with the new
// revision; consumers recompute the window from the accessors, the revision
// itself carries no diff.
func NewViewService(inboxSize int, fetcher domain.SnapshotFetcher, feed domain.FeedSender, onChange func(rev uint64)) *ViewService {
	return &ViewService{
		rec: engine.NewReconciler(inboxSize, fetcher, feed, onChange),
	}
}

// Inbox exposes the engine inbox for feed worker wiring.
func (s *ViewService) Inbox() chan<- event.Event {
	return s.rec.Inbox()
}

// Start runs the engine loop and activates the initial filter, which kicks
// off the page-1 fetch and the scanner feed subscription.
func (s *ViewService) Start(ctx context.Context, initial domain.ScannerFilter) {
	go s.rec.Run(ctx)
	s.rec.Inbox() <- &event.ChangeFilterEvent{Filter: initial}
}

// Tokens returns the currently visible records in page order.
func (s *ViewService) Tokens() []domain.TokenData {
	return s.rec.CurrentWindow()
}

// TotalRows returns the total result count under the active filter.
func (s *ViewService) TotalRows() int {
	return s.rec.TotalRows()
}

// Loading reports whether a page fetch is in flight.
func (s *ViewService) Loading() bool {
	return s.rec.Loading()
}

// Err returns the last fetch error message, empty when none.
func (s *ViewService) Err() string {
	return s.rec.Err()
}

// Rev returns the current revision marker.
func (s *ViewService) Rev() uint64 {
	return s.rec.Rev()
}

// Filter returns the active filter.
func (s *ViewService) Filter() domain.ScannerFilter {
	return s.rec.Filter()
}

// Page returns the highest loaded page number.
func (s *ViewService) Page() int {
	return s.rec.Page()
}

// LoadNextPage requests the next page. Ignored while a fetch is in flight:
// an in-flight fetch is never cancelled, so stacking another on top would
// only reorder completions.
func (s *ViewService) LoadNextPage() {
	if s.rec.Loading() {
		slog.Debug("LoadNextPage ignored, fetch in flight")
		return
	}
	s.rec.Inbox() <- &event.LoadNextPageEvent{}
}

// ChangeFilter switches the view to a new filter, resetting paging to 1.
func (s *ViewService) ChangeFilter(f domain.ScannerFilter) {
	s.rec.Inbox() <- &event.ChangeFilterEvent{Filter: f}
}

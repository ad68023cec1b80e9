package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"scanner_go/internal/domain"
	"scanner_go/internal/event"
	"scanner_go/internal/infra"
)

// Reconciler is the core single-threaded event processor. It owns the token
// store, the page index and the subscription tracker, and applies every
// incoming event (feed deltas, fetch completions, view commands) in receipt
// order on one goroutine. External readers go through the RWMutex accessors.
type Reconciler struct {
	inbox chan event.Event

	store *TokenStore
	pages *PageIndex
	subs  *SubscriptionTracker

	filter       domain.ScannerFilter
	filterActive bool
	page         int
	totalRows    int
	loading      bool
	lastErr      string
	rev          uint64

	fetcher domain.SnapshotFetcher
	feed    domain.FeedSender

	// Boundary: notified after every revision bump, outside the state lock.
	onChange func(rev uint64)

	runCtx context.Context

	mu sync.RWMutex // guards all state for external reads
}

// NewReconciler creates a reconciler. fetcher may be nil in tests that inject
// snapshot events directly; feed must not be nil.
func NewReconciler(inboxSize int, fetcher domain.SnapshotFetcher, feed domain.FeedSender, onChange func(rev uint64)) *Reconciler {
	return &Reconciler{
		inbox:    make(chan event.Event, inboxSize),
		store:    NewTokenStore(),
		pages:    NewPageIndex(),
		subs:     NewSubscriptionTracker(),
		fetcher:  fetcher,
		feed:     feed,
		onChange: onChange,
		runCtx:   context.Background(),
	}
}

// Inbox returns the event channel. Feed workers and the view boundary send here.
func (r *Reconciler) Inbox() chan<- event.Event {
	return r.inbox
}

// Run starts the main event loop. This MUST be run in a single goroutine.
func (r *Reconciler) Run(ctx context.Context) {
	slog.Info("Reconciler started (single-thread event loop)")

	r.mu.Lock()
	r.runCtx = ctx
	r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", rec))
			r.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", rec))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reconciler stopping...")
			return
		case ev := <-r.inbox:
			r.processEvent(ev)
		}
	}
}

// processEvent dispatches one event. Mutations run under the state lock; the
// onChange callback fires after the lock is released so it can read back
// through the public accessors without deadlocking.
func (r *Reconciler) processEvent(ev event.Event) {
	start := time.Now()

	changed, rev := r.apply(ev)

	if te, ok := ev.(*event.TickEvent); ok {
		event.ReleaseTickEvent(te)
	}

	infra.GlobalMetrics.RecordEvent(time.Since(start).Nanoseconds())
	if changed && r.onChange != nil {
		r.onChange(rev)
	}
}

// apply runs the dispatch under the state lock. The lock is released via
// defer so a handler panic leaves it unlocked for the post-mortem dump.
func (r *Reconciler) apply(ev event.Event) (bool, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := r.dispatch(ev)
	return changed, r.rev
}

// dispatch applies the event and reports whether the revision was bumped.
// Must be called with the state lock held.
func (r *Reconciler) dispatch(ev event.Event) bool {
	switch e := ev.(type) {
	case *event.TickEvent:
		return r.handleTick(e)
	case *event.PairStatsEvent:
		return r.handlePairStats(e)
	case *event.ScannerPairsEvent:
		return r.handleScannerPairs(e)
	case *event.SnapshotEvent:
		return r.handleSnapshot(e)
	case *event.SnapshotErrorEvent:
		return r.handleSnapshotError(e)
	case *event.LoadNextPageEvent:
		return r.handleLoadNextPage()
	case *event.ChangeFilterEvent:
		return r.handleChangeFilter(e.Filter)
	default:
		slog.Warn("Unknown event type", slog.String("kind", ev.Kind()))
		return false
	}
}

// handleSnapshot applies a completed page fetch: records first, then the page
// entry, so page ids never reference an absent record. Membership of the page
// is diffed against its previous entry to drive subscription refcounts.
func (r *Reconciler) handleSnapshot(e *event.SnapshotEvent) bool {
	if !e.Filter.Equal(r.filter) {
		// Completion of a fetch issued before a filter change. The new
		// fetch owns the loading flag, so leave everything untouched.
		slog.Debug("Dropping stale snapshot", slog.Int("page", e.Page))
		return false
	}
	r.loading = false
	r.lastErr = ""

	r.store.PutMany(e.Tokens)

	ids := make([]string, 0, len(e.Tokens))
	newSet := make(map[string]struct{}, len(e.Tokens))
	for i := range e.Tokens {
		ids = append(ids, e.Tokens[i].ID)
		newSet[e.Tokens[i].ID] = struct{}{}
	}

	for _, id := range r.pages.IDs(e.Page) {
		if _, ok := newSet[id]; !ok {
			r.releasePair(id)
		}
	}
	oldSet := make(map[string]struct{})
	for _, id := range r.pages.IDs(e.Page) {
		oldSet[id] = struct{}{}
	}
	for i := range e.Tokens {
		if _, ok := oldSet[e.Tokens[i].ID]; !ok {
			r.acquirePair(&e.Tokens[i])
		}
	}

	r.pages.SetIDs(e.Page, ids)
	r.totalRows = e.TotalRows
	r.rev++
	return true
}

func (r *Reconciler) handleSnapshotError(e *event.SnapshotErrorEvent) bool {
	if !e.Filter.Equal(r.filter) {
		return false
	}
	r.loading = false
	r.lastErr = e.Err.Error()
	infra.GlobalMetrics.RecordFetchError()
	slog.Warn("Page fetch failed", slog.Int("page", e.Page), slog.Any("error", e.Err))
	return false
}

// handleTick applies a trade tick: the last non-outlier swap is the
// authoritative price source. A tick for an unknown identity is silently
// ignored; the pair may have been evicted by a membership change already.
func (r *Reconciler) handleTick(e *event.TickEvent) bool {
	swaps := e.Swaps[:0:0]
	for _, sw := range e.Swaps {
		if !sw.IsOutlier {
			swaps = append(swaps, sw)
		}
	}
	if len(swaps) == 0 {
		return false
	}
	latest := swaps[len(swaps)-1]

	tok, ok := r.store.Get(e.Pair.Pair)
	if !ok {
		infra.GlobalMetrics.RecordTickDropped()
		return false
	}

	newPrice := latest.PriceUsd
	tok.PriceUsd = newPrice
	tok.Mcap = tok.TotalSupply.Mul(newPrice)
	tok.VolumeUsd = tok.VolumeUsd.Add(latest.Amount.Mul(newPrice))

	// Buy vs sell is judged against the previous swap in the same batch.
	// With a single swap there is nothing to compare, so no counter moves.
	if len(swaps) >= 2 {
		prev := swaps[len(swaps)-2]
		if latest.Amount.GreaterThan(prev.Amount) {
			tok.Transactions.Buys++
		} else {
			tok.Transactions.Sells++
		}
	}

	r.store.Put(tok)
	r.rev++
	return true
}

// handlePairStats replaces the audit sub-record. ContractVerified is sticky:
// it ORs with the stored value and never goes back to false.
func (r *Reconciler) handlePairStats(e *event.PairStatsEvent) bool {
	tok, ok := r.store.Get(e.PairAddress)
	if !ok {
		return false
	}

	tok.Audit = domain.Audit{
		MintDisabled:     e.MintRenounced,
		FreezeDisabled:   e.FreezeRenounced,
		Honeypot:         e.IsHoneypot,
		ContractVerified: tok.Audit.ContractVerified || e.IsVerified,
	}

	r.store.Put(tok)
	r.rev++
	return true
}

// handleScannerPairs applies a full membership replacement for one page:
// set-difference against the stored entry, evict what left, insert what
// arrived, keep everything in between untouched. Payload order becomes the
// new page order.
func (r *Reconciler) handleScannerPairs(e *event.ScannerPairsEvent) bool {
	if e.Page < 1 {
		slog.Warn("Dropping scanner-pairs event without page")
		return false
	}
	if r.filterActive && !e.Filter.Equal(r.filter) {
		slog.Debug("Dropping scanner-pairs for inactive filter", slog.Int("page", e.Page))
		return false
	}

	received := make(map[string]struct{}, len(e.Tokens))
	ids := make([]string, 0, len(e.Tokens))
	for i := range e.Tokens {
		received[e.Tokens[i].ID] = struct{}{}
		ids = append(ids, e.Tokens[i].ID)
	}

	stored := make(map[string]struct{})
	for _, id := range r.pages.IDs(e.Page) {
		stored[id] = struct{}{}
		if _, ok := received[id]; !ok {
			r.releasePair(id)
		}
	}
	for i := range e.Tokens {
		if _, ok := stored[e.Tokens[i].ID]; !ok {
			r.store.Put(e.Tokens[i])
			r.acquirePair(&e.Tokens[i])
		}
	}

	r.pages.SetIDs(e.Page, ids)
	r.rev++
	return true
}

func (r *Reconciler) handleLoadNextPage() bool {
	if !r.filterActive {
		return false
	}
	r.page++
	r.startFetch(r.filter, r.page)
	return false
}

// handleChangeFilter tears the old view down and starts the new one. The
// sweep releases every tracked subscription and evicts the records it owned,
// so the store does not accumulate orphans across filter changes.
func (r *Reconciler) handleChangeFilter(f domain.ScannerFilter) bool {
	if r.filterActive {
		if err := r.feed.UnsubscribeScanner(r.filter); err != nil {
			slog.Warn("Scanner unsubscribe failed", slog.Any("error", err))
		}
		for _, id := range r.subs.ActiveIDs() {
			r.sweepPair(id)
		}
	}

	r.pages.Clear()
	r.filter = f
	r.filterActive = true
	r.page = 1

	if err := r.feed.SubscribeScanner(f); err != nil {
		slog.Warn("Scanner subscribe failed", slog.Any("error", err))
	}
	r.startFetch(f, 1)
	r.rev++
	return true
}

// startFetch launches the page fetch off-loop and re-enters through the
// inbox, tagged with the filter/page it was issued for. An in-flight fetch
// is never cancelled; the tag lets the reconciler drop a stale completion.
func (r *Reconciler) startFetch(f domain.ScannerFilter, page int) {
	if r.fetcher == nil {
		return
	}
	r.loading = true
	r.lastErr = ""

	ctx := r.runCtx
	go func() {
		tokens, total, err := r.fetcher.FetchPage(ctx, f, page)
		var done event.Event
		if err != nil {
			done = &event.SnapshotErrorEvent{Filter: f, Page: page, Err: err}
		} else {
			done = &event.SnapshotEvent{Filter: f, Page: page, Tokens: tokens, TotalRows: total}
		}
		select {
		case r.inbox <- done:
		case <-ctx.Done():
		}
	}()
}

// acquirePair bumps the refcount for both topics and emits the subscribe
// intents on first acquisition. A transport failure on one intent is logged
// and never blocks the rest.
func (r *Reconciler) acquirePair(tok *domain.TokenData) {
	key := tok.Key()
	if r.subs.Acquire(tok.ID, TopicPair) {
		if err := r.feed.SubscribePair(key); err != nil {
			slog.Warn("Pair subscribe failed", slog.String("pair", tok.ID), slog.Any("error", err))
		}
	}
	if r.subs.Acquire(tok.ID, TopicPairStats) {
		if err := r.feed.SubscribePairStats(key); err != nil {
			slog.Warn("Pair-stats subscribe failed", slog.String("pair", tok.ID), slog.Any("error", err))
		}
	}
}

// releasePair drops one page's reference. When the last reference goes, the
// unsubscribe intents are emitted and the record leaves the store.
func (r *Reconciler) releasePair(id string) {
	tok, ok := r.store.Get(id)
	key := tok.Key()

	evict := false
	if r.subs.Release(id, TopicPair) {
		evict = true
		if ok {
			if err := r.feed.UnsubscribePair(key); err != nil {
				slog.Warn("Pair unsubscribe failed", slog.String("pair", id), slog.Any("error", err))
			}
		}
	}
	if r.subs.Release(id, TopicPairStats) {
		if ok {
			if err := r.feed.UnsubscribePairStats(key); err != nil {
				slog.Warn("Pair-stats unsubscribe failed", slog.String("pair", id), slog.Any("error", err))
			}
		}
	}
	if evict {
		r.store.Remove(id)
	}
}

// sweepPair force-releases all references regardless of page count.
func (r *Reconciler) sweepPair(id string) {
	tok, ok := r.store.Get(id)
	key := tok.Key()

	if r.subs.ForceRelease(id, TopicPair) && ok {
		if err := r.feed.UnsubscribePair(key); err != nil {
			slog.Warn("Pair unsubscribe failed", slog.String("pair", id), slog.Any("error", err))
		}
	}
	if r.subs.ForceRelease(id, TopicPairStats) && ok {
		if err := r.feed.UnsubscribePairStats(key); err != nil {
			slog.Warn("Pair-stats unsubscribe failed", slog.String("pair", id), slog.Any("error", err))
		}
	}
	r.store.Remove(id)
}

// ======================================================================================
// External reads
// ======================================================================================

// CurrentWindow returns the visible records: the union of pages 1..current in
// first-seen order, deduplicated, mapped through the store. Identities with
// no record are dropped defensively.
func (r *Reconciler) CurrentWindow() []domain.TokenData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.currentWindowLocked()
}

// Rev returns the current revision marker. It carries no causal information,
// only "something visible changed since the last value you saw".
func (r *Reconciler) Rev() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rev
}

// TotalRows returns the total-count reported by the last applied snapshot.
func (r *Reconciler) TotalRows() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totalRows
}

// Loading reports whether a page fetch is in flight.
func (r *Reconciler) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// Err returns the last fetch error message, empty when the last fetch succeeded.
func (r *Reconciler) Err() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Filter returns the active filter descriptor.
func (r *Reconciler) Filter() domain.ScannerFilter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter
}

// Page returns the current (highest loaded) page number.
func (r *Reconciler) Page() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.page
}

// DumpState writes the entire internal state to a file (for post-mortem).
func (r *Reconciler) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	r.mu.RLock()
	data := struct {
		Rev       uint64               `json:"rev"`
		Page      int                  `json:"page"`
		TotalRows int                  `json:"total_rows"`
		Filter    domain.ScannerFilter `json:"filter"`
		Tokens    []domain.TokenData   `json:"tokens"`
	}{
		Rev:       r.rev,
		Page:      r.page,
		TotalRows: r.totalRows,
		Filter:    r.filter,
		Tokens:    r.currentWindowLocked(),
	}
	r.mu.RUnlock()

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}

func (r *Reconciler) currentWindowLocked() []domain.TokenData {
	seen := make(map[string]struct{})
	var out []domain.TokenData
	for p := 1; p <= r.page; p++ {
		for _, id := range r.pages.IDs(p) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if tok, ok := r.store.Get(id); ok {
				out = append(out, tok)
			}
		}
	}
	return out
}

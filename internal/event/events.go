package event

import (
	"github.com/shopspring/decimal"

	"scanner_go/internal/domain"
)

// Event is a message processed by the engine loop. Feed workers and the view
// boundary both produce events; the reconciler is the only consumer, so every
// cache mutation happens on one goroutine in receipt order.
type Event interface {
	Kind() string
}

// Swap is one trade inside a tick batch, most recent last.
type Swap struct {
	Timestamp int64 // unix millis, informational only
	PriceUsd  decimal.Decimal
	Amount    decimal.Decimal
	IsOutlier bool
}

// TickEvent carries the recent swaps for one pair. High-frequency; instances
// come from the pool and are released by the reconciler after dispatch.
type TickEvent struct {
	Pair  domain.PairKey
	Swaps []Swap
}

func (e *TickEvent) Kind() string { return "tick" }

// PairStatsEvent is a streamed update to the audit attributes of a pair.
type PairStatsEvent struct {
	PairAddress     string
	MintRenounced   bool
	FreezeRenounced bool
	IsHoneypot      bool
	IsVerified      bool
}

func (e *PairStatsEvent) Kind() string { return "pair-stats" }

// ScannerPairsEvent is a full membership replacement for one page of the
// filtered result set. Tokens preserve server order. Page < 1 marks a
// malformed/untargeted event; the reconciler drops it without mutation.
type ScannerPairsEvent struct {
	Filter domain.ScannerFilter
	Page   int
	Tokens []domain.TokenData
}

func (e *ScannerPairsEvent) Kind() string { return "scanner-pairs" }

// SnapshotEvent carries a completed page fetch back onto the engine loop.
// Filter and Page are the values the fetch was issued with, so the reconciler
// can drop completions that no longer match the active view.
type SnapshotEvent struct {
	Filter    domain.ScannerFilter
	Page      int
	Tokens    []domain.TokenData
	TotalRows int
}

func (e *SnapshotEvent) Kind() string { return "snapshot" }

// SnapshotErrorEvent reports a failed page fetch.
type SnapshotErrorEvent struct {
	Filter domain.ScannerFilter
	Page   int
	Err    error
}

func (e *SnapshotErrorEvent) Kind() string { return "snapshot-error" }

// LoadNextPageEvent asks the engine to advance to the next page and fetch it.
type LoadNextPageEvent struct{}

func (e *LoadNextPageEvent) Kind() string { return "load-next-page" }

// ChangeFilterEvent swaps the active filter and restarts paging at 1.
type ChangeFilterEvent struct {
	Filter domain.ScannerFilter
}

func (e *ChangeFilterEvent) Kind() string { return "change-filter" }

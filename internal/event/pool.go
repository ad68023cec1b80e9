package event

import (
	"sync"

	"scanner_go/internal/domain"
)

// tickPool provides sync.Pool for tick event allocation. Ticks are by far the
// most frequent feed message; pooling them keeps GC pressure off the hotpath.
//
// Usage:
//
//	ev := AcquireTickEvent()
//	ev.Pair = key
//	// ... fill swaps, hand to the engine inbox ...
//	ReleaseTickEvent(ev)  // done by the reconciler after dispatch
var tickPool = sync.Pool{
	New: func() interface{} {
		return &TickEvent{}
	},
}

// AcquireTickEvent gets a TickEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireTickEvent() *TickEvent {
	return tickPool.Get().(*TickEvent)
}

// ReleaseTickEvent returns a TickEvent to the pool. The swaps slice keeps its
// capacity so refills of a warm event do not allocate.
func ReleaseTickEvent(ev *TickEvent) {
	if ev == nil {
		return
	}
	ev.Pair = domain.PairKey{}
	ev.Swaps = ev.Swaps[:0]

	tickPool.Put(ev)
}

// Warmup pre-allocates tick events to reduce GC pressure at startup.
func Warmup() {
	const batchSize = 1000

	evs := make([]*TickEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		evs = append(evs, AcquireTickEvent())
	}
	for _, ev := range evs {
		ReleaseTickEvent(ev)
	}
}

package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	eventsProcessed atomic.Uint64
	ticksDropped    atomic.Uint64 // ticks for identities not in the store
	feedDropped     atomic.Uint64 // inbound messages dropped on a full inbox
	fetchErrors     atomic.Uint64
	feedReconnects  atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	activeConnections atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordEvent records an event processing with latency.
func (m *Metrics) RecordEvent(latencyNs int64) {
	m.eventsProcessed.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordTickDropped records a tick ignored because its pair is unknown.
func (m *Metrics) RecordTickDropped() {
	m.ticksDropped.Add(1)
}

// RecordFeedDropped records an inbound feed message dropped on backpressure.
func (m *Metrics) RecordFeedDropped() {
	m.feedDropped.Add(1)
}

// RecordFetchError records a failed scanner page fetch.
func (m *Metrics) RecordFetchError() {
	m.fetchErrors.Add(1)
}

// RecordFeedReconnect records a feed connection (re)establishment.
func (m *Metrics) RecordFeedReconnect() {
	m.feedReconnects.Add(1)
}

// IncrementConnections increments active connections by 1.
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
}

// DecrementConnections decrements active connections by 1.
func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	EventsProcessed   uint64
	TicksDropped      uint64
	FeedDropped       uint64
	FetchErrors       uint64
	FeedReconnects    uint64
	AvgLatencyNs      int64
	ActiveConnections int32
	Timestamp         time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		EventsProcessed:   m.eventsProcessed.Load(),
		TicksDropped:      m.ticksDropped.Load(),
		FeedDropped:       m.feedDropped.Load(),
		FetchErrors:       m.fetchErrors.Load(),
		FeedReconnects:    m.feedReconnects.Load(),
		AvgLatencyNs:      avgLatency,
		ActiveConnections: m.activeConnections.Load(),
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.eventsProcessed.Store(0)
	m.ticksDropped.Store(0)
	m.feedDropped.Store(0)
	m.fetchErrors.Store(0)
	m.feedReconnects.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.activeConnections.Store(0)
}

package infra

import (
	"sync"
	"testing"
)

func TestMetrics_Counters(t *testing.T) {
	m := &Metrics{}

	m.RecordEvent(1000)
	m.RecordEvent(3000)
	m.RecordTickDropped()
	m.RecordFeedDropped()
	m.RecordFetchError()
	m.RecordFeedReconnect()

	snap := m.Snapshot()
	if snap.EventsProcessed != 2 {
		t.Errorf("Expected 2 events processed, got %d", snap.EventsProcessed)
	}
	if snap.TicksDropped != 1 {
		t.Errorf("Expected 1 tick dropped, got %d", snap.TicksDropped)
	}
	if snap.FeedDropped != 1 {
		t.Errorf("Expected 1 feed drop, got %d", snap.FeedDropped)
	}
	if snap.FetchErrors != 1 {
		t.Errorf("Expected 1 fetch error, got %d", snap.FetchErrors)
	}
	if snap.FeedReconnects != 1 {
		t.Errorf("Expected 1 reconnect, got %d", snap.FeedReconnects)
	}
	if snap.AvgLatencyNs != 2000 {
		t.Errorf("Expected avg latency 2000ns, got %d", snap.AvgLatencyNs)
	}
}

func TestMetrics_Connections(t *testing.T) {
	m := &Metrics{}

	m.IncrementConnections()
	m.IncrementConnections()
	m.DecrementConnections()

	if got := m.Snapshot().ActiveConnections; got != 1 {
		t.Errorf("Expected 1 active connection, got %d", got)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}
	m.RecordEvent(500)
	m.RecordFetchError()
	m.IncrementConnections()

	m.Reset()

	snap := m.Snapshot()
	if snap.EventsProcessed != 0 || snap.FetchErrors != 0 || snap.ActiveConnections != 0 || snap.AvgLatencyNs != 0 {
		t.Errorf("Expected zeroed metrics after reset, got %+v", snap)
	}
}

func TestMetrics_ConcurrentAccess(t *testing.T) {
	m := &Metrics{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordEvent(100)
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot().EventsProcessed; got != 1000 {
		t.Errorf("Expected 1000 events, got %d", got)
	}
}

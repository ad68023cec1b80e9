package event

import (
	"testing"

	"github.com/shopspring/decimal"

	"scanner_go/internal/domain"
)

func TestTickPool_ReleaseResets(t *testing.T) {
	ev := AcquireTickEvent()
	ev.Pair = domain.PairKey{Pair: "P1", Token: "T1", Chain: "SOL"}
	ev.Swaps = append(ev.Swaps, Swap{PriceUsd: decimal.NewFromInt(1)})

	ReleaseTickEvent(ev)

	got := AcquireTickEvent()
	defer ReleaseTickEvent(got)

	if got.Pair != (domain.PairKey{}) {
		t.Errorf("Pooled event must come back with a zero pair, got %+v", got.Pair)
	}
	if len(got.Swaps) != 0 {
		t.Errorf("Pooled event must come back with empty swaps, got %d", len(got.Swaps))
	}
}

func TestTickPool_ReleaseNil(t *testing.T) {
	ReleaseTickEvent(nil) // must not panic
}

func BenchmarkTickPool(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ev := AcquireTickEvent()
		ev.Swaps = append(ev.Swaps, Swap{})
		ReleaseTickEvent(ev)
	}
}

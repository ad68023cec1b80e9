package domain

import "context"

// SnapshotFetcher returns one page of scanner results for a filter, plus the
// total row count of the whole result set.
type SnapshotFetcher interface {
	FetchPage(ctx context.Context, filter ScannerFilter, page int) ([]TokenData, int, error)
}

// FeedSender carries subscription intents to the push feed. Implementations
// must not block the caller on the network; intents sent while disconnected
// are queued and flushed in receipt order once the connection is back.
type FeedSender interface {
	SubscribePair(key PairKey) error
	UnsubscribePair(key PairKey) error
	SubscribePairStats(key PairKey) error
	UnsubscribePairStats(key PairKey) error
	SubscribeScanner(filter ScannerFilter) error
	UnsubscribeScanner(filter ScannerFilter) error
}

// FeedWorker is the connection lifecycle of the push feed. Connect returns
// immediately; reconnects and heartbeats are the worker's concern.
type FeedWorker interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
}

// PresetRepository persists user filter presets. Presets are preferences,
// never cache state: the token caches themselves are session-lived.
type PresetRepository interface {
	SavePreset(p *FilterPreset) error
	GetPreset(name string) (*FilterPreset, error)
	ListPresets() ([]FilterPreset, error)
	DeletePreset(name string) error
}

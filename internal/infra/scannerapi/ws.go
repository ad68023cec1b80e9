package scannerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"scanner_go/internal/domain"
	"scanner_go/internal/event"
	"scanner_go/internal/infra"
)

// Outbound intent tags.
const (
	msgSubscribePair     = "subscribe-pair"
	msgUnsubscribePair   = "unsubscribe-pair"
	msgSubscribeStats    = "subscribe-pair-stats"
	msgUnsubscribeStats  = "unsubscribe-pair-stats"
	msgScannerFilter     = "scanner-filter"
	msgUnsubscribeFilter = "unsubscribe-scanner-filter"
	msgPing              = "ping"
)

type outboundMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type incomingEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type swapEntry struct {
	Timestamp      int64  `json:"timestamp"`
	PriceToken1Usd string `json:"priceToken1Usd"`
	AmountToken1   string `json:"amountToken1"`
	IsOutlier      bool   `json:"isOutlier"`
}

type tickPayload struct {
	Pair  domain.PairKey `json:"pair"`
	Swaps []swapEntry    `json:"swaps"`
}

type pairStatsPayload struct {
	Pair struct {
		PairAddress              string `json:"pairAddress"`
		MintAuthorityRenounced   bool   `json:"mintAuthorityRenounced"`
		FreezeAuthorityRenounced bool   `json:"freezeAuthorityRenounced"`
		Token1IsHoneypot         bool   `json:"token1IsHoneypot"`
		IsVerified               bool   `json:"isVerified"`
	} `json:"pair"`
}

type scannerFilterWire struct {
	domain.ScannerFilter
	Page *int `json:"page"`
}

type scannerPairsPayload struct {
	Filter  scannerFilterWire `json:"filter"`
	Results struct {
		Pairs []ScannerResult `json:"pairs"`
	} `json:"results"`
}

// FeedWorker owns the push-feed WebSocket: connection lifecycle, heartbeat,
// inbound event parsing and outbound intent delivery. Intents issued while
// disconnected are queued and flushed in receipt order on reconnect, before
// any new send goes out.
type FeedWorker struct {
	url          string
	inbox        chan<- event.Event
	pingInterval time.Duration
	readTimeout  time.Duration

	conn    *websocket.Conn
	mu      sync.RWMutex // guards conn
	writeMu sync.Mutex   // serializes socket writes

	queueMu   sync.Mutex // guards connected + pending
	connected bool
	pending   []outboundMessage

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFeedWorker creates a feed worker delivering events into inbox.
func NewFeedWorker(url string, inbox chan<- event.Event, pingInterval, readTimeout time.Duration) *FeedWorker {
	return &FeedWorker{
		url:          url,
		inbox:        inbox,
		pingInterval: pingInterval,
		readTimeout:  readTimeout,
	}
}

// SetInbox wires the engine inbox after construction. The worker and the
// engine reference each other, so one side has to be wired late; must be
// called before Connect when the worker was created without an inbox.
func (w *FeedWorker) SetInbox(inbox chan<- event.Event) {
	w.inbox = inbox
}

// Connect starts the connection loop and heartbeat. Returns immediately.
func (w *FeedWorker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(2)
	go w.connectionLoop(ctx)
	go w.pingLoop(ctx)
	return nil
}

func (w *FeedWorker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = time.Minute
	b.MaxElapsedTime = 0 // retry forever, the feed is the app's lifeline

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			delay := b.NextBackOff()
			slog.Warn("Feed connection failed",
				slog.Any("error", err),
				slog.Duration("retry_in", delay))
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}

		b.Reset()
		w.readLoop(ctx)
	}
}

func (w *FeedWorker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()

	// Flush queued intents in receipt order before new sends are allowed.
	// queueMu stays held so a concurrent send cannot jump the queue.
	w.queueMu.Lock()
	pending := w.pending
	w.pending = nil
	for i, msg := range pending {
		if err := w.writeJSON(msg); err != nil {
			w.pending = pending[i:]
			w.queueMu.Unlock()
			w.closeConnection()
			return err
		}
	}
	w.connected = true
	w.queueMu.Unlock()

	infra.GlobalMetrics.RecordFeedReconnect()
	infra.GlobalMetrics.IncrementConnections()
	slog.Info("Feed connected", slog.String("url", w.url))
	return nil
}

func (w *FeedWorker) pingLoop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.IsConnected() {
				w.writeJSON(outboundMessage{Event: msgPing})
			}
		}
	}
}

func (w *FeedWorker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.closeConnection()
			return
		default:
		}

		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()
		if conn == nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(w.readTimeout))

		_, msg, err := conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

func (w *FeedWorker) handleMessage(msg []byte) {
	if string(msg) == "pong" {
		return
	}

	var env incomingEnvelope
	if err := json.Unmarshal(msg, &env); err != nil {
		slog.Warn("Malformed feed message", slog.Any("error", err))
		return
	}

	switch env.Event {
	case "tick":
		var p tickPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			slog.Warn("Malformed tick payload", slog.Any("error", err))
			return
		}
		ev := event.AcquireTickEvent()
		ev.Pair = p.Pair
		for _, sw := range p.Swaps {
			ev.Swaps = append(ev.Swaps, event.Swap{
				Timestamp: sw.Timestamp,
				PriceUsd:  parseDecimal(sw.PriceToken1Usd),
				Amount:    parseDecimal(sw.AmountToken1),
				IsOutlier: sw.IsOutlier,
			})
		}
		w.deliver(ev, func() { event.ReleaseTickEvent(ev) })

	case "pair-stats":
		var p pairStatsPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			slog.Warn("Malformed pair-stats payload", slog.Any("error", err))
			return
		}
		w.deliver(&event.PairStatsEvent{
			PairAddress:     p.Pair.PairAddress,
			MintRenounced:   p.Pair.MintAuthorityRenounced,
			FreezeRenounced: p.Pair.FreezeAuthorityRenounced,
			IsHoneypot:      p.Pair.Token1IsHoneypot,
			IsVerified:      p.Pair.IsVerified,
		}, nil)

	case "scanner-pairs":
		var p scannerPairsPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			slog.Warn("Malformed scanner-pairs payload", slog.Any("error", err))
			return
		}
		tokens := make([]domain.TokenData, 0, len(p.Results.Pairs))
		for i := range p.Results.Pairs {
			tokens = append(tokens, p.Results.Pairs[i].TokenData())
		}
		page := 0
		if p.Filter.Page != nil {
			page = *p.Filter.Page
		}
		w.deliver(&event.ScannerPairsEvent{
			Filter: p.Filter.ScannerFilter,
			Page:   page,
			Tokens: tokens,
		}, nil)

	case "pong":
		// heartbeat reply, nothing to do

	default:
		slog.Warn("Unsupported feed message", slog.String("event", env.Event))
	}
}

// deliver hands an event to the engine inbox without ever blocking the read
// loop. A full inbox drops the event; onDrop cleans up pooled events.
func (w *FeedWorker) deliver(ev event.Event, onDrop func()) {
	select {
	case w.inbox <- ev:
	default:
		infra.GlobalMetrics.RecordFeedDropped()
		slog.Warn("Engine inbox full, dropping feed event", slog.String("kind", ev.Kind()))
		if onDrop != nil {
			onDrop()
		}
	}
}

// ======================================================================================
// Outbound intents (domain.FeedSender)
// ======================================================================================

// SubscribePair subscribes to the trade tick feed for a pair.
func (w *FeedWorker) SubscribePair(key domain.PairKey) error {
	return w.send(outboundMessage{Event: msgSubscribePair, Data: key})
}

// UnsubscribePair unsubscribes from the trade tick feed for a pair.
func (w *FeedWorker) UnsubscribePair(key domain.PairKey) error {
	return w.send(outboundMessage{Event: msgUnsubscribePair, Data: key})
}

// SubscribePairStats subscribes to the audit feed for a pair.
func (w *FeedWorker) SubscribePairStats(key domain.PairKey) error {
	return w.send(outboundMessage{Event: msgSubscribeStats, Data: key})
}

// UnsubscribePairStats unsubscribes from the audit feed for a pair.
func (w *FeedWorker) UnsubscribePairStats(key domain.PairKey) error {
	return w.send(outboundMessage{Event: msgUnsubscribeStats, Data: key})
}

// SubscribeScanner subscribes to membership updates for a filtered view.
func (w *FeedWorker) SubscribeScanner(filter domain.ScannerFilter) error {
	return w.send(outboundMessage{Event: msgScannerFilter, Data: filter})
}

// UnsubscribeScanner stops membership updates for a filtered view.
func (w *FeedWorker) UnsubscribeScanner(filter domain.ScannerFilter) error {
	return w.send(outboundMessage{Event: msgUnsubscribeFilter, Data: filter})
}

// send delivers an intent, or queues it when the feed is down. A failed write
// also requeues: the intent belongs to the next session, the error only tells
// the caller delivery is deferred.
func (w *FeedWorker) send(msg outboundMessage) error {
	w.queueMu.Lock()
	if !w.connected {
		w.pending = append(w.pending, msg)
		w.queueMu.Unlock()
		return nil
	}
	w.queueMu.Unlock()

	if err := w.writeJSON(msg); err != nil {
		w.queueMu.Lock()
		w.pending = append(w.pending, msg)
		w.queueMu.Unlock()
		return err
	}
	return nil
}

func (w *FeedWorker) writeJSON(msg outboundMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.conn == nil {
		return fmt.Errorf("no conn")
	}
	return w.conn.WriteMessage(websocket.TextMessage, b)
}

// IsConnected reports whether the feed session is established.
func (w *FeedWorker) IsConnected() bool {
	w.queueMu.Lock()
	defer w.queueMu.Unlock()
	return w.connected
}

func (w *FeedWorker) closeConnection() {
	w.queueMu.Lock()
	wasConnected := w.connected
	w.connected = false
	w.queueMu.Unlock()

	w.mu.Lock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.mu.Unlock()

	if wasConnected {
		infra.GlobalMetrics.DecrementConnections()
	}
}

// Disconnect stops the worker and waits for its goroutines.
func (w *FeedWorker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}

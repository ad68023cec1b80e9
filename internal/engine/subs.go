package engine

import "sort"

// Topic is one of the two per-pair feed subscriptions.
type Topic uint8

const (
	TopicPair      Topic = iota // trade tick feed
	TopicPairStats              // audit/pair-stats feed
)

type subKey struct {
	id    string
	topic Topic
}

// SubscriptionTracker refcounts (identity, topic) subscriptions across pages.
// An identity that appears on two pages holds a count of 2; the subscribe
// intent goes out only on the 0 to 1 transition and the unsubscribe intent
// only on the 1 to 0 transition, so the transport never sees duplicates.
type SubscriptionTracker struct {
	refs map[subKey]int
}

// NewSubscriptionTracker creates an empty tracker.
func NewSubscriptionTracker() *SubscriptionTracker {
	return &SubscriptionTracker{refs: make(map[subKey]int)}
}

// Acquire increments the refcount and reports whether this was the 0 to 1
// transition, i.e. whether a subscribe intent must be emitted.
func (t *SubscriptionTracker) Acquire(id string, topic Topic) bool {
	k := subKey{id: id, topic: topic}
	t.refs[k]++
	return t.refs[k] == 1
}

// Release decrements the refcount and reports whether it hit zero, i.e.
// whether an unsubscribe intent must be emitted. Releasing an untracked pair
// is a no-op.
func (t *SubscriptionTracker) Release(id string, topic Topic) bool {
	k := subKey{id: id, topic: topic}
	n, ok := t.refs[k]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(t.refs, k)
		return true
	}
	t.refs[k] = n - 1
	return false
}

// ForceRelease drops the refcount straight to zero and reports whether the
// pair was tracked at all. Used by the filter-change sweep, which tears down
// every subscription regardless of how many pages referenced it.
func (t *SubscriptionTracker) ForceRelease(id string, topic Topic) bool {
	k := subKey{id: id, topic: topic}
	if _, ok := t.refs[k]; !ok {
		return false
	}
	delete(t.refs, k)
	return true
}

// Count returns the current refcount for (id, topic).
func (t *SubscriptionTracker) Count(id string, topic Topic) int {
	return t.refs[subKey{id: id, topic: topic}]
}

// ActiveIDs returns every identity with at least one active subscription,
// each listed once, in stable order.
func (t *SubscriptionTracker) ActiveIDs() []string {
	seen := make(map[string]struct{}, len(t.refs))
	for k := range t.refs {
		seen[k.id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of tracked (identity, topic) pairs.
func (t *SubscriptionTracker) Len() int {
	return len(t.refs)
}

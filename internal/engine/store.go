package engine

import "scanner_go/internal/domain"

// TokenStore is the canonical by-identity store of token records. Pure
// key-value overwrite/remove; no ordering, no events. It is not safe for
// concurrent use on its own: the reconciler is the only writer and guards
// external reads with its own lock.
type TokenStore struct {
	tokens map[string]domain.TokenData
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]domain.TokenData)}
}

// Get returns the record for id, if present.
func (s *TokenStore) Get(id string) (domain.TokenData, bool) {
	t, ok := s.tokens[id]
	return t, ok
}

// Put inserts or wholesale-replaces the record keyed by its identity.
func (s *TokenStore) Put(t domain.TokenData) {
	s.tokens[t.ID] = t
}

// PutMany batch inserts/replaces, record by record.
func (s *TokenStore) PutMany(ts []domain.TokenData) {
	for _, t := range ts {
		s.tokens[t.ID] = t
	}
}

// Remove deletes the record for id. No-op if absent.
func (s *TokenStore) Remove(id string) {
	delete(s.tokens, id)
}

// Len returns the number of stored records.
func (s *TokenStore) Len() int {
	return len(s.tokens)
}

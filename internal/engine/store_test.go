package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"scanner_go/internal/domain"
)

func TestTokenStore_PutGet(t *testing.T) {
	s := NewTokenStore()

	s.Put(domain.TokenData{ID: "P1", TokenSymbol: "AAA", PriceUsd: decimal.NewFromInt(5)})

	tok, ok := s.Get("P1")
	if !ok {
		t.Fatal("P1 should exist")
	}
	if tok.TokenSymbol != "AAA" {
		t.Errorf("Expected symbol AAA, got %s", tok.TokenSymbol)
	}

	if _, ok := s.Get("P2"); ok {
		t.Error("P2 should not exist")
	}
}

func TestTokenStore_PutReplacesWholesale(t *testing.T) {
	s := NewTokenStore()

	s.Put(domain.TokenData{ID: "P1", TokenSymbol: "AAA", Transactions: domain.Transactions{Buys: 7}})
	s.Put(domain.TokenData{ID: "P1", TokenSymbol: "BBB"})

	tok, _ := s.Get("P1")
	if tok.TokenSymbol != "BBB" {
		t.Errorf("Expected replaced symbol BBB, got %s", tok.TokenSymbol)
	}
	if tok.Transactions.Buys != 0 {
		t.Error("Put must replace the whole record, not merge fields")
	}
}

func TestTokenStore_PutMany(t *testing.T) {
	s := NewTokenStore()

	s.PutMany([]domain.TokenData{{ID: "P1"}, {ID: "P2"}, {ID: "P3"}})

	if s.Len() != 3 {
		t.Errorf("Expected 3 records, got %d", s.Len())
	}
}

func TestTokenStore_Remove(t *testing.T) {
	s := NewTokenStore()

	s.Put(domain.TokenData{ID: "P1"})
	s.Remove("P1")
	s.Remove("never-existed") // no-op

	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d records", s.Len())
	}
}

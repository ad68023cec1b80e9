package domain

import (
	"testing"
)

func TestTokenData_Key(t *testing.T) {
	tok := TokenData{
		ID:           "PAIR",
		PairAddress:  "PAIR",
		TokenAddress: "TOKEN",
		Chain:        "SOL",
	}

	key := tok.Key()
	if key.Pair != "PAIR" || key.Token != "TOKEN" || key.Chain != "SOL" {
		t.Errorf("Unexpected key: %+v", key)
	}
}

func TestChainName(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{1, "ETH"},
		{56, "BSC"},
		{8453, "BASE"},
		{900, "SOL"},
		{0, "UNKNOWN"},
		{-1, "UNKNOWN"},
		{12345, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := ChainName(tt.id); got != tt.want {
			t.Errorf("ChainName(%d) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

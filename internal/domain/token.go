package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PairKey identifies a trading pair on the feed wire. Pair and pair-stats
// subscriptions are addressed by this triple.
type PairKey struct {
	Pair  string `json:"pair"`
	Token string `json:"token"`
	Chain string `json:"chain"`
}

// PriceChanges holds the percentage price change per fixed interval.
type PriceChanges struct {
	M5  decimal.Decimal `json:"5m"`
	H1  decimal.Decimal `json:"1h"`
	H6  decimal.Decimal `json:"6h"`
	H24 decimal.Decimal `json:"24h"`
}

// Transactions counts buys and sells observed for a pair.
type Transactions struct {
	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`
}

// Audit holds the safety/verification attributes of a token.
// Honeypot is true when the token is flagged as a honeypot.
// ContractVerified is sticky: once true it stays true for the life of the record.
type Audit struct {
	MintDisabled     bool `json:"mint_disabled"`
	FreezeDisabled   bool `json:"freeze_disabled"`
	Honeypot         bool `json:"honeypot"`
	ContractVerified bool `json:"contract_verified"`
}

// Liquidity holds the current liquidity amount and its percent change.
type Liquidity struct {
	Current  decimal.Decimal `json:"current"`
	ChangePc decimal.Decimal `json:"change_pc"`
}

// TokenData is the canonical record for one tradeable token. Identity is the
// pair address: every feed event (tick, pair-stats, scanner-pairs) routes by
// pair address, so it is the one key that needs no secondary index.
//
// Records are value types with copy-on-write semantics: handlers build a new
// value and store it wholesale, they never mutate a record in place. A reader
// therefore observes either the old or the new value, never a partial one.
type TokenData struct {
	ID           string `json:"id"` // pair address, never changes after creation
	TokenName    string `json:"token_name"`
	TokenSymbol  string `json:"token_symbol"`
	TokenAddress string `json:"token_address"`
	PairAddress  string `json:"pair_address"`
	Chain        string `json:"chain"`
	Exchange     string `json:"exchange"`

	PriceUsd    decimal.Decimal `json:"price_usd"`
	VolumeUsd   decimal.Decimal `json:"volume_usd"`
	Mcap        decimal.Decimal `json:"mcap"`
	PriceChange PriceChanges    `json:"price_change"`
	Liquidity   Liquidity       `json:"liquidity"`
	TotalSupply decimal.Decimal `json:"total_supply"`

	Transactions Transactions `json:"transactions"`
	Audit        Audit        `json:"audit"`

	CreatedAt time.Time `json:"created_at"`
}

// Key returns the wire key used for pair/pair-stats subscriptions.
func (t *TokenData) Key() PairKey {
	return PairKey{Pair: t.PairAddress, Token: t.TokenAddress, Chain: t.Chain}
}

// ChainName maps a numeric chain id from the scanner API to its display name.
func ChainName(id int) string {
	switch id {
	case 1:
		return "ETH"
	case 56:
		return "BSC"
	case 8453:
		return "BASE"
	case 900:
		return "SOL"
	default:
		return "UNKNOWN"
	}
}

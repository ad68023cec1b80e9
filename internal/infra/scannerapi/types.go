package scannerapi

import (
	"time"

	"github.com/shopspring/decimal"

	"scanner_go/internal/domain"
)

// ScannerResult is the raw pair payload returned by the REST scanner endpoint
// and embedded in scanner-pairs feed events. Numeric fields arrive as strings.
type ScannerResult struct {
	PairAddress   string `json:"pairAddress"`
	Token1Name    string `json:"token1Name"`
	Token1Symbol  string `json:"token1Symbol"`
	Token1Address string `json:"token1Address"`
	ChainID       int    `json:"chainId"`
	RouterAddress string `json:"routerAddress"`

	Price  string `json:"price"`
	Volume string `json:"volume"`

	CurrentMcap        string `json:"currentMcap"`
	InitialMcap        string `json:"initialMcap"`
	PairMcapUsd        string `json:"pairMcapUsd"`
	PairMcapUsdInitial string `json:"pairMcapUsdInitial"`

	Diff5M  string `json:"diff5M"`
	Diff1H  string `json:"diff1H"`
	Diff6H  string `json:"diff6H"`
	Diff24H string `json:"diff24H"`

	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`

	IsMintAuthDisabled   bool `json:"isMintAuthDisabled"`
	IsFreezeAuthDisabled bool `json:"isFreezeAuthDisabled"`
	HoneyPot             bool `json:"honeyPot"`
	ContractVerified     bool `json:"contractVerified"`

	Age                        time.Time `json:"age"`
	Liquidity                  string    `json:"liquidity"`
	PercentChangeInLiquidity   string    `json:"percentChangeInLiquidity"`
	Token1TotalSupplyFormatted string    `json:"token1TotalSupplyFormatted"`
}

// ScannerResponse is the REST page payload.
type ScannerResponse struct {
	Pairs     []ScannerResult `json:"pairs"`
	TotalRows int             `json:"totalRows"`
}

// TokenData converts the wire payload to the canonical record. Market cap
// falls back through the first positive candidate the API provides.
func (sr *ScannerResult) TokenData() domain.TokenData {
	return domain.TokenData{
		ID:           sr.PairAddress,
		TokenName:    sr.Token1Name,
		TokenSymbol:  sr.Token1Symbol,
		TokenAddress: sr.Token1Address,
		PairAddress:  sr.PairAddress,
		Chain:        domain.ChainName(sr.ChainID),
		Exchange:     sr.RouterAddress,

		PriceUsd:  parseDecimal(sr.Price),
		VolumeUsd: parseDecimal(sr.Volume),
		Mcap:      sr.mcap(),
		PriceChange: domain.PriceChanges{
			M5:  parseDecimal(sr.Diff5M),
			H1:  parseDecimal(sr.Diff1H),
			H6:  parseDecimal(sr.Diff6H),
			H24: parseDecimal(sr.Diff24H),
		},
		Liquidity: domain.Liquidity{
			Current:  parseDecimal(sr.Liquidity),
			ChangePc: parseDecimal(sr.PercentChangeInLiquidity),
		},
		TotalSupply: parseDecimal(sr.Token1TotalSupplyFormatted),

		Transactions: domain.Transactions{Buys: sr.Buys, Sells: sr.Sells},
		Audit: domain.Audit{
			MintDisabled:     sr.IsMintAuthDisabled,
			FreezeDisabled:   sr.IsFreezeAuthDisabled,
			Honeypot:         sr.HoneyPot,
			ContractVerified: sr.ContractVerified,
		},

		CreatedAt: sr.Age,
	}
}

func (sr *ScannerResult) mcap() decimal.Decimal {
	for _, s := range []string{sr.CurrentMcap, sr.InitialMcap, sr.PairMcapUsd, sr.PairMcapUsdInitial} {
		if d := parseDecimal(s); d.IsPositive() {
			return d
		}
	}
	return decimal.Zero
}

// parseDecimal converts a wire numeric string, treating empty or malformed
// values as zero. The API is known to send "" for absent figures.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

package models

import "strings"

// SymbolConfig describes one supported cryptocurrency.
type SymbolConfig struct {
	Symbol      string // trading symbol (BTC, ETH)
	Name        string // display name
	CoingeckoID string // id used by the snapshot source
}

// SupportedSymbols is the static symbol catalog.
var SupportedSymbols = map[string]SymbolConfig{
	"BTC":   {Symbol: "BTC", Name: "Bitcoin", CoingeckoID: "bitcoin"},
	"ETH":   {Symbol: "ETH", Name: "Ethereum", CoingeckoID: "ethereum"},
	"ADA":   {Symbol: "ADA", Name: "Cardano", CoingeckoID: "cardano"},
	"SOL":   {Symbol: "SOL", Name: "Solana", CoingeckoID: "solana"},
	"DOT":   {Symbol: "DOT", Name: "Polkadot", CoingeckoID: "polkadot"},
	"LINK":  {Symbol: "LINK", Name: "Chainlink", CoingeckoID: "chainlink"},
	"MATIC": {Symbol: "MATIC", Name: "Polygon", CoingeckoID: "polygon"},
	"LTC":   {Symbol: "LTC", Name: "Litecoin", CoingeckoID: "litecoin"},
	"XRP":   {Symbol: "XRP", Name: "XRP", CoingeckoID: "xrp"},
	"DOGE":  {Symbol: "DOGE", Name: "Dogecoin", CoingeckoID: "dogecoin"},
}

// LookupSymbol resolves a symbol or CoinGecko id, case-insensitively.
func LookupSymbol(identifier string) (SymbolConfig, bool) {
	if c, ok := SupportedSymbols[strings.ToUpper(identifier)]; ok {
		return c, true
	}
	lower := strings.ToLower(identifier)
	for _, c := range SupportedSymbols {
		if c.CoingeckoID == lower {
			return c, true
		}
	}
	return SymbolConfig{}, false
}

// IsSupportedSymbol reports whether the identifier maps to a known symbol.
func IsSupportedSymbol(identifier string) bool {
	_, ok := LookupSymbol(identifier)
	return ok
}

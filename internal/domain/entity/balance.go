package entity

// Coin is a single denom/amount pair exactly as the chain reports it.
// Amount is a decimal integer string and is never reformatted.
type Coin struct {
	Denom  string `json:"denom" yaml:"denom"`
	Amount string `json:"amount" yaml:"amount"`
}

// BalanceEntry represents the balances held by one address, in chain order.
type BalanceEntry struct {
	Address      string `json:"address"`
	ChainID      string `json:"chainId"`
	Balances     []Coin `json:"balances"`
	InvalidChain bool   `json:"invalidChain,omitempty"`
}

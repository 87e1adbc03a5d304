package entity

// AddressDirectoryEntry is the cached result of a directory fetch for one chain.
// When InvalidChain is set the selected chain is not the authorized one and
// Addresses is always empty.
type AddressDirectoryEntry struct {
	ChainID      string   `json:"chainId"`
	Addresses    []string `json:"addresses,omitempty"`
	InvalidChain bool     `json:"invalidChain"`
}

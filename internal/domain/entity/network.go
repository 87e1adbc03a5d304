package entity

// ChainDefinition holds what this core needs to know about one Cosmos chain.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type ChainDefinition struct {
	ChainID      string `json:"chainId" yaml:"chainId"`
	Name         string `json:"name" yaml:"name"`
	RESTEndpoint string `json:"restEndpoint" yaml:"restEndpoint"`
}

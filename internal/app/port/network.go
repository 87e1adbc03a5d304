package port

import (
	"context"

	"cca_wallet/internal/domain/entity"
)

// ChainEndpointResolver resolves the REST endpoint to query for a chain identifier.
type ChainEndpointResolver interface {
	RESTEndpoint(ctx context.Context, chainID string) (string, error)
}

// ChainDefinitionProvider exposes the known chain definitions.
type ChainDefinitionProvider interface {
	ChainEndpointResolver

	// GetAllChainDefinitions returns all known chain definitions as a slice.
	GetAllChainDefinitions() []entity.ChainDefinition

	// GetChainDefinition returns a chain definition and true if found.
	GetChainDefinition(chainID string) (entity.ChainDefinition, bool)
}

// ChainRESTClient issues the two reads this core needs against a chain's REST endpoint.
type ChainRESTClient interface {
	// ListAccounts returns the address of every account entry, in response order.
	// Entries without a usable address are returned as empty strings.
	ListAccounts(ctx context.Context, baseURL string) ([]string, error)

	// GetBalances returns the balances of address in the order the chain returned them.
	GetBalances(ctx context.Context, baseURL string, address string) ([]entity.Coin, error)
}

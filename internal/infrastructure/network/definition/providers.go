package networkdefinition

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cca_wallet/internal/app/port"
	"cca_wallet/internal/domain/entity"
)

// ChainDefinitionProvider provides chain definitions: the predefined ones,
// with any configured entries layered on top.
type ChainDefinitionProvider struct {
	logger    port.Logger
	allChains map[string]entity.ChainDefinition
}

// Predefined chain definitions
var ( //nolint:gochecknoglobals // Global for definitions
	CCA = entity.ChainDefinition{
		ChainID:      "cca",
		Name:         "CCA Local",
		RESTEndpoint: "http://localhost:1317",
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.ChainDefinition{
	CCA.ChainID: CCA,
}

// NewChainDefinitionProvider creates a new ChainDefinitionProvider. A configured
// chain with a known id overrides only the fields it sets.
func NewChainDefinitionProvider(log port.Logger, configured []entity.ChainDefinition) *ChainDefinitionProvider {
	p := &ChainDefinitionProvider{
		logger:    log,
		allChains: make(map[string]entity.ChainDefinition, len(allKnownDefinitions)+len(configured)),
	}
	for id, def := range allKnownDefinitions {
		p.allChains[id] = def
	}

	for _, c := range configured {
		def, known := p.allChains[c.ChainID]
		if !known {
			def = entity.ChainDefinition{ChainID: c.ChainID}
		}
		if c.Name != "" {
			def.Name = c.Name
		}
		if c.RESTEndpoint != "" {
			def.RESTEndpoint = strings.TrimRight(c.RESTEndpoint, "/")
		}
		p.allChains[c.ChainID] = def
		p.logger.Debug(fmt.Sprintf("Chain '%s' configured", def.ChainID), "rest_endpoint", def.RESTEndpoint, "override", known)
	}

	p.logger.Info(fmt.Sprintf("ChainDefinitionProvider initialized. Known chains: %d", len(p.allChains)))
	return p
}

// GetAllChainDefinitions returns all chain definitions sorted by chain id.
func (p *ChainDefinitionProvider) GetAllChainDefinitions() []entity.ChainDefinition {
	if p == nil {
		return []entity.ChainDefinition{}
	}
	defs := make([]entity.ChainDefinition, 0, len(p.allChains))
	for _, def := range p.allChains {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}

// GetChainDefinition returns a specific chain definition by its chain id.
func (p *ChainDefinitionProvider) GetChainDefinition(chainID string) (entity.ChainDefinition, bool) {
	if p == nil {
		return entity.ChainDefinition{}, false
	}
	def, ok := p.allChains[chainID]
	return def, ok
}

// RESTEndpoint implements port.ChainEndpointResolver.
func (p *ChainDefinitionProvider) RESTEndpoint(_ context.Context, chainID string) (string, error) {
	def, ok := p.GetChainDefinition(chainID)
	if !ok || def.RESTEndpoint == "" {
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownChain, chainID)
	}
	return def.RESTEndpoint, nil
}

var _ port.ChainDefinitionProvider = (*ChainDefinitionProvider)(nil)

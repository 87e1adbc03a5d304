package service

import (
	"context"
	"time"

	"cca_wallet/internal/app/chaingate"
	"cca_wallet/internal/app/port"
	"cca_wallet/internal/app/querycache"
	"cca_wallet/internal/domain/entity"
	"cca_wallet/internal/pkg/metrics"
)

const (
	addressDirectoryCacheName = "account_addresses"
	accountAddressesResource  = "account addresses"
)

// AddressDirectoryService implements port.AddressDirectory. Directories are
// cached per chain id and stay valid until Invalidate is called.
type AddressDirectoryService struct {
	resolver port.ChainEndpointResolver
	client   port.ChainRESTClient
	logger   port.Logger
	store    *querycache.Store[entity.AddressDirectoryEntry]
}

// NewAddressDirectoryService creates a new instance of AddressDirectoryService.
func NewAddressDirectoryService(
	resolver port.ChainEndpointResolver,
	client port.ChainRESTClient,
	l port.Logger,
) *AddressDirectoryService {
	return &AddressDirectoryService{
		resolver: resolver,
		client:   client,
		logger:   l,
		store:    querycache.New[entity.AddressDirectoryEntry](),
	}
}

// GetAddresses returns the address directory for chainID. On a chain other
// than the authorized one it returns an entry flagged InvalidChain without
// touching the network.
func (s *AddressDirectoryService) GetAddresses(ctx context.Context, chainID string) (entity.AddressDirectoryEntry, error) {
	if !chaingate.Check(chainID).Authorized {
		metrics.GateRejections.WithLabelValues("get_addresses").Inc()
		s.logger.Debug("Chain not authorized, skipping directory fetch", "chain_id", chainID)
		return entity.AddressDirectoryEntry{ChainID: chainID, InvalidChain: true}, nil
	}

	entry, how, err := s.store.Get(ctx, chainID, func(fetchCtx context.Context) (entity.AddressDirectoryEntry, error) {
		return s.fetch(fetchCtx, chainID)
	})
	metrics.CacheRequests.WithLabelValues(addressDirectoryCacheName, how.String()).Inc()
	if err != nil {
		return entity.AddressDirectoryEntry{}, err
	}
	return entry, nil
}

func (s *AddressDirectoryService) fetch(ctx context.Context, chainID string) (entity.AddressDirectoryEntry, error) {
	baseURL, err := s.resolver.RESTEndpoint(ctx, chainID)
	if err != nil {
		s.logger.Error("Failed to resolve REST endpoint", "chain_id", chainID, "error", err)
		return entity.AddressDirectoryEntry{}, &entity.FetchError{Resource: accountAddressesResource, Err: err}
	}

	start := time.Now()
	raw, err := s.client.ListAccounts(ctx, baseURL)
	metrics.FetchLatency.WithLabelValues(addressDirectoryCacheName).Observe(time.Since(start).Seconds())
	metrics.Fetches.WithLabelValues(addressDirectoryCacheName, metrics.FetchStatus(err)).Inc()
	if err != nil {
		if !querycache.IsCancelled(err) {
			s.logger.Error("Failed to fetch account addresses", "chain_id", chainID, "endpoint", baseURL, "error", err)
		}
		return entity.AddressDirectoryEntry{}, &entity.FetchError{Resource: accountAddressesResource, Err: err}
	}

	addresses := make([]string, 0, len(raw))
	for _, addr := range raw {
		if addr == "" {
			continue
		}
		addresses = append(addresses, addr)
	}
	if dropped := len(raw) - len(addresses); dropped > 0 {
		s.logger.Debug("Dropped account entries without an address", "chain_id", chainID, "dropped", dropped)
	}

	s.logger.Info("Account addresses fetched", "chain_id", chainID, "count", len(addresses))
	return entity.AddressDirectoryEntry{ChainID: chainID, Addresses: addresses}, nil
}

// Invalidate drops the cached directory for chainID.
func (s *AddressDirectoryService) Invalidate(chainID string) {
	metrics.CacheInvalidations.WithLabelValues(addressDirectoryCacheName).Inc()
	s.store.Invalidate(chainID)
	s.logger.Debug("Address directory invalidated", "chain_id", chainID)
}

// CancelAll aborts every directory fetch in flight.
func (s *AddressDirectoryService) CancelAll() {
	s.store.CancelAll()
}

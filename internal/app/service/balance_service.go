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
	balanceCacheName        = "account_balances"
	accountBalancesResource = "account balances"
)

// BalanceService implements port.BalanceCache. Entries are keyed by address
// and replaced wholesale on every successful read.
type BalanceService struct {
	resolver port.ChainEndpointResolver
	client   port.ChainRESTClient
	logger   port.Logger
	store    *querycache.Store[entity.BalanceEntry]
}

// NewBalanceService creates a new instance of BalanceService.
func NewBalanceService(
	resolver port.ChainEndpointResolver,
	client port.ChainRESTClient,
	l port.Logger,
) *BalanceService {
	return &BalanceService{
		resolver: resolver,
		client:   client,
		logger:   l,
		store:    querycache.New[entity.BalanceEntry](),
	}
}

// GetBalance returns the balances of address, reading them from the chain on
// a cache miss.
func (s *BalanceService) GetBalance(ctx context.Context, address string, chainID string) (entity.BalanceEntry, error) {
	if address == "" {
		return entity.BalanceEntry{}, entity.ErrAddressRequired
	}
	if !chaingate.Check(chainID).Authorized {
		metrics.GateRejections.WithLabelValues("get_balance").Inc()
		return entity.BalanceEntry{Address: address, ChainID: chainID, InvalidChain: true}, nil
	}

	entry, how, err := s.store.Get(ctx, address, s.fetcher(address, chainID))
	metrics.CacheRequests.WithLabelValues(balanceCacheName, how.String()).Inc()
	if err != nil {
		return entity.BalanceEntry{}, err
	}
	return entry, nil
}

// Refetch reads the balances of address again even if they are cached. The
// previous entry is kept if the read fails.
func (s *BalanceService) Refetch(ctx context.Context, address string, chainID string) (entity.BalanceEntry, error) {
	if address == "" {
		return entity.BalanceEntry{}, entity.ErrAddressRequired
	}
	if !chaingate.Check(chainID).Authorized {
		metrics.GateRejections.WithLabelValues("refetch_balance").Inc()
		return entity.BalanceEntry{Address: address, ChainID: chainID, InvalidChain: true}, nil
	}
	return s.store.Refetch(ctx, address, s.fetcher(address, chainID))
}

// Invalidate drops the cached balances of address.
func (s *BalanceService) Invalidate(address string) {
	metrics.CacheInvalidations.WithLabelValues(balanceCacheName).Inc()
	s.store.Invalidate(address)
	s.logger.Debug("Balance entry invalidated", "address", address)
}

// CancelAll aborts every balance read in flight.
func (s *BalanceService) CancelAll() {
	s.store.CancelAll()
}

func (s *BalanceService) fetcher(address, chainID string) querycache.FetchFunc[entity.BalanceEntry] {
	return func(ctx context.Context) (entity.BalanceEntry, error) {
		baseURL, err := s.resolver.RESTEndpoint(ctx, chainID)
		if err != nil {
			s.logger.Error("Failed to resolve REST endpoint", "chain_id", chainID, "error", err)
			return entity.BalanceEntry{}, &entity.FetchError{Resource: accountBalancesResource, Err: err}
		}

		start := time.Now()
		coins, err := s.client.GetBalances(ctx, baseURL, address)
		metrics.FetchLatency.WithLabelValues(balanceCacheName).Observe(time.Since(start).Seconds())
		metrics.Fetches.WithLabelValues(balanceCacheName, metrics.FetchStatus(err)).Inc()
		if err != nil {
			if !querycache.IsCancelled(err) {
				s.logger.Error("Failed to fetch account balances", "address", address, "chain_id", chainID, "error", err)
			}
			return entity.BalanceEntry{}, &entity.FetchError{Resource: accountBalancesResource, Err: err}
		}

		if coins == nil {
			coins = []entity.Coin{}
		}
		s.logger.Debug("Account balances fetched", "address", address, "chain_id", chainID, "denoms", len(coins))
		return entity.BalanceEntry{Address: address, ChainID: chainID, Balances: coins}, nil
	}
}

package port

import (
	"context"

	"cca_wallet/internal/domain/entity"
)

// AddressDirectory lists the on-chain addresses visible to the connected account.
type AddressDirectory interface {
	GetAddresses(ctx context.Context, chainID string) (entity.AddressDirectoryEntry, error)
	Invalidate(chainID string)
}

// BalanceCache serves per-address balances.
type BalanceCache interface {
	GetBalance(ctx context.Context, address string, chainID string) (entity.BalanceEntry, error)
	Invalidate(address string)
	Refetch(ctx context.Context, address string, chainID string) (entity.BalanceEntry, error)
}

// TransactionSubmitter drives a transfer from intent to outcome.
type TransactionSubmitter interface {
	Submit(ctx context.Context, intent entity.TransferIntent) (entity.TransactionOutcome, error)
}

// ChainSelection holds the single chain currently chosen by the user.
type ChainSelection interface {
	Current() string
	Select(chainID string)
}

package client

import (
	"context"
	"fmt"
	"sync"

	"cca_wallet/internal/app/port"
	"cca_wallet/internal/domain/entity"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// bridge is the part of WalletBridge the connector needs.
type bridge interface {
	Connect(ctx context.Context, chainID string) error
	SignAndBroadcast(ctx context.Context, chainID, signer string, msgs []sdk.Msg, fee entity.Fee) (*entity.BroadcastResult, error)
}

// walletConnector implements port.WalletConnector on top of a wallet bridge.
type walletConnector struct {
	bridge    bridge
	mu        sync.Mutex
	connected map[string]bool
	clients   map[string]port.SigningClient
	logger    port.Logger
}

// NewWalletConnector creates a new WalletConnector.
func NewWalletConnector(b bridge, logger port.Logger) port.WalletConnector {
	return &walletConnector{
		bridge:    b,
		connected: make(map[string]bool),
		clients:   make(map[string]port.SigningClient),
		logger:    logger,
	}
}

func (w *walletConnector) IsConnected(chainID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected[chainID]
}

func (w *walletConnector) Connect(ctx context.Context, chainID string) error {
	if err := w.bridge.Connect(ctx, chainID); err != nil {
		w.logger.Error("Failed to connect wallet", "chain_id", chainID, "error", err)
		return fmt.Errorf("connect to %s: %w", chainID, err)
	}
	w.mu.Lock()
	w.connected[chainID] = true
	w.mu.Unlock()
	return nil
}

// GetSigningClient returns the cached signing client for chainID. Without a
// connection there is no signer and the result is nil.
func (w *walletConnector) GetSigningClient(_ context.Context, chainID string) (port.SigningClient, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.connected[chainID] {
		w.logger.Warn("Signing client requested for a chain that is not connected", "chain_id", chainID)
		return nil, nil
	}
	if c, ok := w.clients[chainID]; ok {
		w.logger.Debug("Returning cached signing client", "chain_id", chainID)
		return c, nil
	}

	c := &signingClient{bridge: w.bridge, chainID: chainID}
	w.clients[chainID] = c
	w.logger.Info("Created and cached new signing client", "chain_id", chainID)
	return c, nil
}

// signingClient binds the bridge to one chain.
type signingClient struct {
	bridge  bridge
	chainID string
}

func (c *signingClient) SignAndBroadcast(ctx context.Context, signer string, msgs []sdk.Msg, fee entity.Fee) (*entity.BroadcastResult, error) {
	return c.bridge.SignAndBroadcast(ctx, c.chainID, signer, msgs, fee)
}

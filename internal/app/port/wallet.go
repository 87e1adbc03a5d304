package port

import (
	"context"

	"cca_wallet/internal/domain/entity"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// WalletConnector is the wallet-connection collaborator.
type WalletConnector interface {
	IsConnected(chainID string) bool
	Connect(ctx context.Context, chainID string) error
	// GetSigningClient returns nil with a nil error when the wallet has no signer to offer.
	GetSigningClient(ctx context.Context, chainID string) (SigningClient, error)
}

// SigningClient is the sign-and-broadcast primitive bound to a connected wallet.
// A returned error means no response was obtained from the chain.
type SigningClient interface {
	SignAndBroadcast(ctx context.Context, signer string, msgs []sdk.Msg, fee entity.Fee) (*entity.BroadcastResult, error)
}

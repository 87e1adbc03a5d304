package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"cca_wallet/internal/app/chaingate"
	"cca_wallet/internal/app/port"
	"cca_wallet/internal/domain/entity"
	"cca_wallet/internal/pkg/metrics"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultFeeAmount = "500"
	DefaultGasLimit  = uint64(200000)
)

// FeePolicy is the static fee attached to every transfer. The fee is paid in
// the denom of the transfer itself.
type FeePolicy struct {
	Amount   string
	GasLimit uint64
}

// DefaultFeePolicy returns the fixed 500 / 200000 fee.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{Amount: DefaultFeeAmount, GasLimit: DefaultGasLimit}
}

// Fee builds the fee for a transfer in denom.
func (p FeePolicy) Fee(denom string) entity.Fee {
	return entity.Fee{
		Amount: []entity.Coin{{Denom: denom, Amount: p.Amount}},
		Gas:    strconv.FormatUint(p.GasLimit, 10),
	}
}

// StateObserver is told about every state transition of a submission attempt.
type StateObserver func(attempt uint64, from, to entity.SubmissionState)

// TransactionService implements port.TransactionSubmitter.
type TransactionService struct {
	wallet   port.WalletConnector
	balances port.BalanceCache
	fees     FeePolicy
	logger   port.Logger
	observer StateObserver
	attempts atomic.Uint64
}

// TransactionOption configures a TransactionService.
type TransactionOption func(*TransactionService)

// WithFeePolicy overrides the default fee.
func WithFeePolicy(p FeePolicy) TransactionOption {
	return func(s *TransactionService) { s.fees = p }
}

// WithStateObserver registers obs for state transitions.
func WithStateObserver(obs StateObserver) TransactionOption {
	return func(s *TransactionService) { s.observer = obs }
}

// NewTransactionService creates a new instance of TransactionService.
func NewTransactionService(
	wallet port.WalletConnector,
	balances port.BalanceCache,
	l port.Logger,
	opts ...TransactionOption,
) *TransactionService {
	s := &TransactionService{
		wallet:   wallet,
		balances: balances,
		fees:     DefaultFeePolicy(),
		logger:   l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateIntent checks that from, to, amount and denom are all set.
func ValidateIntent(intent entity.TransferIntent) error {
	var missing []string
	if intent.FromAddress == "" {
		missing = append(missing, "fromAddress")
	}
	if intent.ToAddress == "" {
		missing = append(missing, "toAddress")
	}
	if intent.Amount == "" {
		missing = append(missing, "amount")
	}
	if intent.Denom == "" {
		missing = append(missing, "denom")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", entity.ErrIncompleteIntent, missing)
	}
	return nil
}

type attempt struct {
	id    uint64
	state entity.SubmissionState
	obs   StateObserver
}

func (a *attempt) move(to entity.SubmissionState) {
	from := a.state
	a.state = to
	if a.obs != nil {
		a.obs(a.id, from, to)
	}
}

// Submit drives one transfer from intent to outcome. The returned error is
// non-nil only when the intent is incomplete or targets an unauthorized chain,
// in which case nothing was started. Every other failure is reported as a
// failed outcome.
func (s *TransactionService) Submit(ctx context.Context, intent entity.TransferIntent) (entity.TransactionOutcome, error) {
	if err := ValidateIntent(intent); err != nil {
		return entity.TransactionOutcome{}, err
	}
	if !chaingate.Check(intent.ChainID).Authorized {
		metrics.GateRejections.WithLabelValues("submit").Inc()
		s.logger.Warn("Transfer refused for unauthorized chain", "chain_id", intent.ChainID)
		return entity.TransactionOutcome{}, fmt.Errorf("%w: %q", entity.ErrUnauthorizedChain, intent.ChainID)
	}

	a := &attempt{id: s.attempts.Add(1), state: entity.StateIdle, obs: s.observer}
	log := []any{"attempt", a.id, "chain_id", intent.ChainID, "from", intent.FromAddress, "to", intent.ToAddress}
	s.logger.Info("Submitting transfer", append(log, "amount", intent.Amount, "denom", intent.Denom)...)

	outcome := s.submit(ctx, a, intent)
	if outcome.Succeeded() {
		metrics.Submissions.WithLabelValues("succeeded").Inc()
		s.logger.Info("Transfer succeeded", append(log, "tx_hash", outcome.TransactionHash)...)
		s.refreshBalances(ctx, intent)
	} else {
		metrics.Submissions.WithLabelValues(entity.ReasonCode(outcome.Reason)).Inc()
		s.logger.Warn("Transfer failed", append(log, "reason", entity.ReasonCode(outcome.Reason), "error", outcome.Reason)...)
	}
	return outcome, nil
}

func (s *TransactionService) submit(ctx context.Context, a *attempt, intent entity.TransferIntent) entity.TransactionOutcome {
	fail := func(reason error) entity.TransactionOutcome {
		a.move(entity.StateFailed)
		return entity.NewFailedOutcome(reason)
	}

	a.move(entity.StateConnecting)
	if !s.wallet.IsConnected(intent.ChainID) {
		if err := s.wallet.Connect(ctx, intent.ChainID); err != nil {
			return fail(fmt.Errorf("%w: %w", entity.ErrConnection, err))
		}
	}
	signer, err := s.wallet.GetSigningClient(ctx, intent.ChainID)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", entity.ErrSigningUnavailable, err))
	}
	if signer == nil {
		return fail(entity.ErrSigningUnavailable)
	}

	a.move(entity.StateSigning)
	msg, err := buildSend(intent)
	if err != nil {
		return fail(err)
	}
	fee := s.fees.Fee(intent.Denom)

	a.move(entity.StateBroadcasting)
	res, err := signer.SignAndBroadcast(ctx, intent.FromAddress, []sdk.Msg{msg}, fee)
	if err != nil {
		var transport *entity.TransportError
		if !errors.As(err, &transport) {
			err = &entity.TransportError{Err: err}
		}
		return fail(err)
	}
	if res == nil {
		return fail(&entity.TransportError{Err: errors.New("empty broadcast response")})
	}
	if res.Code != 0 {
		return fail(&entity.ChainRejectedError{Code: res.Code, RawLog: res.RawLog})
	}

	a.move(entity.StateSucceeded)
	return entity.NewSucceededOutcome(res.TransactionHash, res.RawLog)
}

// buildSend constructs the bank transfer message. Addresses are passed through
// as given: the chain uses its own bech32 prefix and is the authority on them.
func buildSend(intent entity.TransferIntent) (*banktypes.MsgSend, error) {
	amount, ok := sdkmath.NewIntFromString(intent.Amount)
	if !ok {
		return nil, fmt.Errorf("%w: amount %q is not an integer", entity.ErrMalformedTransfer, intent.Amount)
	}
	coin := sdk.Coin{Denom: intent.Denom, Amount: amount}
	if err := coin.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMalformedTransfer, err)
	}
	return &banktypes.MsgSend{
		FromAddress: intent.FromAddress,
		ToAddress:   intent.ToAddress,
		Amount:      sdk.Coins{coin},
	}, nil
}

// refreshBalances invalidates and rereads both sides of a confirmed transfer.
// A failed reread is logged only; the invalidation already happened.
func (s *TransactionService) refreshBalances(ctx context.Context, intent entity.TransferIntent) {
	addresses := []string{intent.FromAddress}
	if intent.ToAddress != intent.FromAddress {
		addresses = append(addresses, intent.ToAddress)
	}
	for _, addr := range addresses {
		s.balances.Invalidate(addr)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, addr := range addresses {
		addr := addr
		g.Go(func() error {
			if _, err := s.balances.Refetch(gctx, addr, intent.ChainID); err != nil {
				s.logger.Warn("Failed to refetch balance after transfer", "address", addr, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

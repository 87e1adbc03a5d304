package service

import (
	"context"
	"sync"

	"cca_wallet/internal/app/port"
	"cca_wallet/internal/domain/entity"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const testEndpoint = "http://cca.test:1317"

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type fakeResolver struct {
	endpoints map[string]string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{endpoints: map[string]string{"cca": testEndpoint}}
}

func (r *fakeResolver) RESTEndpoint(_ context.Context, chainID string) (string, error) {
	if url, ok := r.endpoints[chainID]; ok {
		return url, nil
	}
	return "", entity.ErrUnknownChain
}

// fakeREST counts calls and can hold them until release is closed.
type fakeREST struct {
	mu           sync.Mutex
	accounts     []string
	accountsErr  error
	balances     map[string][]entity.Coin
	balanceErr   error
	accountCalls int
	balanceCalls map[string]int
	lastBaseURL  string

	release chan struct{}
	started chan string
}

func newFakeREST() *fakeREST {
	return &fakeREST{
		balances:     make(map[string][]entity.Coin),
		balanceCalls: make(map[string]int),
		started:      make(chan string, 64),
	}
}

func (f *fakeREST) hold() {
	f.release = make(chan struct{})
}

func (f *fakeREST) wait(ctx context.Context) error {
	if f.release == nil {
		return nil
	}
	select {
	case <-f.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeREST) ListAccounts(ctx context.Context, baseURL string) ([]string, error) {
	f.mu.Lock()
	f.accountCalls++
	f.lastBaseURL = baseURL
	f.mu.Unlock()
	f.started <- "accounts"

	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accountsErr != nil {
		return nil, f.accountsErr
	}
	return append([]string(nil), f.accounts...), nil
}

func (f *fakeREST) GetBalances(ctx context.Context, baseURL string, address string) ([]entity.Coin, error) {
	f.mu.Lock()
	f.balanceCalls[address]++
	f.lastBaseURL = baseURL
	f.mu.Unlock()
	f.started <- address

	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return append([]entity.Coin(nil), f.balances[address]...), nil
}

func (f *fakeREST) setBalance(address string, coins ...entity.Coin) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[address] = coins
}

func (f *fakeREST) setBalanceErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceErr = err
}

func (f *fakeREST) setAccountsErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountsErr = err
}

func (f *fakeREST) accountCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accountCalls
}

func (f *fakeREST) balanceCallCount(address string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balanceCalls[address]
}

type fakeWallet struct {
	connected    bool
	connectErr   error
	connectCalls int
	signer       port.SigningClient
	signerErr    error
}

func (w *fakeWallet) IsConnected(string) bool { return w.connected }

func (w *fakeWallet) Connect(_ context.Context, _ string) error {
	w.connectCalls++
	if w.connectErr != nil {
		return w.connectErr
	}
	w.connected = true
	return nil
}

func (w *fakeWallet) GetSigningClient(context.Context, string) (port.SigningClient, error) {
	return w.signer, w.signerErr
}

type fakeSigner struct {
	res   *entity.BroadcastResult
	err   error
	calls int

	gotSigner string
	gotMsgs   []sdk.Msg
	gotFee    entity.Fee
}

func (s *fakeSigner) SignAndBroadcast(_ context.Context, signer string, msgs []sdk.Msg, fee entity.Fee) (*entity.BroadcastResult, error) {
	s.calls++
	s.gotSigner = signer
	s.gotMsgs = msgs
	s.gotFee = fee
	return s.res, s.err
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cca_wallet/internal/app/querycache"
	"cca_wallet/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stake(amount string) entity.Coin {
	return entity.Coin{Denom: "stake", Amount: amount}
}

func TestBalance_EmptyAddressIsRejected(t *testing.T) {
	rest := newFakeREST()
	svc := NewBalanceService(newFakeResolver(), rest, nopLogger{})

	_, err := svc.GetBalance(context.Background(), "", "cca")
	assert.ErrorIs(t, err, entity.ErrAddressRequired)

	// the address check runs before the chain gate
	_, err = svc.GetBalance(context.Background(), "", "other")
	assert.ErrorIs(t, err, entity.ErrAddressRequired)

	_, err = svc.Refetch(context.Background(), "", "cca")
	assert.ErrorIs(t, err, entity.ErrAddressRequired)
	assert.Equal(t, 0, rest.balanceCallCount(""))
}

func TestBalance_UnauthorizedChainSkipsNetwork(t *testing.T) {
	rest := newFakeREST()
	svc := NewBalanceService(newFakeResolver(), rest, nopLogger{})

	entry, err := svc.GetBalance(context.Background(), "wfdc1aaa", "osmosis-1")
	require.NoError(t, err)
	assert.True(t, entry.InvalidChain)
	assert.Empty(t, entry.Balances)
	assert.Equal(t, 0, rest.balanceCallCount("wfdc1aaa"))
}

func TestBalance_ReadIsCachedPerAddress(t *testing.T) {
	rest := newFakeREST()
	rest.setBalance("wfdc1aaa", stake("1000"))
	svc := NewBalanceService(newFakeResolver(), rest, nopLogger{})

	entry, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
	require.NoError(t, err)
	assert.Equal(t, entity.BalanceEntry{
		Address:  "wfdc1aaa",
		ChainID:  "cca",
		Balances: []entity.Coin{stake("1000")},
	}, entry)

	rest.setBalance("wfdc1aaa", stake("1"))
	cached, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
	require.NoError(t, err)
	assert.Equal(t, entry, cached)
	assert.Equal(t, 1, rest.balanceCallCount("wfdc1aaa"))
}

func TestBalance_NoBalancesIsAnEmptyList(t *testing.T) {
	rest := newFakeREST()
	svc := NewBalanceService(newFakeResolver(), rest, nopLogger{})

	entry, err := svc.GetBalance(context.Background(), "wfdc1new", "cca")
	require.NoError(t, err)
	assert.NotNil(t, entry.Balances)
	assert.Empty(t, entry.Balances)
}

func TestBalance_ConcurrentReadsShareOneFetch(t *testing.T) {
	rest := newFakeREST()
	rest.setBalance("wfdc1aaa", stake("1000"))
	rest.hold()
	svc := NewBalanceService(newFakeResolver(), rest, nopLogger{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
			assert.NoError(t, err)
			assert.Equal(t, []entity.Coin{stake("1000")}, entry.Balances)
		}()
	}

	<-rest.started
	close(rest.release)
	wg.Wait()
	assert.Equal(t, 1, rest.balanceCallCount("wfdc1aaa"))
}

func TestBalance_FailedRefetchKeepsPriorEntry(t *testing.T) {
	rest := newFakeREST()
	rest.setBalance("wfdc1aaa", stake("1000"))
	svc := NewBalanceService(newFakeResolver(), rest, nopLogger{})

	_, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
	require.NoError(t, err)

	rest.setBalanceErr(errors.New("connection reset"))
	_, err = svc.Refetch(context.Background(), "wfdc1aaa", "cca")
	var fetchErr *entity.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "account balances", fetchErr.Resource)

	entry, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
	require.NoError(t, err)
	assert.Equal(t, []entity.Coin{stake("1000")}, entry.Balances)
	assert.Equal(t, 2, rest.balanceCallCount("wfdc1aaa"))
}

func TestBalance_RefetchReplacesEntry(t *testing.T) {
	rest := newFakeREST()
	rest.setBalance("wfdc1aaa", stake("1000"))
	svc := NewBalanceService(newFakeResolver(), rest, nopLogger{})

	_, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
	require.NoError(t, err)

	rest.setBalance("wfdc1aaa", stake("900"), entity.Coin{Denom: "ucca", Amount: "7"})
	entry, err := svc.Refetch(context.Background(), "wfdc1aaa", "cca")
	require.NoError(t, err)
	assert.Equal(t, []entity.Coin{stake("900"), {Denom: "ucca", Amount: "7"}}, entry.Balances)

	cached, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
	require.NoError(t, err)
	assert.Equal(t, entry, cached)
}

func TestBalance_InvalidateDuringFetchDiscardsLateResult(t *testing.T) {
	rest := newFakeREST()
	rest.setBalance("wfdc1aaa", stake("1000"))
	rest.hold()
	svc := NewBalanceService(newFakeResolver(), rest, nopLogger{})

	done := make(chan entity.BalanceEntry)
	go func() {
		entry, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
		assert.NoError(t, err)
		done <- entry
	}()

	<-rest.started
	svc.Invalidate("wfdc1aaa")
	close(rest.release)
	<-done

	rest.setBalance("wfdc1aaa", stake("900"))
	entry, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
	require.NoError(t, err)
	assert.Equal(t, []entity.Coin{stake("900")}, entry.Balances)
	assert.Equal(t, 2, rest.balanceCallCount("wfdc1aaa"))
}

func TestBalance_RefreshWaitsForPendingRead(t *testing.T) {
	rest := newFakeREST()
	rest.setBalance("wfdc1aaa", stake("1000"))
	rest.hold()
	svc := NewBalanceService(newFakeResolver(), rest, nopLogger{})

	pending := make(chan struct{})
	go func() {
		defer close(pending)
		_, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
		assert.NoError(t, err)
	}()
	<-rest.started

	refreshed := make(chan entity.BalanceEntry, 1)
	go func() {
		svc.Invalidate("wfdc1aaa")
		entry, err := svc.Refetch(context.Background(), "wfdc1aaa", "cca")
		assert.NoError(t, err)
		refreshed <- entry
	}()

	select {
	case <-rest.started:
		t.Fatal("refresh issued a second balance read while the first was pending")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 1, rest.balanceCallCount("wfdc1aaa"))

	rest.setBalance("wfdc1aaa", stake("400"))
	close(rest.release)
	<-pending

	entry := <-refreshed
	assert.Equal(t, []entity.Coin{stake("400")}, entry.Balances)
	assert.Equal(t, 2, rest.balanceCallCount("wfdc1aaa"))
}

func TestBalance_CancelAllAbortsWithoutWriting(t *testing.T) {
	rest := newFakeREST()
	rest.setBalance("wfdc1aaa", stake("1000"))
	rest.hold()
	svc := NewBalanceService(newFakeResolver(), rest, nopLogger{})

	errs := make(chan error)
	go func() {
		_, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
		errs <- err
	}()

	<-rest.started
	svc.CancelAll()
	err := <-errs
	require.Error(t, err)
	assert.True(t, querycache.IsCancelled(err))

	close(rest.release)
	entry, err := svc.GetBalance(context.Background(), "wfdc1aaa", "cca")
	require.NoError(t, err)
	assert.Equal(t, []entity.Coin{stake("1000")}, entry.Balances)
	assert.Equal(t, 2, rest.balanceCallCount("wfdc1aaa"))
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cca_wallet/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressDirectory_FetchesOnceAndDropsEmptyEntries(t *testing.T) {
	rest := newFakeREST()
	rest.accounts = []string{"wfdc1aaa", "", "wfdc1bbb"}
	svc := NewAddressDirectoryService(newFakeResolver(), rest, nopLogger{})

	entry, err := svc.GetAddresses(context.Background(), "cca")
	require.NoError(t, err)
	assert.Equal(t, "cca", entry.ChainID)
	assert.False(t, entry.InvalidChain)
	assert.Equal(t, []string{"wfdc1aaa", "wfdc1bbb"}, entry.Addresses)
	assert.Equal(t, testEndpoint, rest.lastBaseURL)

	again, err := svc.GetAddresses(context.Background(), "cca")
	require.NoError(t, err)
	assert.Equal(t, entry, again)
	assert.Equal(t, 1, rest.accountCallCount())
}

func TestAddressDirectory_UnauthorizedChainSkipsNetwork(t *testing.T) {
	rest := newFakeREST()
	svc := NewAddressDirectoryService(newFakeResolver(), rest, nopLogger{})

	for _, chainID := range []string{"", "cosmoshub-4", "CCA"} {
		entry, err := svc.GetAddresses(context.Background(), chainID)
		require.NoError(t, err)
		assert.True(t, entry.InvalidChain, chainID)
		assert.Empty(t, entry.Addresses)
	}
	assert.Equal(t, 0, rest.accountCallCount())
}

func TestAddressDirectory_ConcurrentReadsShareOneFetch(t *testing.T) {
	rest := newFakeREST()
	rest.accounts = []string{"wfdc1aaa"}
	rest.hold()
	svc := NewAddressDirectoryService(newFakeResolver(), rest, nopLogger{})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]entity.AddressDirectoryEntry, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := svc.GetAddresses(context.Background(), "cca")
			assert.NoError(t, err)
			results[i] = entry
		}(i)
	}

	<-rest.started
	close(rest.release)
	wg.Wait()

	assert.Equal(t, 1, rest.accountCallCount())
	for _, r := range results {
		assert.Equal(t, []string{"wfdc1aaa"}, r.Addresses)
	}
}

func TestAddressDirectory_FetchErrorIsNotCached(t *testing.T) {
	rest := newFakeREST()
	rest.accounts = []string{"wfdc1aaa"}
	rest.setAccountsErr(errors.New("status 503"))
	svc := NewAddressDirectoryService(newFakeResolver(), rest, nopLogger{})

	_, err := svc.GetAddresses(context.Background(), "cca")
	var fetchErr *entity.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "account addresses", fetchErr.Resource)

	rest.setAccountsErr(nil)
	entry, err := svc.GetAddresses(context.Background(), "cca")
	require.NoError(t, err)
	assert.Equal(t, []string{"wfdc1aaa"}, entry.Addresses)
	assert.Equal(t, 2, rest.accountCallCount())
}

func TestAddressDirectory_UnresolvableEndpoint(t *testing.T) {
	rest := newFakeREST()
	resolver := &fakeResolver{endpoints: map[string]string{}}
	svc := NewAddressDirectoryService(resolver, rest, nopLogger{})

	_, err := svc.GetAddresses(context.Background(), "cca")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrUnknownChain)
	assert.Equal(t, 0, rest.accountCallCount())
}

func TestAddressDirectory_InvalidateForcesNewRead(t *testing.T) {
	rest := newFakeREST()
	rest.accounts = []string{"wfdc1aaa"}
	svc := NewAddressDirectoryService(newFakeResolver(), rest, nopLogger{})

	_, err := svc.GetAddresses(context.Background(), "cca")
	require.NoError(t, err)

	rest.mu.Lock()
	rest.accounts = []string{"wfdc1aaa", "wfdc1ccc"}
	rest.mu.Unlock()
	svc.Invalidate("cca")

	entry, err := svc.GetAddresses(context.Background(), "cca")
	require.NoError(t, err)
	assert.Equal(t, []string{"wfdc1aaa", "wfdc1ccc"}, entry.Addresses)
	assert.Equal(t, 2, rest.accountCallCount())
}

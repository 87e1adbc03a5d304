// Package querycache is a keyed store of immutable query results with
// explicit invalidation and at most one outstanding fetch per key.
//
// Entries never expire. Every key carries a generation that Invalidate,
// Refetch and Cancel advance; a fetch result is written only if the
// generation it started under is still current, so a late response can never
// overwrite a newer state. Failed fetches are never written. A fetch started
// after an invalidation waits for the superseded one to finish, so a key never
// has more than one read outstanding.
package querycache

import (
	"context"
	"errors"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a key.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Result tells the caller how a Get was served.
type Result int

const (
	Miss   Result = iota // this call started the fetch
	Hit                  // served from the store
	Shared               // joined a fetch already in flight
)

func (r Result) String() string {
	switch r {
	case Hit:
		return "hit"
	case Shared:
		return "shared"
	default:
		return "miss"
	}
}

type inflight struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	prev   *inflight // superseded fetch still running for the same key
}

// Store holds values of type V keyed by string.
type Store[V any] struct {
	entries *gocache.Cache
	group   singleflight.Group

	mu       sync.Mutex
	gens     map[string]uint64
	inflight map[string]*inflight
}

// New creates an empty store.
func New[V any]() *Store[V] {
	return &Store[V]{
		// No default expiration and no janitor: entries live until invalidated.
		entries:  gocache.New(gocache.NoExpiration, 0),
		gens:     make(map[string]uint64),
		inflight: make(map[string]*inflight),
	}
}

// Peek returns the cached value without fetching.
func (s *Store[V]) Peek(key string) (V, bool) {
	if v, ok := s.entries.Get(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// Get returns the cached value for key or runs fetch to populate it.
// Concurrent callers for the same key share one fetch. The fetch runs on a
// context owned by the store, so a caller giving up does not abort it for the
// others; Cancel and CancelAll abort it explicitly.
func (s *Store[V]) Get(ctx context.Context, key string, fetch FetchFunc[V]) (V, Result, error) {
	if v, ok := s.Peek(key); ok {
		return v, Hit, nil
	}
	return s.wait(ctx, key, fetch, false)
}

// Refetch reads key again even if an entry exists. The current entry stays
// visible until the new value replaces it, and stays in place if the read
// fails. A fetch already started under the current generation is joined
// rather than duplicated.
func (s *Store[V]) Refetch(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	s.mu.Lock()
	f, ok := s.inflight[key]
	joinable := ok && f.gen == s.gens[key]
	if !joinable {
		s.gens[key]++
	}
	s.mu.Unlock()

	if !joinable {
		s.group.Forget(key)
	}
	v, _, err := s.wait(ctx, key, fetch, true)
	return v, err
}

func (s *Store[V]) wait(ctx context.Context, key string, fetch FetchFunc[V], force bool) (V, Result, error) {
	started := false
	ch := s.group.DoChan(key, func() (interface{}, error) {
		started = true
		return s.run(key, fetch, force)
	})

	select {
	case res := <-ch:
		how := Shared
		if started {
			how = Miss
		}
		if res.Err != nil {
			var zero V
			return zero, how, res.Err
		}
		return res.Val.(V), how, nil
	case <-ctx.Done():
		var zero V
		return zero, Miss, ctx.Err()
	}
}

func (s *Store[V]) run(key string, fetch FetchFunc[V], force bool) (V, error) {
	// a fetch for key may have completed between the caller's Peek and here
	if !force {
		if v, ok := s.Peek(key); ok {
			return v, nil
		}
	}

	fetchCtx, cancel := context.WithCancel(context.Background())
	f := &inflight{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	f.gen = s.gens[key]
	f.prev = s.inflight[key]
	s.inflight[key] = f
	prev := f.prev
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.inflight[key] == f {
			delete(s.inflight, key)
		}
		s.mu.Unlock()
		cancel()
		close(f.done)
	}()

	if prev != nil {
		<-prev.done
		s.mu.Lock()
		f.prev = nil
		s.mu.Unlock()
	}
	if err := fetchCtx.Err(); err != nil {
		var zero V
		return zero, err
	}

	v, err := fetch(fetchCtx)
	if err != nil {
		return v, err
	}
	if err := fetchCtx.Err(); err != nil {
		// cancelled while fetching: hand nothing back and write nothing
		var zero V
		return zero, err
	}

	s.mu.Lock()
	if s.gens[key] == f.gen {
		s.entries.Set(key, v, gocache.NoExpiration)
	}
	s.mu.Unlock()
	return v, nil
}

// Invalidate drops the entry for key. A fetch already in flight for key
// still resolves for its waiters but its result is not stored. The next Get
// starts a fresh fetch once that one has finished.
func (s *Store[V]) Invalidate(key string) {
	s.mu.Lock()
	s.gens[key]++
	s.entries.Delete(key)
	s.mu.Unlock()
	s.group.Forget(key)
}

// Cancel aborts the fetch in flight for key, along with any superseded fetch
// it is waiting on. Its waiters receive context.Canceled and nothing is
// written.
func (s *Store[V]) Cancel(key string) {
	var cancels []context.CancelFunc
	s.mu.Lock()
	f, ok := s.inflight[key]
	if ok {
		s.gens[key]++
		for p := f; p != nil; p = p.prev {
			cancels = append(cancels, p.cancel)
		}
	}
	s.mu.Unlock()
	for _, c := range cancels {
		c()
	}
	if ok {
		s.group.Forget(key)
	}
}

// CancelAll aborts every fetch in flight. Cached entries are kept.
func (s *Store[V]) CancelAll() {
	s.mu.Lock()
	keys := make([]string, 0, len(s.inflight))
	for k := range s.inflight {
		keys = append(keys, k)
	}
	s.mu.Unlock()
	for _, k := range keys {
		s.Cancel(k)
	}
}

// Len returns the number of cached entries.
func (s *Store[V]) Len() int {
	return s.entries.ItemCount()
}

// IsCancelled reports whether err came from Cancel, CancelAll or a caller context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

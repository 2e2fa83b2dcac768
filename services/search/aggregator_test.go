package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"cartscout/models"
	"cartscout/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubProvider implements providers.Client; only Search matters here.
type stubProvider struct {
	desc  providers.Descriptor
	delay time.Duration
	items []models.Product
	err   error

	mu    sync.Mutex
	calls int
}

func (s *stubProvider) Descriptor() providers.Descriptor { return s.desc }

func (s *stubProvider) Search(ctx context.Context, query string) (*providers.SearchResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, providers.NewError(providers.KindTransport, "provider timed out")
	}
	if s.err != nil {
		return nil, s.err
	}
	return &providers.SearchResult{Items: s.items}, nil
}

func (s *stubProvider) searchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubProvider) ViewDetails(context.Context, string) (*providers.DetailsResult, error) {
	return &providers.DetailsResult{}, nil
}
func (s *stubProvider) AddToCart(context.Context, providers.CartRequest) (*providers.CartResult, error) {
	return &providers.CartResult{}, nil
}
func (s *stubProvider) Login(context.Context, string, string) (*providers.LoginResult, error) {
	return &providers.LoginResult{}, nil
}
func (s *stubProvider) VerifyOtp(context.Context, string, string) (*providers.OtpResult, error) {
	return &providers.OtpResult{}, nil
}
func (s *stubProvider) SaveOrSelectAddress(context.Context, string, providers.AddressRequest) (*providers.AddressResult, error) {
	return &providers.AddressResult{}, nil
}
func (s *stubProvider) Pay(context.Context, string, string) (*providers.PayResult, error) {
	return &providers.PayResult{}, nil
}

// memoryCache is an in-memory ResultCache for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]models.ProviderResult
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]models.ProviderResult)}
}

func (c *memoryCache) Get(_ context.Context, providerID, query string) (*models.ProviderResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[providerID+":"+query]
	if !ok {
		return nil, false
	}
	return &res, true
}

func (c *memoryCache) Set(_ context.Context, providerID, query string, res models.ProviderResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[providerID+":"+query] = res
}

func product(id string) models.Product { return models.Product{ID: id} }

func newCoordinator(timeout time.Duration, provs ...providers.Client) *DefaultCoordinator {
	return NewDefaultCoordinator(provs, nil, nil, timeout, zap.NewNop())
}

func TestExactlyOnePatchPerProvider(t *testing.T) {
	a := &stubProvider{desc: providers.Descriptor{ID: "a"}, delay: 5 * time.Millisecond, items: []models.Product{product("a1")}}
	b := &stubProvider{desc: providers.Descriptor{ID: "b"}, delay: 10 * time.Millisecond, err: providers.NewError(providers.KindTransport, "boom")}
	c := &stubProvider{desc: providers.Descriptor{ID: "c"}, delay: time.Millisecond}
	coord := newCoordinator(time.Second, a, b, c)

	_, patches := coord.StartSearch(context.Background(), "client-1", "anything")

	seen := map[string]int{}
	for patch := range patches {
		seen[patch.ProviderID]++
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, seen)
}

func TestFastProviderNotBlockedBySlow(t *testing.T) {
	fast := &stubProvider{desc: providers.Descriptor{ID: "fast"}, delay: 5 * time.Millisecond, items: []models.Product{product("f1"), product("f2"), product("f3")}}
	slow := &stubProvider{desc: providers.Descriptor{ID: "slow"}, delay: 300 * time.Millisecond}
	coord := newCoordinator(time.Second, fast, slow)

	_, patches := coord.StartSearch(context.Background(), "client-1", "red t-shirt")

	first := <-patches
	assert.Equal(t, "fast", first.ProviderID)
	assert.Len(t, first.Items, 3)
	assert.Empty(t, first.Error)

	second := <-patches
	assert.Equal(t, "slow", second.ProviderID)
	assert.Empty(t, second.Items)
	assert.Empty(t, second.Error)

	_, open := <-patches
	assert.False(t, open)
}

func TestProviderErrorIsolated(t *testing.T) {
	ok := &stubProvider{desc: providers.Descriptor{ID: "ok"}, items: []models.Product{product("x")}}
	bad := &stubProvider{desc: providers.Descriptor{ID: "bad"}, err: providers.NewError(providers.KindTransport, "connection refused")}
	coord := newCoordinator(time.Second, ok, bad)

	_, patches := coord.StartSearch(context.Background(), "client-1", "anything")
	results := Collect(patches)

	require.Len(t, results, 2)
	assert.Empty(t, results["ok"].Error)
	assert.Len(t, results["ok"].Items, 1)
	assert.Equal(t, "connection refused", results["bad"].Error)
	assert.Empty(t, results["bad"].Items)
}

func TestProviderTimeoutYieldsErrorPatch(t *testing.T) {
	hang := &stubProvider{desc: providers.Descriptor{ID: "hang"}, delay: time.Second}
	coord := newCoordinator(20*time.Millisecond, hang)

	_, patches := coord.StartSearch(context.Background(), "client-1", "anything")
	results := Collect(patches)

	require.Len(t, results, 1)
	assert.NotEmpty(t, results["hang"].Error)
}

func TestNewRoundSupersedesOld(t *testing.T) {
	slow := &stubProvider{desc: providers.Descriptor{ID: "slow"}, delay: 200 * time.Millisecond}
	coord := newCoordinator(time.Second, slow)

	round1, patches1 := coord.StartSearch(context.Background(), "client-1", "first query")
	round2, patches2 := coord.StartSearch(context.Background(), "client-1", "second query")

	assert.False(t, coord.IsCurrent("client-1", round1))
	assert.True(t, coord.IsCurrent("client-1", round2))

	// The superseded round still settles exactly one patch per provider.
	count := 0
	for range patches1 {
		count++
	}
	assert.Equal(t, 1, count)
	for range patches2 {
	}
}

func TestRoundsAreIndependentPerClient(t *testing.T) {
	p := &stubProvider{desc: providers.Descriptor{ID: "p"}}
	coord := newCoordinator(time.Second, p)

	r1, patches1 := coord.StartSearch(context.Background(), "client-1", "q")
	r2, patches2 := coord.StartSearch(context.Background(), "client-2", "q")

	assert.True(t, coord.IsCurrent("client-1", r1))
	assert.True(t, coord.IsCurrent("client-2", r2))

	for range patches1 {
	}
	for range patches2 {
	}
}

func TestCacheServesRepeatedQuery(t *testing.T) {
	p := &stubProvider{desc: providers.Descriptor{ID: "p"}, items: []models.Product{product("x")}}
	coord := NewDefaultCoordinator([]providers.Client{p}, nil, newMemoryCache(), time.Second, zap.NewNop())

	_, patches := coord.StartSearch(context.Background(), "client-1", "red shirt")
	for range patches {
	}
	require.Equal(t, 1, p.searchCalls())

	_, patches = coord.StartSearch(context.Background(), "client-1", "red shirt")
	var cached models.ProviderPatch
	for patch := range patches {
		cached = patch
	}
	assert.True(t, cached.Cached)
	assert.Len(t, cached.Items, 1)
	assert.Equal(t, 1, p.searchCalls())
}

package search

import (
	"context"
	"sync"
	"time"

	"cartscout/models"
	"cartscout/providers"
	"cartscout/services/intent"

	"go.uber.org/zap"
)

// Coordinator fans one query out to every registered provider and streams
// back one patch per provider as each call settles.
type Coordinator interface {
	// StartSearch begins a fresh round for the client, superseding any round
	// still in flight for them. The channel closes once every provider has
	// settled.
	StartSearch(ctx context.Context, clientID, query string) (string, <-chan models.ProviderPatch)
	// IsCurrent reports whether roundID is still the client's latest round.
	IsCurrent(clientID, roundID string) bool
}

// ResultCache caches one provider's settled result per normalized query.
type ResultCache interface {
	Get(ctx context.Context, providerID, query string) (*models.ProviderResult, bool)
	Set(ctx context.Context, providerID, query string, res models.ProviderResult)
}

// DefaultCoordinator implements Coordinator over a provider catalog.
type DefaultCoordinator struct {
	Providers []providers.Client
	IntentSvc intent.Service
	Cache     ResultCache
	Timeout   time.Duration
	Logger    *zap.Logger

	mu     sync.Mutex
	rounds map[string]*roundState
}

type roundState struct {
	id     string
	cancel context.CancelFunc
}

func NewDefaultCoordinator(provs []providers.Client, intentSvc intent.Service, cache ResultCache, timeout time.Duration, logger *zap.Logger) *DefaultCoordinator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DefaultCoordinator{
		Providers: provs,
		IntentSvc: intentSvc,
		Cache:     cache,
		Timeout:   timeout,
		Logger:    logger,
		rounds:    make(map[string]*roundState),
	}
}

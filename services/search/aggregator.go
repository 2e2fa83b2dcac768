package search

import (
	"context"
	"sync"
	"time"

	"cartscout/models"
	"cartscout/providers"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartSearch fans the query out to all providers. Each provider call runs in
// its own goroutine under its own deadline; one provider failing or hanging
// never blocks the others' patches. Starting a new round cancels the
// client's previous round and supersedes its ID, so late patches from the
// old round are identifiable and dropped.
func (s *DefaultCoordinator) StartSearch(ctx context.Context, clientID, query string) (string, <-chan models.ProviderPatch) {
	roundID := uuid.New().String()

	rctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if prev, ok := s.rounds[clientID]; ok {
		prev.cancel()
	}
	s.rounds[clientID] = &roundState{id: roundID, cancel: cancel}
	s.mu.Unlock()

	keywords := query
	if s.IntentSvc != nil {
		resolved := s.IntentSvc.Resolve(rctx, query)
		if resolved.Keywords != "" {
			keywords = resolved.Keywords
		}
	}

	patches := make(chan models.ProviderPatch, len(s.Providers))
	var wg sync.WaitGroup
	for _, p := range s.Providers {
		wg.Add(1)
		go func(p providers.Client) {
			defer wg.Done()
			patches <- s.searchOne(rctx, roundID, p, keywords)
		}(p)
	}
	go func() {
		wg.Wait()
		close(patches)
	}()

	if s.Logger != nil {
		s.Logger.Info("search round started",
			zap.String("clientId", clientID),
			zap.String("roundId", roundID),
			zap.String("keywords", keywords),
			zap.Int("providers", len(s.Providers)))
	}
	return roundID, patches
}

// IsCurrent reports whether roundID is still the latest round for clientID.
func (s *DefaultCoordinator) IsCurrent(clientID, roundID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.rounds[clientID]
	return ok && st.id == roundID
}

// searchOne settles exactly one patch for one provider: served from cache,
// from the live call, or as an error patch on failure or timeout.
func (s *DefaultCoordinator) searchOne(ctx context.Context, roundID string, p providers.Client, query string) models.ProviderPatch {
	desc := p.Descriptor()
	start := time.Now()
	patch := models.ProviderPatch{
		RoundID:    roundID,
		ProviderID: desc.ID,
		Label:      desc.Label,
		Items:      []models.Product{},
	}

	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, desc.ID, query); ok {
			patch.Items = cached.Items
			patch.Error = cached.Error
			patch.Cached = true
			patch.ElapsedMS = time.Since(start).Milliseconds()
			return patch
		}
	}

	cctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	res, err := p.Search(cctx, query)
	patch.ElapsedMS = time.Since(start).Milliseconds()
	if err != nil {
		patch.Error = providers.MessageOf(err)
		if s.Logger != nil {
			s.Logger.Warn("provider search failed",
				zap.String("provider", desc.ID),
				zap.String("roundId", roundID),
				zap.Error(err))
		}
		return patch
	}

	patch.Items = res.Items
	if s.Cache != nil {
		s.Cache.Set(ctx, desc.ID, query, models.ProviderResult{
			ProviderID: desc.ID,
			Label:      desc.Label,
			Items:      res.Items,
		})
	}
	return patch
}

// Collect drains a patch stream into a result set keyed by provider ID. Used
// by the non-streaming search endpoint and by tests.
func Collect(patches <-chan models.ProviderPatch) map[string]models.ProviderResult {
	out := make(map[string]models.ProviderResult)
	for patch := range patches {
		out[patch.ProviderID] = models.ProviderResult{
			ProviderID: patch.ProviderID,
			Label:      patch.Label,
			Items:      patch.Items,
			Error:      patch.Error,
		}
	}
	return out
}

package checkout

import (
	"context"
	"sync"
	"time"

	"cartscout/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StepToken proves the holder acquired the session's single-flight lock. It
// captures the session generation at acquisition time; a mutation attempted
// with an older generation is rejected as stale.
type StepToken struct {
	generation uint64
}

type sessionEntry struct {
	session    *models.CheckoutSession
	inFlight   bool
	generation uint64
}

// SnapshotStore mirrors session state to an external cache so bookkeeping
// survives a reconnect; the in-memory registry stays authoritative.
type SnapshotStore interface {
	Save(ctx context.Context, sess models.CheckoutSession)
	Delete(ctx context.Context, handle string)
}

// Registry is the process-wide map of live checkout sessions. It enforces
// the single-flight invariant and the generation check that drops settles
// against sessions that have since moved on.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]*sessionEntry
	snapshots SnapshotStore
	logger    *zap.Logger
}

func NewRegistry(snapshots SnapshotStore, logger *zap.Logger) *Registry {
	return &Registry{
		entries:   make(map[string]*sessionEntry),
		snapshots: snapshots,
		logger:    logger,
	}
}

// Create registers a new session for one selected product.
func (r *Registry) Create(clientID, providerID string, product models.Product) models.CheckoutSession {
	now := time.Now()
	sess := &models.CheckoutSession{
		Handle:      uuid.New().String(),
		ClientID:    clientID,
		ProviderID:  providerID,
		Product:     product,
		CurrentStep: models.StepSelectProduct,
		AddressMode: models.AddressModeNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.mu.Lock()
	r.entries[sess.Handle] = &sessionEntry{session: sess}
	r.mu.Unlock()

	r.saveSnapshot(*sess)
	return *sess
}

// Get returns a copy of the session.
func (r *Registry) Get(handle string) (models.CheckoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[handle]
	if !ok {
		return models.CheckoutSession{}, ErrSessionNotFound
	}
	return *e.session, nil
}

// TryBeginStep acquires the session's single-flight lock. A busy session
// rejects the caller rather than queueing it.
func (r *Registry) TryBeginStep(handle string) (StepToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[handle]
	if !ok {
		return StepToken{}, ErrSessionNotFound
	}
	if e.inFlight {
		return StepToken{}, ErrStepInFlight
	}
	e.inFlight = true
	return StepToken{generation: e.generation}, nil
}

// EndStep releases the single-flight lock. Safe to call after Close.
func (r *Registry) EndStep(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[handle]; ok {
		e.inFlight = false
	}
}

// Mutate applies fn to the session under the registry lock, but only if the
// session still exists and its generation matches the token. A stale token
// means the user navigated back or the session was torn down while the call
// was in flight; the settle is dropped.
func (r *Registry) Mutate(handle string, token StepToken, fn func(*models.CheckoutSession)) error {
	r.mu.Lock()
	e, ok := r.entries[handle]
	if !ok {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	if e.generation != token.generation {
		r.mu.Unlock()
		return ErrStaleStep
	}
	fn(e.session)
	e.session.UpdatedAt = time.Now()
	snapshot := *e.session
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
	return nil
}

// Apply runs a user-initiated mutation (back, restart) and bumps the
// generation so any call still resolving for the previous state is dropped
// on arrival.
func (r *Registry) Apply(handle string, fn func(*models.CheckoutSession)) (models.CheckoutSession, error) {
	r.mu.Lock()
	e, ok := r.entries[handle]
	if !ok {
		r.mu.Unlock()
		return models.CheckoutSession{}, ErrSessionNotFound
	}
	e.generation++
	fn(e.session)
	e.session.UpdatedAt = time.Now()
	snapshot := *e.session
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
	return snapshot, nil
}

// Close tears the session down. Further lookups fail with ErrSessionNotFound
// and any in-flight settle is dropped.
func (r *Registry) Close(handle string) {
	r.mu.Lock()
	_, ok := r.entries[handle]
	delete(r.entries, handle)
	r.mu.Unlock()

	if ok && r.snapshots != nil {
		r.snapshots.Delete(context.Background(), handle)
	}
}

// Sweep removes sessions idle longer than maxAge and returns how many were
// dropped. Run periodically by the background worker.
func (r *Registry) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	var expired []string
	for handle, e := range r.entries {
		if e.session.UpdatedAt.Before(cutoff) && !e.inFlight {
			expired = append(expired, handle)
		}
	}
	for _, handle := range expired {
		delete(r.entries, handle)
	}
	r.mu.Unlock()

	for _, handle := range expired {
		if r.snapshots != nil {
			r.snapshots.Delete(context.Background(), handle)
		}
	}
	if len(expired) > 0 && r.logger != nil {
		r.logger.Info("swept expired checkout sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) saveSnapshot(sess models.CheckoutSession) {
	if r.snapshots != nil {
		r.snapshots.Save(context.Background(), sess)
	}
}

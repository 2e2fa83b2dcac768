package checkout

import (
	"context"
	"time"

	"cartscout/models"
	"cartscout/providers"

	"go.uber.org/zap"
)

// CheckoutService drives one provider's checkout flow per session: a
// resumable, cancelable sequence of steps, each backed by one provider call.
type CheckoutService interface {
	// Select creates and registers a session for the chosen product.
	Select(ctx context.Context, clientID, providerID string, product models.Product) (models.CheckoutSession, *models.StepResult, error)
	// Submit runs the current step with the user's input. Returns
	// ErrStepInFlight while a prior call for the session is outstanding and
	// ErrSessionNotFound once the session is closed.
	Submit(ctx context.Context, handle string, step models.Step, input map[string]string) (*models.StepResult, error)
	// Back returns to the previous step without clearing collected data.
	Back(handle string) (*models.StepResult, error)
	// Cancel abandons the session.
	Cancel(handle string) (*models.StepResult, error)
	// Get returns the current session view.
	Get(handle string) (models.CheckoutSession, error)
}

// AbandonNudger schedules a follow-up for sessions left mid-checkout.
type AbandonNudger interface {
	EnqueueAbandonNudge(handle, providerID string, fireAt time.Time)
}

// DefaultCheckoutService implements CheckoutService over the session
// registry and the provider catalog.
type DefaultCheckoutService struct {
	Registry    *Registry
	Catalog     providers.Catalog
	StepTimeout time.Duration
	Logger      *zap.Logger
	Nudger      AbandonNudger
}

func NewDefaultCheckoutService(registry *Registry, catalog providers.Catalog, stepTimeout time.Duration, logger *zap.Logger) *DefaultCheckoutService {
	if stepTimeout <= 0 {
		stepTimeout = 15 * time.Second
	}
	return &DefaultCheckoutService{
		Registry:    registry,
		Catalog:     catalog,
		StepTimeout: stepTimeout,
		Logger:      logger,
	}
}

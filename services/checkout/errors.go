package checkout

import "errors"

var (
	// ErrSessionNotFound covers unknown handles and sessions already closed.
	ErrSessionNotFound = errors.New("checkout session not found or closed")
	// ErrStepInFlight rejects a submit while another call for the same
	// session is still outstanding. Duplicates are dropped, not queued.
	ErrStepInFlight = errors.New("a step is already in flight for this session")
	// ErrStaleStep marks a settling call whose session has since moved on
	// (back-navigation or teardown); its result is discarded.
	ErrStaleStep = errors.New("step result is stale")
	// ErrUnknownProvider means the session references a provider that is not
	// in the catalog.
	ErrUnknownProvider = errors.New("unknown provider")
)

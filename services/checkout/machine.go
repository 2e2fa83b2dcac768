package checkout

import (
	"context"
	"time"

	"cartscout/models"
	"cartscout/providers"

	"go.uber.org/zap"
)

const fatalMessage = "Something went wrong with this store. Please try again from the product list."

// Select creates a session for the chosen product and returns the first
// pending step. The provider-side session token is minted later, usually by
// add-to-cart.
func (m *DefaultCheckoutService) Select(ctx context.Context, clientID, providerID string, product models.Product) (models.CheckoutSession, *models.StepResult, error) {
	if _, ok := m.Catalog[providerID]; !ok {
		return models.CheckoutSession{}, nil, ErrUnknownProvider
	}

	sess := m.Registry.Create(clientID, providerID, product)
	if m.Nudger != nil {
		m.Nudger.EnqueueAbandonNudge(sess.Handle, providerID, time.Now().Add(15*time.Minute))
	}
	if m.Logger != nil {
		m.Logger.Info("checkout session created",
			zap.String("handle", sess.Handle),
			zap.String("provider", providerID),
			zap.String("product", product.Key()))
	}
	return sess, resultFor(&sess, models.StepStatusAdvance, ""), nil
}

// Submit runs the session's current step. Local validation happens before
// the single-flight lock is taken, so malformed input never reaches the
// network and never blocks the session.
func (m *DefaultCheckoutService) Submit(ctx context.Context, handle string, step models.Step, input map[string]string) (*models.StepResult, error) {
	sess, err := m.Registry.Get(handle)
	if err != nil {
		return nil, err
	}
	client, ok := m.Catalog[sess.ProviderID]
	if !ok {
		m.Registry.Close(handle)
		return nil, ErrUnknownProvider
	}
	desc := client.Descriptor()

	if step != sess.CurrentStep {
		return resultFor(&sess, models.StepStatusRetry, "That step is no longer current"), nil
	}
	if msg := validateInput(desc, sess, step, input); msg != "" {
		return resultFor(&sess, models.StepStatusRetry, msg), nil
	}

	token, err := m.Registry.TryBeginStep(handle)
	if err != nil {
		return nil, err
	}
	defer m.Registry.EndStep(handle)

	// Record the entered fields up front so back-navigation restores them
	// even when the remote call fails.
	if err := m.Registry.Mutate(handle, token, func(s *models.CheckoutSession) {
		recordInput(s, step, input)
	}); err != nil {
		return nil, err
	}
	sess, _ = m.Registry.Get(handle)

	cctx, cancel := context.WithTimeout(ctx, m.StepTimeout)
	defer cancel()

	apply, confirmation, callErr := m.callProvider(cctx, client, sess, step, input)
	if callErr != nil {
		return m.settleFailure(handle, token, step, callErr)
	}

	if step == models.StepPay {
		// Terminal success: verify the settle is still current, then tear
		// the machine down.
		if err := m.Registry.Mutate(handle, token, func(s *models.CheckoutSession) {
			s.CurrentStep = models.StepClosed
		}); err != nil {
			return nil, err
		}
		m.Registry.Close(handle)
		if m.Logger != nil {
			m.Logger.Info("checkout completed", zap.String("handle", handle), zap.String("provider", desc.ID))
		}
		return &models.StepResult{
			Status:       models.StepStatusClosed,
			Step:         models.StepClosed,
			Success:      true,
			Confirmation: confirmation,
		}, nil
	}

	var result *models.StepResult
	if err := m.Registry.Mutate(handle, token, func(s *models.CheckoutSession) {
		if apply != nil {
			apply(s)
		}
		s.History = append(s.History, step)
		s.CurrentStep = nextStep(desc, s)
		result = resultFor(s, models.StepStatusAdvance, "")
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// callProvider executes the remote call backing one step and returns the
// session mutation to apply on success. Re-running a step issues the same
// idempotent call again (the cart is overwritten, never duplicated).
func (m *DefaultCheckoutService) callProvider(ctx context.Context, client providers.Client, sess models.CheckoutSession, step models.Step, input map[string]string) (func(*models.CheckoutSession), string, error) {
	switch step {
	case models.StepSelectProduct:
		res, err := client.AddToCart(ctx, providers.CartRequest{
			ProductRef: sess.Product.Key(),
			Size:       sess.Data.Size,
			Phone:      sess.Data.Phone,
		})
		if err != nil {
			return nil, "", err
		}
		return func(s *models.CheckoutSession) {
			if res.SessionID != "" {
				s.SessionID = res.SessionID
			}
			s.Data.RequiresOtp = res.RequiresOtp
			s.Data.SizesAvailable = res.SizesAvailable
		}, "", nil

	case models.StepViewDetails:
		res, err := client.ViewDetails(ctx, sess.Product.Key())
		if err != nil {
			return nil, "", err
		}
		return func(s *models.CheckoutSession) {
			if len(res.Sizes) > 0 {
				s.Data.SizesAvailable = res.Sizes
			}
		}, "", nil

	case models.StepAuthenticate:
		if _, err := client.Login(ctx, sess.SessionID, input["phone"]); err != nil {
			return nil, "", err
		}
		return nil, "", nil

	case models.StepVerifyOtp:
		res, err := client.VerifyOtp(ctx, sess.SessionID, input["otp"])
		if err != nil {
			return nil, "", err
		}
		return func(s *models.CheckoutSession) {
			s.Data.SavedAddresses = res.SavedAddresses
			if len(res.SavedAddresses) > 0 {
				s.AddressMode = models.AddressModeSelect
			} else {
				s.AddressMode = models.AddressModeNew
			}
		}, "", nil

	case models.StepChooseSize:
		// Overwrites the cart with the chosen size.
		res, err := client.AddToCart(ctx, providers.CartRequest{
			ProductRef: sess.Product.Key(),
			Size:       input["size"],
			Phone:      sess.Data.Phone,
		})
		if err != nil {
			return nil, "", err
		}
		return func(s *models.CheckoutSession) {
			if res.SessionID != "" {
				s.SessionID = res.SessionID
			}
		}, "", nil

	case models.StepChooseAddress:
		req := providers.AddressRequest{}
		switch {
		case input["addressId"] != "" && sess.AddressMode == models.AddressModeSelect:
			req.AddressID = input["addressId"]
		case input["name"] != "":
			req.Address = addressFromInput(input)
		case sess.Data.AddressID != "":
			req.AddressID = sess.Data.AddressID
		default:
			req.Address = sess.Data.Address
		}
		if _, err := client.SaveOrSelectAddress(ctx, sess.SessionID, req); err != nil {
			return nil, "", err
		}
		return nil, "", nil

	case models.StepPay:
		res, err := client.Pay(ctx, sess.SessionID, input["upiId"])
		if err != nil {
			return nil, "", err
		}
		return nil, res.Confirmation, nil
	}

	return nil, "", providers.NewError(providers.KindValidation, "unknown step")
}

// settleFailure maps a failed provider call onto the step outcome taxonomy:
// rejected input retries the same step, a missing account rewinds to
// authentication, and transport or not-found failures tear the session down.
func (m *DefaultCheckoutService) settleFailure(handle string, token StepToken, step models.Step, callErr error) (*models.StepResult, error) {
	kind := providers.KindOf(callErr)
	msg := providers.MessageOf(callErr)

	switch kind {
	case providers.KindValidation, providers.KindServerRejected:
		// Confirm the settle is still current before surfacing the retry.
		var result *models.StepResult
		if err := m.Registry.Mutate(handle, token, func(s *models.CheckoutSession) {
			result = resultFor(s, models.StepStatusRetry, msg)
		}); err != nil {
			return nil, err
		}
		return result, nil

	case providers.KindAuthRequired:
		var result *models.StepResult
		if err := m.Registry.Mutate(handle, token, func(s *models.CheckoutSession) {
			s.Data.RequiresOtp = true
			rewindTo(s, models.StepAuthenticate)
			result = resultFor(s, models.StepStatusAdvance, "Please log in to continue")
		}); err != nil {
			return nil, err
		}
		return result, nil

	default: // KindNotFound, KindTransport
		// Verify the settle is current, then tear down.
		if err := m.Registry.Mutate(handle, token, func(s *models.CheckoutSession) {
			s.CurrentStep = models.StepClosed
		}); err != nil {
			return nil, err
		}
		m.Registry.Close(handle)
		if m.Logger != nil {
			m.Logger.Warn("checkout session torn down",
				zap.String("handle", handle),
				zap.String("step", string(step)),
				zap.String("kind", string(kind)),
				zap.String("message", msg))
		}
		return &models.StepResult{
			Status:  models.StepStatusClosed,
			Step:    models.StepClosed,
			Message: fatalMessage,
		}, nil
	}
}

// Back pops the previous step from history. The generation bump in Apply
// guarantees a call still resolving for the abandoned step is dropped.
func (m *DefaultCheckoutService) Back(handle string) (*models.StepResult, error) {
	sess, err := m.Registry.Apply(handle, func(s *models.CheckoutSession) {
		if n := len(s.History); n > 0 {
			s.CurrentStep = s.History[n-1]
			s.History = s.History[:n-1]
		}
	})
	if err != nil {
		return nil, err
	}
	return resultFor(&sess, models.StepStatusAdvance, ""), nil
}

// Cancel abandons the session and closes it immediately.
func (m *DefaultCheckoutService) Cancel(handle string) (*models.StepResult, error) {
	if _, err := m.Registry.Get(handle); err != nil {
		return nil, err
	}
	m.Registry.Close(handle)
	return &models.StepResult{
		Status:  models.StepStatusClosed,
		Step:    models.StepClosed,
		Message: "Checkout cancelled",
	}, nil
}

// Get returns the current session view.
func (m *DefaultCheckoutService) Get(handle string) (models.CheckoutSession, error) {
	return m.Registry.Get(handle)
}

// resultFor builds the StepResult payload for whatever step is now current,
// carrying the data its popup needs to render.
func resultFor(s *models.CheckoutSession, status models.StepStatus, msg string) *models.StepResult {
	res := &models.StepResult{
		Status:  status,
		Step:    s.CurrentStep,
		Message: msg,
	}
	switch s.CurrentStep {
	case models.StepChooseSize:
		res.SizesAvailable = s.Data.SizesAvailable
	case models.StepChooseAddress:
		res.SavedAddresses = s.Data.SavedAddresses
		res.AddressMode = s.AddressMode
	}
	return res
}

// recordInput stores the fields the user typed for a step so a later "back"
// restores them.
func recordInput(s *models.CheckoutSession, step models.Step, input map[string]string) {
	switch step {
	case models.StepAuthenticate:
		s.Data.Phone = input["phone"]
	case models.StepVerifyOtp:
		s.Data.Otp = input["otp"]
	case models.StepChooseSize:
		s.Data.Size = input["size"]
	case models.StepChooseAddress:
		if id := input["addressId"]; id != "" {
			s.Data.AddressID = id
		} else if input["name"] != "" {
			s.Data.Address = addressFromInput(input)
		}
	case models.StepPay:
		s.Data.UpiID = input["upiId"]
	}
}

func addressFromInput(input map[string]string) *models.Address {
	return &models.Address{
		Name:    input["name"],
		Line1:   input["line1"],
		Line2:   input["line2"],
		City:    input["city"],
		Pincode: input["pincode"],
		Phone:   input["phone"],
	}
}

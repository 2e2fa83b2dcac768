package checkout

import (
	"cartscout/models"
	"cartscout/providers"
)

// graphFor builds the ordered step sequence for one provider. The graph is
// the superset for that provider; data-dependent skips (no sizes returned,
// already logged in) happen in nextStep.
func graphFor(desc providers.Descriptor) []models.Step {
	steps := []models.Step{models.StepSelectProduct}
	if desc.HasViewDetails {
		steps = append(steps, models.StepViewDetails)
	}
	steps = append(steps, models.StepAuthenticate, models.StepVerifyOtp)
	if desc.Apparel {
		steps = append(steps, models.StepChooseSize)
	}
	steps = append(steps, models.StepChooseAddress, models.StepPay)
	return steps
}

// nextStep walks the graph forward from the session's current step, skipping
// steps the accumulated data makes inapplicable: auth steps when the cart
// reported no OTP requirement, the size step when no sizes came back.
func nextStep(desc providers.Descriptor, sess *models.CheckoutSession) models.Step {
	graph := graphFor(desc)
	idx := -1
	for i, s := range graph {
		if s == sess.CurrentStep {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= len(graph) {
		return models.StepClosed
	}

	for _, s := range graph[idx+1:] {
		switch s {
		case models.StepAuthenticate, models.StepVerifyOtp:
			if !sess.Data.RequiresOtp {
				continue
			}
		case models.StepChooseSize:
			if len(sess.Data.SizesAvailable) == 0 {
				continue
			}
		}
		return s
	}
	return models.StepClosed
}

// rewindTo truncates history back to the given step, keeping collected data
// intact. Used when a backend reports "no account" mid-flow.
func rewindTo(sess *models.CheckoutSession, step models.Step) {
	for i, s := range sess.History {
		if s == step {
			sess.History = sess.History[:i]
			break
		}
	}
	sess.CurrentStep = step
}

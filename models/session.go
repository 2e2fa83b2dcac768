package models

import "time"

// Step is one stage of a provider's checkout graph.
type Step string

const (
	StepSelectProduct Step = "select_product"
	StepViewDetails   Step = "view_details"
	StepAuthenticate  Step = "authenticate"
	StepVerifyOtp     Step = "verify_otp"
	StepChooseSize    Step = "choose_size"
	StepChooseAddress Step = "choose_address"
	StepPay           Step = "pay"
	StepClosed        Step = "closed"
)

// AddressMode distinguishes the two variants of the address step.
const (
	AddressModeNew    = "new"
	AddressModeSelect = "select"
)

// StepData accumulates everything entered by the user or returned by the
// provider across the steps of one checkout session. Back-navigation never
// clears fields collected at later steps.
type StepData struct {
	RequiresOtp    bool      `json:"requiresOtp,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Otp            string    `json:"otp,omitempty"`
	Size           string    `json:"size,omitempty"`
	SizesAvailable []string  `json:"sizesAvailable,omitempty"`
	Address        *Address  `json:"address,omitempty"`
	AddressID      string    `json:"addressId,omitempty"`
	SavedAddresses []Address `json:"savedAddresses,omitempty"`
	UpiID          string    `json:"upiId,omitempty"`
}

// CheckoutSession holds the state of one provider checkout flow. Handle is
// minted locally; SessionID is the token the provider backend issues (usually
// on add-to-cart) and is empty until then.
type CheckoutSession struct {
	Handle      string    `json:"handle"`
	ClientID    string    `json:"clientId"`
	ProviderID  string    `json:"providerId"`
	SessionID   string    `json:"sessionId,omitempty"`
	Product     Product   `json:"product"`
	CurrentStep Step      `json:"currentStep"`
	History     []Step    `json:"history,omitempty"`
	Data        StepData  `json:"data"`
	AddressMode string    `json:"addressMode,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StepStatus tags the outcome of a step transition.
type StepStatus string

const (
	StepStatusAdvance StepStatus = "advance"
	StepStatusRetry   StepStatus = "retry"
	StepStatusClosed  StepStatus = "closed"
)

// StepResult is what a submit/back/cancel action returns to the presentation
// layer: the step now current, a message for retries, and whatever the
// provider returned that the next popup needs to render.
type StepResult struct {
	Status         StepStatus `json:"status"`
	Step           Step       `json:"step"`
	Message        string     `json:"message,omitempty"`
	SizesAvailable []string   `json:"sizesAvailable,omitempty"`
	SavedAddresses []Address  `json:"savedAddresses,omitempty"`
	AddressMode    string     `json:"addressMode,omitempty"`
	Confirmation   string     `json:"confirmation,omitempty"`
	Success        bool       `json:"success,omitempty"`
}

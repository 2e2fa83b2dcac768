package providers

import (
	"context"

	"cartscout/models"
)

// Descriptor declares a provider's identity and the shape of its checkout
// flow; the step graph and local validation rules are derived from it.
type Descriptor struct {
	ID             string
	Label          string
	BaseURL        string
	OTPLength      int
	Apparel        bool
	HasViewDetails bool
}

// SearchResult is a provider's answer to one search call.
type SearchResult struct {
	Items []models.Product `json:"items"`
}

// DetailsResult carries the optional product-detail payload.
type DetailsResult struct {
	Details map[string]string `json:"details,omitempty"`
	Sizes   []string          `json:"sizes,omitempty"`
}

// CartRequest is the add-to-cart call. Size and Phone are included once
// collected; re-submitting with the same arguments must overwrite, not
// duplicate, the provider-side cart.
type CartRequest struct {
	ProductRef string `json:"productRef"`
	Size       string `json:"size,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// CartResult is the add-to-cart response. SessionID is the provider-issued
// token scoping the rest of the checkout.
type CartResult struct {
	SessionID      string   `json:"sessionId"`
	RequiresOtp    bool     `json:"requiresOtp"`
	SizesAvailable []string `json:"sizesAvailable,omitempty"`
}

type LoginResult struct {
	Ok bool `json:"ok"`
}

// OtpResult reports OTP verification. SavedAddresses with one or more
// entries switches the address step into select-existing mode; empty or
// absent both mean the user types a new address.
type OtpResult struct {
	Ok             bool             `json:"ok"`
	SavedAddresses []models.Address `json:"savedAddresses,omitempty"`
}

// AddressRequest selects a saved address by ID or submits a new one.
type AddressRequest struct {
	AddressID string          `json:"addressId,omitempty"`
	Address   *models.Address `json:"address,omitempty"`
}

type AddressResult struct {
	Ok bool `json:"ok"`
}

type PayResult struct {
	Ok           bool   `json:"ok"`
	Confirmation string `json:"confirmationMessage"`
}

// Client is the capability set every retailer integration implements. All
// failures are *Error values carrying an ErrorKind.
type Client interface {
	Descriptor() Descriptor
	Search(ctx context.Context, query string) (*SearchResult, error)
	ViewDetails(ctx context.Context, productRef string) (*DetailsResult, error)
	AddToCart(ctx context.Context, req CartRequest) (*CartResult, error)
	Login(ctx context.Context, sessionID, phone string) (*LoginResult, error)
	VerifyOtp(ctx context.Context, sessionID, otp string) (*OtpResult, error)
	SaveOrSelectAddress(ctx context.Context, sessionID string, req AddressRequest) (*AddressResult, error)
	Pay(ctx context.Context, sessionID, upiID string) (*PayResult, error)
}

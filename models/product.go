package models

// Product is one item returned by a provider's search. Beyond the stable ID
// (used for selection identity), every field is provider-specific and passed
// through to the UI untouched.
type Product struct {
	ID       string            `json:"id"`
	Title    string            `json:"title,omitempty"`
	Price    string            `json:"price,omitempty"`
	Image    string            `json:"image,omitempty"`
	URL      string            `json:"url,omitempty"`
	Rating   string            `json:"rating,omitempty"`
	Category string            `json:"category,omitempty"`
	Sizes    []string          `json:"sizes,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Key returns the identity used to detect "is this the currently pending
// product". Some providers key items by URL instead of an explicit ID.
func (p Product) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.URL
}

// Address is a delivery address, either typed in by the user or one of the
// saved addresses a provider backend reports after OTP verification.
type Address struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone,omitempty"`
}

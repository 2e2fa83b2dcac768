package providers

import (
	"cartscout/config"

	"go.uber.org/zap"
)

// Catalog maps provider IDs to live clients.
type Catalog map[string]Client

// BuildCatalog registers the configured retailer integrations. Stylo is the
// apparel flow (product details, sizes, 6-digit OTP); Zapmart is a general
// marketplace with the short 4-digit OTP variant; Nestbasket is groceries,
// no size step and no detail view.
func BuildCatalog(cfg config.Config, logger *zap.Logger) Catalog {
	descriptors := []Descriptor{
		{
			ID:             "stylo",
			Label:          "Stylo",
			BaseURL:        cfg.StyloBaseURL,
			OTPLength:      6,
			Apparel:        true,
			HasViewDetails: true,
		},
		{
			ID:        "zapmart",
			Label:     "Zapmart",
			BaseURL:   cfg.ZapmartBaseURL,
			OTPLength: 4,
		},
		{
			ID:        "nestbasket",
			Label:     "Nestbasket",
			BaseURL:   cfg.NestbasketBaseURL,
			OTPLength: 6,
		},
	}

	catalog := make(Catalog, len(descriptors))
	for _, d := range descriptors {
		catalog[d.ID] = NewRESTClient(d, logger)
	}
	return catalog
}

// List returns the clients in a stable slice for fan-out.
func (c Catalog) List() []Client {
	out := make([]Client, 0, len(c))
	for _, cl := range c {
		out = append(out, cl)
	}
	return out
}

package models

// SearchIntent is the structured form of a free-text query, as extracted by
// the intent service. Keywords is what actually gets sent to providers.
type SearchIntent struct {
	Keywords string  `json:"keywords"`
	Category string  `json:"category,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
}

// ProviderResult is one provider's settled outcome for one search round.
// Filled exactly once when the provider's call settles.
type ProviderResult struct {
	ProviderID string    `json:"providerId"`
	Label      string    `json:"label,omitempty"`
	Items      []Product `json:"items"`
	Error      string    `json:"error,omitempty"`
}

// ProviderPatch is the incremental aggregation event: one per provider per
// round, emitted in settle order. Consumers must index by ProviderID, never
// by arrival position, and must drop patches from superseded rounds.
type ProviderPatch struct {
	RoundID    string    `json:"roundId"`
	ProviderID string    `json:"providerId"`
	Label      string    `json:"label,omitempty"`
	Items      []Product `json:"items"`
	Error      string    `json:"error,omitempty"`
	Cached     bool      `json:"cached,omitempty"`
	ElapsedMS  int64     `json:"elapsedMs"`
}

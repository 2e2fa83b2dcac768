package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cartscout/models"

	"go.uber.org/zap"
)

const intentPrompt = `You are a shopping query parser. Extract the product keywords,
an optional category (apparel, grocery, electronics, home, other) and an optional
maximum price from the user's query. Reply with a single JSON object shaped like
{"keywords":"...","category":"...","maxPrice":0} and nothing else.

Query: %q`

// Resolve extracts a SearchIntent from a free-text query. The Gemini path has
// a short deadline; on any failure the heuristic parser answers instead.
func (s *DefaultIntentService) Resolve(ctx context.Context, query string) models.SearchIntent {
	query = strings.TrimSpace(query)
	if s.gemini != nil {
		gctx, cancel := context.WithTimeout(ctx, 4*time.Second)
		defer cancel()

		raw, err := s.gemini.GenerateContent(gctx, fmt.Sprintf(intentPrompt, query))
		if err == nil {
			if parsed, ok := parseIntentJSON(raw); ok {
				if parsed.Keywords == "" {
					parsed.Keywords = query
				}
				return parsed
			}
		} else {
			zap.L().Warn("gemini intent extraction failed, using heuristics", zap.Error(err))
		}
	}
	return HeuristicIntent(query)
}

// parseIntentJSON pulls the JSON object out of a model reply, tolerating
// markdown fences around it.
func parseIntentJSON(raw string) (models.SearchIntent, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return models.SearchIntent{}, false
	}
	var out models.SearchIntent
	if err := json.Unmarshal([]byte(raw[start:end+1]), &out); err != nil {
		return models.SearchIntent{}, false
	}
	return out, true
}

var (
	fillerRe = regexp.MustCompile(`(?i)\b(please|show me|find me|find|search for|search|i want to buy|i want|i need|get me|buy|looking for|can you)\b`)
	priceRe  = regexp.MustCompile(`(?i)(?:under|below|less than|upto|up to)\s*(?:rs\.?|₹|inr)?\s*([0-9][0-9,]*)`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

var categoryHints = map[string][]string{
	"apparel":     {"shirt", "t-shirt", "tshirt", "jeans", "dress", "kurta", "saree", "shoes", "sneakers", "jacket", "hoodie"},
	"grocery":     {"rice", "atta", "milk", "oil", "dal", "sugar", "snacks", "biscuits", "vegetables"},
	"electronics": {"phone", "laptop", "headphones", "earbuds", "tv", "charger", "camera"},
}

// HeuristicIntent is the no-model fallback: strips conversational filler,
// lifts a "under ₹N" price cap, and guesses a category from keyword hints.
func HeuristicIntent(query string) models.SearchIntent {
	out := models.SearchIntent{Keywords: query}

	cleaned := query
	if m := priceRe.FindStringSubmatch(cleaned); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			out.MaxPrice = v
		}
		cleaned = priceRe.ReplaceAllString(cleaned, " ")
	}
	cleaned = fillerRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(spaceRe.ReplaceAllString(cleaned, " "))
	if cleaned != "" {
		out.Keywords = cleaned
	}

	lower := strings.ToLower(out.Keywords)
	for cat, hints := range categoryHints {
		for _, h := range hints {
			if strings.Contains(lower, h) {
				out.Category = cat
				return out
			}
		}
	}
	return out
}

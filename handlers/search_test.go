package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"cartscout/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubCoordinator feeds canned patches through the handler.
type stubCoordinator struct {
	patches []models.ProviderPatch
}

func (s *stubCoordinator) StartSearch(_ context.Context, clientID, query string) (string, <-chan models.ProviderPatch) {
	ch := make(chan models.ProviderPatch, len(s.patches))
	for _, p := range s.patches {
		ch <- p
	}
	close(ch)
	return "round-1", ch
}

func (s *stubCoordinator) IsCurrent(clientID, roundID string) bool {
	return roundID == "round-1"
}

func TestAggregateSearchHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	coord := &stubCoordinator{patches: []models.ProviderPatch{
		{RoundID: "round-1", ProviderID: "stylo", Items: []models.Product{{ID: "p1"}}},
		{RoundID: "round-1", ProviderID: "zapmart", Items: []models.Product{}, Error: "connection refused"},
	}}

	r := gin.New()
	h := NewSearchHandler(coord, zap.NewNop())
	r.POST("/api/search", h.AggregateSearchHandler)

	w := postJSON(t, r, "/api/search", gin.H{"query": "red t-shirt"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RoundID string                           `json:"roundId"`
		Results map[string]models.ProviderResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "round-1", resp.RoundID)
	require.Len(t, resp.Results, 2)
	assert.Len(t, resp.Results["stylo"].Items, 1)
	assert.Equal(t, "connection refused", resp.Results["zapmart"].Error)
}

func TestAggregateSearchRequiresQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSearchHandler(&stubCoordinator{}, zap.NewNop())
	r.POST("/api/search", h.AggregateSearchHandler)

	w := postJSON(t, r, "/api/search", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

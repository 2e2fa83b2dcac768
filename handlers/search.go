package handlers

import (
	"io"
	"net/http"

	"cartscout/services/search"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SearchHandler exposes the aggregation coordinator over HTTP.
type SearchHandler struct {
	Coordinator search.Coordinator
	Logger      *zap.Logger
}

func NewSearchHandler(coordinator search.Coordinator, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{Coordinator: coordinator, Logger: logger}
}

// StreamSearchHandler runs one aggregation round and streams provider
// patches over SSE as each provider settles. EventSource cannot set headers,
// so the client ID rides on the query string; without one, each connection
// is its own client and stale-round suppression is per-connection only.
func (h *SearchHandler) StreamSearchHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}
	clientID := c.Query("clientId")
	if clientID == "" {
		clientID = uuid.New().String()
	}

	roundID, patches := h.Coordinator.StartSearch(c.Request.Context(), clientID, query)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("round", gin.H{"roundId": roundID})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		patch, ok := <-patches
		if !ok {
			c.SSEvent("done", gin.H{"roundId": roundID})
			return false
		}
		// A fresher round for this client supersedes ours; stop streaming
		// stale patches.
		if !h.Coordinator.IsCurrent(clientID, patch.RoundID) {
			return false
		}
		c.SSEvent("patch", patch)
		return true
	})
}

// AggregateSearchHandler is the non-streaming fallback: it waits for every
// provider to settle and returns the full result set keyed by provider ID.
func (h *SearchHandler) AggregateSearchHandler(c *gin.Context) {
	var input struct {
		Query    string `json:"query" binding:"required"`
		ClientID string `json:"clientId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	clientID := input.ClientID
	if clientID == "" {
		clientID = uuid.New().String()
	}

	roundID, patches := h.Coordinator.StartSearch(c.Request.Context(), clientID, input.Query)
	results := search.Collect(patches)

	c.JSON(http.StatusOK, gin.H{
		"roundId": roundID,
		"results": results,
	})
}

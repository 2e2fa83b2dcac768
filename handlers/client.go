package handlers

import (
	"net/http"
	"time"

	"cartscout/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateClientSessionHandler issues a guest shopper token. The UI calls this
// once on load; the returned client ID scopes search rounds and checkout
// sessions.
func CreateClientSessionHandler(c *gin.Context) {
	clientID := uuid.New().String()
	token, err := utils.GenerateClientToken(clientID, 24*time.Hour)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create client session", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientId": clientID,
		"token":    token,
	})
}

// HealthHandler reports the latest stored health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}

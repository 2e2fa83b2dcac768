package handlers

import (
	"errors"
	"net/http"

	"cartscout/middleware"
	"cartscout/models"
	"cartscout/services/checkout"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutHandler exposes the per-provider checkout state machine.
type CheckoutHandler struct {
	Service checkout.CheckoutService
	Logger  *zap.Logger
}

func NewCheckoutHandler(service checkout.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{Service: service, Logger: logger}
}

// SelectProductHandler creates a checkout session for the chosen product.
func (h *CheckoutHandler) SelectProductHandler(c *gin.Context) {
	var input struct {
		ProviderID string         `json:"providerId" binding:"required"`
		Product    models.Product `json:"product" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Product.Key() == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product must carry an id or url"})
		return
	}

	sess, result, err := h.Service.Select(c.Request.Context(), c.GetString(middleware.ClientIDKey), input.ProviderID, input.Product)
	if err != nil {
		if errors.Is(err, checkout.ErrUnknownProvider) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"handle": sess.Handle,
		"result": result,
	})
}

// SubmitStepHandler runs the session's current step with the user's input.
func (h *CheckoutHandler) SubmitStepHandler(c *gin.Context) {
	handle := c.Param("handle")
	var input struct {
		Step   models.Step       `json:"step" binding:"required"`
		Fields map[string]string `json:"fields"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Fields == nil {
		input.Fields = map[string]string{}
	}

	result, err := h.Service.Submit(c.Request.Context(), handle, input.Step, input.Fields)
	if err != nil {
		h.replyError(c, handle, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// BackHandler returns the session to its previous step.
func (h *CheckoutHandler) BackHandler(c *gin.Context) {
	result, err := h.Service.Back(c.Param("handle"))
	if err != nil {
		h.replyError(c, c.Param("handle"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// CancelHandler abandons the session.
func (h *CheckoutHandler) CancelHandler(c *gin.Context) {
	result, err := h.Service.Cancel(c.Param("handle"))
	if err != nil {
		h.replyError(c, c.Param("handle"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GetSessionHandler returns the current session view.
func (h *CheckoutHandler) GetSessionHandler(c *gin.Context) {
	sess, err := h.Service.Get(c.Param("handle"))
	if err != nil {
		h.replyError(c, c.Param("handle"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

func (h *CheckoutHandler) replyError(c *gin.Context, handle string, err error) {
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "checkout session not found or closed"})
	case errors.Is(err, checkout.ErrStepInFlight):
		// Duplicate submit while a call is outstanding; dropped, not queued.
		c.JSON(http.StatusConflict, gin.H{"error": "a step is already in progress"})
	case errors.Is(err, checkout.ErrStaleStep):
		c.JSON(http.StatusConflict, gin.H{"error": "the session moved on; refresh and retry"})
	default:
		h.Logger.Error("checkout step failed", zap.String("handle", handle), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout step failed"})
	}
}

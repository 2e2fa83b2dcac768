package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cartscout/models"
	"cartscout/services/checkout"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubCheckoutService implements checkout.CheckoutService for handler tests.
type stubCheckoutService struct {
	selectFn func(providerID string, product models.Product) (models.CheckoutSession, *models.StepResult, error)
	submitFn func(handle string, step models.Step, input map[string]string) (*models.StepResult, error)
}

func (s *stubCheckoutService) Select(_ context.Context, _, providerID string, product models.Product) (models.CheckoutSession, *models.StepResult, error) {
	return s.selectFn(providerID, product)
}

func (s *stubCheckoutService) Submit(_ context.Context, handle string, step models.Step, input map[string]string) (*models.StepResult, error) {
	return s.submitFn(handle, step, input)
}

func (s *stubCheckoutService) Back(handle string) (*models.StepResult, error) {
	return nil, checkout.ErrSessionNotFound
}

func (s *stubCheckoutService) Cancel(handle string) (*models.StepResult, error) {
	return nil, checkout.ErrSessionNotFound
}

func (s *stubCheckoutService) Get(handle string) (models.CheckoutSession, error) {
	return models.CheckoutSession{}, checkout.ErrSessionNotFound
}

func newCheckoutRouter(svc checkout.CheckoutService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCheckoutHandler(svc, zap.NewNop())
	r.POST("/api/checkout/select", h.SelectProductHandler)
	r.POST("/api/checkout/:handle/submit", h.SubmitStepHandler)
	r.POST("/api/checkout/:handle/back", h.BackHandler)
	r.GET("/api/checkout/:handle", h.GetSessionHandler)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSelectProductHandler(t *testing.T) {
	svc := &stubCheckoutService{
		selectFn: func(providerID string, product models.Product) (models.CheckoutSession, *models.StepResult, error) {
			assert.Equal(t, "stylo", providerID)
			assert.Equal(t, "p-1", product.ID)
			return models.CheckoutSession{Handle: "h-1"},
				&models.StepResult{Status: models.StepStatusAdvance, Step: models.StepSelectProduct}, nil
		},
	}
	r := newCheckoutRouter(svc)

	w := postJSON(t, r, "/api/checkout/select", gin.H{
		"providerId": "stylo",
		"product":    gin.H{"id": "p-1", "title": "Red Tee"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Handle string            `json:"handle"`
		Result models.StepResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "h-1", resp.Handle)
	assert.Equal(t, models.StepSelectProduct, resp.Result.Step)
}

func TestSelectProductRejectsUnknownProvider(t *testing.T) {
	svc := &stubCheckoutService{
		selectFn: func(providerID string, product models.Product) (models.CheckoutSession, *models.StepResult, error) {
			return models.CheckoutSession{}, nil, checkout.ErrUnknownProvider
		},
	}
	r := newCheckoutRouter(svc)

	w := postJSON(t, r, "/api/checkout/select", gin.H{
		"providerId": "nope",
		"product":    gin.H{"id": "p-1"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitStepBusyMapsToConflict(t *testing.T) {
	svc := &stubCheckoutService{
		submitFn: func(handle string, step models.Step, input map[string]string) (*models.StepResult, error) {
			return nil, checkout.ErrStepInFlight
		},
	}
	r := newCheckoutRouter(svc)

	w := postJSON(t, r, "/api/checkout/h-1/submit", gin.H{"step": "pay", "fields": gin.H{"upiId": "me@upi"}})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitStepClosedSessionMapsToNotFound(t *testing.T) {
	svc := &stubCheckoutService{
		submitFn: func(handle string, step models.Step, input map[string]string) (*models.StepResult, error) {
			return nil, checkout.ErrSessionNotFound
		},
	}
	r := newCheckoutRouter(svc)

	w := postJSON(t, r, "/api/checkout/h-1/submit", gin.H{"step": "pay", "fields": gin.H{"upiId": "me@upi"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

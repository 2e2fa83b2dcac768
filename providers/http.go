package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// restClient talks to one retailer backend over its JSON HTTP API. One
// instance per configured provider; the Descriptor decides which
// capabilities are real calls and which are no-ops.
type restClient struct {
	desc   Descriptor
	client *http.Client
	logger *zap.Logger
}

// NewRESTClient builds a provider client for the given descriptor.
func NewRESTClient(desc Descriptor, logger *zap.Logger) Client {
	return &restClient{
		desc: desc,
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
		logger: logger.With(zap.String("provider", desc.ID)),
	}
}

func (r *restClient) Descriptor() Descriptor {
	return r.desc
}

// backendError is the error envelope retailer backends use.
type backendError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b backendError) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// postJSON performs one call and maps the response onto the error taxonomy:
// connection failures and 5xx are Transport, 401/403 AuthRequired, 404/410
// NotFound, and remaining 4xx ServerRejected with the backend's own message.
func (r *restClient) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return NewError(KindTransport, fmt.Sprintf("encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.desc.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return NewError(KindTransport, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return NewError(KindTransport, "provider timed out")
		}
		return NewError(KindTransport, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewError(KindTransport, fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			r.logger.Warn("malformed provider response", zap.String("path", path), zap.Error(err))
			return NewError(KindTransport, "malformed provider response")
		}
		return nil
	}

	var be backendError
	_ = json.Unmarshal(raw, &be)
	msg := be.text()
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewError(KindAuthRequired, msg)
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return NewError(KindNotFound, msg)
	case resp.StatusCode >= 500:
		return NewError(KindTransport, msg)
	default:
		return NewError(KindServerRejected, msg)
	}
}

func (r *restClient) Search(ctx context.Context, query string) (*SearchResult, error) {
	var out SearchResult
	if err := r.postJSON(ctx, "/search", map[string]string{"query": query}, &out); err != nil {
		return nil, err
	}
	for i := range out.Items {
		if out.Items[i].Extra == nil {
			out.Items[i].Extra = map[string]string{}
		}
		out.Items[i].Extra["provider"] = r.desc.ID
	}
	return &out, nil
}

func (r *restClient) ViewDetails(ctx context.Context, productRef string) (*DetailsResult, error) {
	if !r.desc.HasViewDetails {
		// Capability not offered; the machine advances straight through.
		return &DetailsResult{}, nil
	}
	var out DetailsResult
	if err := r.postJSON(ctx, "/details", map[string]string{"productRef": productRef}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *restClient) AddToCart(ctx context.Context, req CartRequest) (*CartResult, error) {
	var out CartResult
	if err := r.postJSON(ctx, "/cart", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *restClient) Login(ctx context.Context, sessionID, phone string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"sessionId": sessionID, "phone": phone}
	if err := r.postJSON(ctx, "/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *restClient) VerifyOtp(ctx context.Context, sessionID, otp string) (*OtpResult, error) {
	var out OtpResult
	body := map[string]string{"sessionId": sessionID, "otp": otp}
	if err := r.postJSON(ctx, "/verify-otp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *restClient) SaveOrSelectAddress(ctx context.Context, sessionID string, req AddressRequest) (*AddressResult, error) {
	var out AddressResult
	body := struct {
		SessionID string `json:"sessionId"`
		AddressRequest
	}{SessionID: sessionID, AddressRequest: req}
	if err := r.postJSON(ctx, "/address", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *restClient) Pay(ctx context.Context, sessionID, upiID string) (*PayResult, error) {
	var out PayResult
	body := map[string]string{"sessionId": sessionID, "upiId": upiID}
	if err := r.postJSON(ctx, "/pay", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

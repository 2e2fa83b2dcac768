package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, desc Descriptor) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	desc.BaseURL = srv.URL
	return NewRESTClient(desc, zap.NewNop())
}

func TestSearchDecodesItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "red t-shirt", body["query"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"p1","title":"Red Tee","price":"499"}]}`))
	}, Descriptor{ID: "stylo"})

	res, err := client.Search(context.Background(), "red t-shirt")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "p1", res.Items[0].ID)
	assert.Equal(t, "stylo", res.Items[0].Extra["provider"])
}

func TestStatusCodeToErrorKind(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
		wantMsg  string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"login required"}`, KindAuthRequired, "login required"},
		{"forbidden", http.StatusForbidden, ``, KindAuthRequired, "Forbidden"},
		{"not found", http.StatusNotFound, `{"error":"session expired"}`, KindNotFound, "session expired"},
		{"gone", http.StatusGone, ``, KindNotFound, "Gone"},
		{"rejected", http.StatusBadRequest, `{"message":"Incorrect OTP"}`, KindServerRejected, "Incorrect OTP"},
		{"conflict", http.StatusConflict, `{"error":"out of stock"}`, KindServerRejected, "out of stock"},
		{"server error", http.StatusInternalServerError, ``, KindTransport, "Internal Server Error"},
		{"bad gateway", http.StatusBadGateway, ``, KindTransport, "Bad Gateway"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}, Descriptor{ID: "zapmart"})

			_, err := client.Login(context.Background(), "s1", "9876543210")
			require.Error(t, err)
			assert.Equal(t, tc.wantKind, KindOf(err))
			assert.Equal(t, tc.wantMsg, MessageOf(err))
		})
	}
}

func TestMalformedResponseIsTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}, Descriptor{ID: "zapmart"})

	_, err := client.AddToCart(context.Background(), CartRequest{ProductRef: "p1"})
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestConnectionFailureIsTransport(t *testing.T) {
	client := NewRESTClient(Descriptor{ID: "zapmart", BaseURL: "http://127.0.0.1:1"}, zap.NewNop())

	_, err := client.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestContextDeadlineIsTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}, Descriptor{ID: "zapmart"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "anything")
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestViewDetailsNoOpWithoutCapability(t *testing.T) {
	// No server behind this descriptor; the call must not hit the network.
	client := NewRESTClient(Descriptor{ID: "nestbasket", BaseURL: "http://127.0.0.1:1"}, zap.NewNop())

	res, err := client.ViewDetails(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, res.Sizes)
}

func TestAddToCartCarriesSessionFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart", r.URL.Path)
		var req CartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "p1", req.ProductRef)
		assert.Equal(t, "M", req.Size)

		json.NewEncoder(w).Encode(CartResult{SessionID: "srv-7", RequiresOtp: true, SizesAvailable: []string{"S", "M"}})
	}, Descriptor{ID: "stylo"})

	res, err := client.AddToCart(context.Background(), CartRequest{ProductRef: "p1", Size: "M"})
	require.NoError(t, err)
	assert.Equal(t, "srv-7", res.SessionID)
	assert.True(t, res.RequiresOtp)
	assert.Equal(t, []string{"S", "M"}, res.SizesAvailable)
}

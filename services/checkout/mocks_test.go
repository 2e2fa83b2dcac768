package checkout

import (
	"context"
	"sync"

	"cartscout/models"
	"cartscout/providers"
)

// fakeClient implements providers.Client for testing. Per-operation hooks
// override the default happy-path responses; every call is recorded.
type fakeClient struct {
	desc providers.Descriptor

	addToCartFn func(req providers.CartRequest) (*providers.CartResult, error)
	loginFn     func(sessionID, phone string) (*providers.LoginResult, error)
	verifyOtpFn func(sessionID, otp string) (*providers.OtpResult, error)
	addressFn   func(sessionID string, req providers.AddressRequest) (*providers.AddressResult, error)
	payFn       func(sessionID, upiID string) (*providers.PayResult, error)
	detailsFn   func(productRef string) (*providers.DetailsResult, error)

	mu    sync.Mutex
	calls []string
}

func newFakeClient(desc providers.Descriptor) *fakeClient {
	return &fakeClient{desc: desc}
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeClient) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeClient) Descriptor() providers.Descriptor {
	return f.desc
}

func (f *fakeClient) Search(ctx context.Context, query string) (*providers.SearchResult, error) {
	f.record("search")
	return &providers.SearchResult{Items: []models.Product{}}, nil
}

func (f *fakeClient) ViewDetails(ctx context.Context, productRef string) (*providers.DetailsResult, error) {
	f.record("viewDetails")
	if f.detailsFn != nil {
		return f.detailsFn(productRef)
	}
	return &providers.DetailsResult{}, nil
}

func (f *fakeClient) AddToCart(ctx context.Context, req providers.CartRequest) (*providers.CartResult, error) {
	f.record("addToCart")
	if f.addToCartFn != nil {
		return f.addToCartFn(req)
	}
	return &providers.CartResult{SessionID: "srv-1", RequiresOtp: true}, nil
}

func (f *fakeClient) Login(ctx context.Context, sessionID, phone string) (*providers.LoginResult, error) {
	f.record("login")
	if f.loginFn != nil {
		return f.loginFn(sessionID, phone)
	}
	return &providers.LoginResult{Ok: true}, nil
}

func (f *fakeClient) VerifyOtp(ctx context.Context, sessionID, otp string) (*providers.OtpResult, error) {
	f.record("verifyOtp")
	if f.verifyOtpFn != nil {
		return f.verifyOtpFn(sessionID, otp)
	}
	return &providers.OtpResult{Ok: true}, nil
}

func (f *fakeClient) SaveOrSelectAddress(ctx context.Context, sessionID string, req providers.AddressRequest) (*providers.AddressResult, error) {
	f.record("saveOrSelectAddress")
	if f.addressFn != nil {
		return f.addressFn(sessionID, req)
	}
	return &providers.AddressResult{Ok: true}, nil
}

func (f *fakeClient) Pay(ctx context.Context, sessionID, upiID string) (*providers.PayResult, error) {
	f.record("pay")
	if f.payFn != nil {
		return f.payFn(sessionID, upiID)
	}
	return &providers.PayResult{Ok: true, Confirmation: "Order placed"}, nil
}

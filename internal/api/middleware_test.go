package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"llmproxy-backend/internal/auth"
	"llmproxy-backend/internal/quota"
)

// stubVerifier lets the middleware be tested without a real token issuer.
type stubVerifier struct {
	principal *auth.Principal
	err       error
	calls     int
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (*auth.Principal, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

// memStore is a minimal in-memory quota.Store for middleware tests.
type memStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemStore() *memStore {
	return &memStore{counts: make(map[string]int64)}
}

func (s *memStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func (s *memStore) Expire(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func nextHandler(called *bool, gotPrincipal **auth.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if gotPrincipal != nil {
			if p, ok := auth.GetPrincipalFromContext(r.Context()); ok {
				*gotPrincipal = p
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityMiddlewareMissingHeader(t *testing.T) {
	verifier := &stubVerifier{principal: &auth.Principal{SubjectID: "sub-1"}}
	called := false

	handler := IdentityMiddleware(verifier)(nextHandler(&called, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/models", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("downstream handler must not run without a credential")
	}
	if verifier.calls != 0 {
		t.Error("verifier must not be called without a bearer token")
	}
}

func TestIdentityMiddlewareMalformedHeader(t *testing.T) {
	verifier := &stubVerifier{principal: &auth.Principal{SubjectID: "sub-1"}}
	called := false

	handler := IdentityMiddleware(verifier)(nextHandler(&called, nil))
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized || called {
		t.Errorf("status = %d, called = %v; want 401 and no downstream call", rec.Code, called)
	}
}

func TestIdentityMiddlewareVerifierFailureClosesGate(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("token expired")}
	called := false

	handler := IdentityMiddleware(verifier)(nextHandler(&called, nil))
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized || called {
		t.Errorf("status = %d, called = %v; want 401 and no downstream call", rec.Code, called)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["error"] != "token expired" {
		t.Errorf("error = %q, want the verifier's message", body["error"])
	}
}

func TestIdentityMiddlewareInjectsPrincipal(t *testing.T) {
	verifier := &stubVerifier{principal: &auth.Principal{SubjectID: "sub-1", Email: "a@b.c"}}
	called := false
	var principal *auth.Principal

	handler := IdentityMiddleware(verifier)(nextHandler(&called, &principal))
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !called {
		t.Fatalf("status = %d, called = %v", rec.Code, called)
	}
	if principal == nil || principal.SubjectID != "sub-1" {
		t.Errorf("principal = %+v, want sub-1", principal)
	}
}

func TestIdentityMiddlewareNilVerifierAdmits(t *testing.T) {
	called := false

	handler := IdentityMiddleware(nil)(nextHandler(&called, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/models", nil))

	if rec.Code != http.StatusOK || !called {
		t.Errorf("unauthenticated deployment must admit; status = %d", rec.Code)
	}
}

func TestQuotaMiddlewareRejectsOverLimit(t *testing.T) {
	gate := quota.NewGate(newMemStore(), 2)
	called := 0
	handler := QuotaMiddleware(gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.WriteHeader(http.StatusOK)
	}))

	principalCtx := auth.WithPrincipal(context.Background(), &auth.Principal{SubjectID: "sub-1"})

	var lastCode int
	var lastBody []byte
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/models", nil).WithContext(principalCtx)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode, lastBody = rec.Code, rec.Body.Bytes()
	}

	if called != 2 {
		t.Errorf("downstream calls = %d, want 2", called)
	}
	if lastCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", lastCode)
	}

	var body map[string]string
	if err := json.Unmarshal(lastBody, &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["error"] != "Daily quota of 2 requests exceeded." {
		t.Errorf("error = %q", body["error"])
	}
}

func TestQuotaMiddlewareNilStoreAdmitsEverything(t *testing.T) {
	gate := quota.NewGate(nil, 1)
	called := 0
	handler := QuotaMiddleware(gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/models", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}
	if called != 10 {
		t.Errorf("downstream calls = %d, want 10", called)
	}
}

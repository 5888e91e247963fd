package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
	"github.com/localmart/localmart-client/pkg/logger"
	"github.com/rs/zerolog"
)

type staticTokens string

func (s staticTokens) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data any, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]any{"success": success}
	if data != nil {
		payload["data"] = data
	}
	if errMsg != "" {
		payload["error"] = errMsg
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientSendsStandardHeaders(t *testing.T) {
	var captured http.Header

	router := chi.NewRouter()
	router.Post("/cart/{productID}", func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		writeEnvelope(w, http.StatusOK, true, CartItem{
			ID:      "l1",
			Product: &CartProduct{ID: chi.URLParam(r, "productID")},
		}, "")
	})

	client := newTestClient(t, router, WithTokenSource(staticTokens("tok-123")), WithUserAgent("localmart-test/1.0"))

	if _, err := client.AddToCart(context.Background(), "p1", 2); err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	if got := captured.Get("Authorization"); got != "Bearer tok-123" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	if captured.Get("X-Request-ID") == "" {
		t.Fatal("request id header missing")
	}
	if captured.Get("Idempotency-Key") == "" {
		t.Fatal("idempotency key missing on mutation")
	}
	if got := captured.Get("User-Agent"); got != "localmart-test/1.0" {
		t.Fatalf("unexpected user agent %q", got)
	}
}

func TestClientOmitsIdempotencyKeyOnReads(t *testing.T) {
	var captured http.Header

	router := chi.NewRouter()
	router.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		writeEnvelope(w, http.StatusOK, true, []CartItem{}, "")
	})

	client := newTestClient(t, router)
	if _, err := client.GetCart(context.Background()); err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if captured.Get("Idempotency-Key") != "" {
		t.Fatal("reads must not carry an idempotency key")
	}
}

func TestClientPropagatesServerErrorMessage(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, false, nil, "cart is locked")
	})

	client := newTestClient(t, router)
	_, err := client.GetCart(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error: %v", err)
	}
	if typed.Message() != "cart is locked" {
		t.Fatalf("expected server message, got %q", typed.Message())
	}
}

func TestClientFallsBackToGenericMessage(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, false, nil, "")
	})

	client := newTestClient(t, router)
	_, err := client.GetCart(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeServer {
		t.Fatalf("unexpected error: %v", err)
	}
	if typed.Message() != "server error" {
		t.Fatalf("expected generic message, got %q", typed.Message())
	}
}

func TestClientRejectsUnsuccessfulEnvelopeOn200(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, false, nil, "soft failure")
	})

	client := newTestClient(t, router)
	_, err := client.GetCart(context.Background())
	if err == nil {
		t.Fatal("expected error for success=false envelope")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "soft failure" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientNetworkErrorIsTyped(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GetCart(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
	if !typed.Retryable() {
		t.Fatal("network errors should be retryable")
	}
}

func TestClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestClientHonorsConfiguredTimeout(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(250 * time.Millisecond)
		writeEnvelope(w, http.StatusOK, true, []CartItem{}, "")
	})

	client := newTestClient(t, router, WithHTTPClient(&http.Client{Timeout: 25 * time.Millisecond}))
	if client.httpClient.Timeout != 25*time.Millisecond {
		t.Fatalf("configured timeout not applied, got %v", client.httpClient.Timeout)
	}

	_, err := client.GetCart(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNetwork {
		t.Fatalf("expected timeout to surface as a network error, got %v", err)
	}
}

func TestClientLogsRequestIDOnFailure(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: &buf})

	var sentID string
	router := chi.NewRouter()
	router.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		sentID = r.Header.Get("X-Request-ID")
		writeEnvelope(w, http.StatusInternalServerError, false, nil, "boom")
	})

	client := newTestClient(t, router, WithLogger(logg))
	if _, err := client.GetCart(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	logged := buf.String()
	if !strings.Contains(logged, "api request failed") {
		t.Fatalf("failure log missing: %s", logged)
	}
	if sentID == "" || !strings.Contains(logged, sentID) {
		t.Fatalf("log does not carry request id %q: %s", sentID, logged)
	}
}

func TestClientLogsCompletionAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: &buf})

	router := chi.NewRouter()
	router.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, []CartItem{}, "")
	})

	client := newTestClient(t, router, WithLogger(logg))
	if _, err := client.GetCart(context.Background()); err != nil {
		t.Fatalf("get cart: %v", err)
	}

	logged := buf.String()
	if !strings.Contains(logged, "api request completed") || !strings.Contains(logged, "request_id") {
		t.Fatalf("completion log missing request id: %s", logged)
	}
}

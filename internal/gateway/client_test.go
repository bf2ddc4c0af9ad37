package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/javaweb/webshop-client/pkg/config"
	pkgerrors "github.com/javaweb/webshop-client/pkg/errors"
	"github.com/javaweb/webshop-client/pkg/logger"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(config.GatewayConfig{BaseURL: serverURL, Timeout: 2 * time.Second},
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestDoUnwrapsEnvelopeData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/product/42" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected request id header")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"code": 200,
			"data": map[string]any{"id": 42, "name": "Mug"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/product/42"}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.ID != 42 || out.Name != "Mug" {
		t.Fatalf("unexpected payload %+v", out)
	}
}

func TestDoAttachesBearerTokenWhenPresent(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"code":200}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Signed out: no header.
	if err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/cart/1"}, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}

	client.SetTokenSource(staticTokens("T"))
	if err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/cart/1"}, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "Bearer T" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestDoBusinessErrorCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":500,"message":"username already taken"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/user/register"}, nil)
	if err == nil {
		t.Fatal("expected business error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Message() != "username already taken" {
		t.Fatalf("expected server message, got %v", err)
	}
}

func TestDoUnauthorizedFiresEveryHookOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":401,"message":"token expired"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	var first, second int
	client.OnUnauthorized(func(context.Context) { first++ })
	client.OnUnauthorized(func(context.Context) { second++ })

	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/orders/user/7"}, nil)
	if !pkgerrors.HasCode(err, pkgerrors.CodeAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if first != 1 || second != 1 {
		t.Fatalf("expected each hook fired once, got %d and %d", first, second)
	}
	if pkgerrors.As(err).Message() != "token expired" {
		t.Fatalf("expected server message, got %v", err)
	}
}

func TestDoServerErrorIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/category/tree"}, nil)
	if !pkgerrors.HasCode(err, pkgerrors.CodeTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestDoNotFoundMapsTaxonomy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":404,"message":"cart item not found"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/api/cart/99"}, nil)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDoUnreachableServerIsTransport(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/cart/1"}, nil)
	if !pkgerrors.HasCode(err, pkgerrors.CodeTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestDoEncodesQueryAndBody(t *testing.T) {
	var gotQuery url.Values
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"code":200}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	query := url.Values{}
	query.Set("quantity", "3")
	err := client.Do(context.Background(), Request{
		Method: http.MethodPut,
		Path:   "/api/cart/5",
		Query:  query,
		Body:   map[string]any{"checked": true},
	}, nil)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotQuery.Get("quantity") != "3" {
		t.Fatalf("query not sent: %v", gotQuery)
	}
	if gotBody["checked"] != true {
		t.Fatalf("body not sent: %v", gotBody)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.GatewayConfig{}, logger.New(logger.Options{Output: io.Discard}), nil)
	if err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestNewClientRequiresLogger(t *testing.T) {
	_, err := NewClient(config.GatewayConfig{BaseURL: "http://localhost"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil logger")
	}
}

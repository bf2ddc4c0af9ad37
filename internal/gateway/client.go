// Package gateway is the single path to the shop backend: it attaches the
// bearer credential, unwraps the response envelope, and maps transport and
// auth failures onto the client error taxonomy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javaweb/webshop-client/pkg/config"
	pkgerrors "github.com/javaweb/webshop-client/pkg/errors"
	"github.com/javaweb/webshop-client/pkg/logger"
	"github.com/javaweb/webshop-client/pkg/metrics"
)

const envelopeSuccess = 200

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

var errLoggerRequired = errors.New("gateway logger is required")

// TokenSource yields the current bearer token, or "" when signed out.
type TokenSource interface {
	Token() string
}

// UnauthorizedHook is invoked once per response that came back HTTP 401.
type UnauthorizedHook func(ctx context.Context)

// Request describes one remote call.
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Body      any
	Operation string // label for logs and metrics; defaults to "METHOD path"
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client performs HTTP calls against the shop backend.
type Client struct {
	baseURL      string
	http         *http.Client
	tokens       TokenSource
	unauthorized []UnauthorizedHook
	logger       *logger.Logger
	metrics      *metrics.GatewayMetrics
}

// NewClient builds the gateway with the configured base URL and fixed
// per-request timeout. No retries are ever attempted.
func NewClient(cfg config.GatewayConfig, logg *logger.Logger, m *metrics.GatewayMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("gateway base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		logger:  logg,
		metrics: m,
	}, nil
}

// SetTokenSource installs the credential provider consulted on every call.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// OnUnauthorized registers a hook fired whenever the backend answers 401.
// The session container registers its forced-logout here, which keeps the
// 401-clears-credentials coupling explicit instead of an import cycle.
func (c *Client) OnUnauthorized(hook UnauthorizedHook) {
	if hook != nil {
		c.unauthorized = append(c.unauthorized, hook)
	}
}

// Do executes the request and decodes the envelope's data field into out
// (which may be nil when the caller only cares about success).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	op := req.Operation
	if op == "" {
		op = fmt.Sprintf("%s %s", req.Method, req.Path)
	}

	started := time.Now()
	err := c.do(ctx, req, op, out)
	c.metrics.ObserveDuration(op, time.Since(started))
	if err != nil {
		c.metrics.IncFailure(op, string(pkgerrors.As(err).Code()))
		return err
	}
	c.metrics.IncSuccess(op)
	return nil
}

func (c *Client) do(ctx context.Context, req Request, op string, out any) error {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	authenticated := false
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
			authenticated = true
		}
	}

	logCtx := c.logger.WithFields(ctx, map[string]any{
		"operation":     op,
		"request_id":    requestID,
		"authenticated": authenticated,
	})
	c.logger.Debug(logCtx, "gateway request")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn(logCtx, "gateway transport failure: "+err.Error())
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "call shop service")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "read response")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn(logCtx, "gateway rejected credentials")
		for _, hook := range c.unauthorized {
			hook(ctx)
		}
		return pkgerrors.New(pkgerrors.CodeAuthentication, serverMessage(raw, "session expired, sign in again"))
	}

	if resp.StatusCode >= 400 {
		code := pkgerrors.CodeForStatus(resp.StatusCode)
		c.logger.Warn(logCtx, fmt.Sprintf("gateway status %d", resp.StatusCode))
		return pkgerrors.New(code, serverMessage(raw, http.StatusText(resp.StatusCode)))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "decode response envelope")
	}

	if env.Code != 0 && env.Code != envelopeSuccess {
		message := env.Message
		if message == "" {
			message = "request rejected"
		}
		c.logger.Warn(logCtx, "gateway business error: "+message)
		return pkgerrors.New(pkgerrors.CodeForStatus(env.Code), message)
	}

	c.logger.Debug(logCtx, "gateway response")

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode response data")
	}
	return nil
}

func serverMessage(raw []byte, fallback string) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return fallback
}

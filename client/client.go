// Package client provides the KaiwaDB query session: a thin request/response
// client that sends natural-language prompts plus schema metadata to the
// remote translate service and executes the returned artifact against a
// caller-supplied connection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kaiwadb/kaiwadb-go/auth"
	"github.com/kaiwadb/kaiwadb-go/core"
	"github.com/kaiwadb/kaiwadb-go/schema"
)

const defaultTimeout = 30 * time.Second

// Client is a query session: an immutable mapping registry, a validated
// credential, and an HTTP transport to the translate endpoint.
//
// A Client is safe for concurrent use. The registry and its serialized form
// never change after construction, each Run call is independent, and
// cancelling one call does not affect others. The SDK performs no internal
// retries; see core.IsRetryableError for callers that wrap Run themselves.
type Client struct {
	registry *schema.Registry
	auth     auth.Strategy
	key      string

	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	description string
	userAgent   string

	logger   *core.Logger
	throttle Throttle
	metrics  *Metrics

	// serializedSchema is the registry serialization, computed once and sent
	// verbatim with every request.
	serializedSchema json.RawMessage

	closed atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom endpoint base URL (default DefaultBaseURL).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the per-call translate timeout (default 30s). On expiry
// the call fails with a RemoteTimeoutError.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithDescription sets an optional session description sent with each
// request; the remote service may use it as additional context.
func WithDescription(description string) Option {
	return func(c *Client) {
		c.description = description
	}
}

// WithVerbose enables debug logging. This only controls local diagnostic
// output; it never alters remote behavior.
func WithVerbose(enabled bool) Option {
	return func(c *Client) {
		c.logger = core.NewLogger(enabled)
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *core.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithThrottle sets a custom throttle implementation.
func WithThrottle(t Throttle) Option {
	return func(c *Client) {
		c.throttle = t
	}
}

// WithProactiveThrottle enables sliding window throttling. The hosted
// service's quota is 60 requests per minute per key.
func WithProactiveThrottle(requestsPerMinute int) Option {
	return func(c *Client) {
		c.throttle = NewSlidingWindowThrottle(requestsPerMinute)
	}
}

// WithMetrics enables Prometheus instrumentation of translate calls,
// registering collectors on reg.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a query session from a registry and a credential strategy.
//
// The credential is resolved and validated here, locally: a session with a
// missing or malformed key fails with an AuthenticationError before any
// prompt can leave the process.
func New(registry *schema.Registry, strategy auth.Strategy, opts ...Option) (*Client, error) {
	if registry == nil {
		return nil, core.NewSchemaDefinitionError("", "", "registry is required")
	}
	if strategy == nil {
		return nil, core.NewAuthenticationError("no credential strategy configured", "")
	}

	c := &Client{
		registry:   registry,
		auth:       strategy,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		userAgent:  "kaiwadb-go/" + SchemaVersion,
		throttle:   NewNoOpThrottle(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = core.NewLogger(false)
	}

	key, err := strategy.Key(context.Background())
	if err != nil {
		return nil, err
	}
	if err := auth.ValidateKey(key); err != nil {
		return nil, err
	}
	c.key = key
	c.serializedSchema = registry.Serialized()

	c.logger.Debug("session %s ready (%s, %d documents)",
		registry.SessionID(), registry.Engine(), len(registry.Documents()))
	return c, nil
}

// Registry returns the session's mapping registry.
func (c *Client) Registry() *schema.Registry {
	return c.registry
}

// SessionID returns the session identifier.
func (c *Client) SessionID() string {
	return c.registry.SessionID()
}

// Closed reports whether the session has been closed.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// Close shuts the session down. Subsequent Run and Translate calls fail
// with a SessionClosedError. Close is idempotent and never touches the
// caller's database connections: those are owned per call by the caller.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.httpClient.CloseIdleConnections()
	c.logger.Debug("session %s closed", c.registry.SessionID())
	return nil
}

// Run sends the prompt to the translate service and executes the returned
// artifact against exec, the caller's connection. Rows come back exactly as
// the connection produced them: no local reinterpretation, coercion, or
// filtering.
//
// Errors never poison the session; after any failure the session remains
// usable for the next call.
func (c *Client) Run(ctx context.Context, prompt string, exec Executor) (*Result, error) {
	if exec == nil {
		return nil, &core.KaiwaError{Message: "nil executor; supply a connection via NewSQLExecutor or NewMongoExecutor"}
	}

	artifact, err := c.Translate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := exec.Execute(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("executing artifact for prompt %q: %w", prompt, err)
	}
	c.logger.Timing("EXECUTE", string(artifact.Family), time.Since(start))
	return result, nil
}

// Translate sends the prompt to the translate service and returns the raw
// artifact without executing it. Useful for auditing what would run, for
// example cross-checking returned column names via the registry's
// LogicalField.
func (c *Client) Translate(ctx context.Context, prompt string) (*Artifact, error) {
	if c.closed.Load() {
		return nil, core.NewSessionClosedError(c.registry.SessionID())
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, core.NewQueryTranslationError(prompt, "", "prompt must not be empty", "")
	}

	if err := c.throttle.Acquire(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	artifact, err := c.doTranslate(ctx, prompt)
	c.observe(err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return artifact, nil
}

func (c *Client) doTranslate(ctx context.Context, prompt string) (*Artifact, error) {
	body, err := json.Marshal(translateRequest{
		SessionID:   c.registry.SessionID(),
		Prompt:      prompt,
		Schema:      c.serializedSchema,
		Engine:      c.registry.Engine(),
		Description: c.description,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding translate request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + translatePath
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Kaiwa-Schema-Version", SchemaVersion)
	req.Header.Set("X-Kaiwa-Session", c.registry.SessionID())
	req.Header.Set("User-Agent", c.userAgent)
	c.auth.Apply(req, c.key)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The caller's own cancellation propagates as-is; only our deadline
		// becomes a timeout error.
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
			return nil, core.NewRemoteTimeoutError(c.timeout, err)
		}
		return nil, core.NewRemoteUnavailableError(
			fmt.Sprintf("translate service unreachable: %v", err), "", 0, err)
	}
	defer resp.Body.Close()
	c.logger.Timing(http.MethodPost, url, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, core.ParseErrorResponse(resp, prompt)
	}

	var tr translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, core.NewQueryTranslationError(prompt, "",
			fmt.Sprintf("malformed translate response: %v", err), "")
	}

	if tr.Status != statusSuccess {
		message := tr.Message
		if message == "" {
			message = "prompt could not be translated"
		}
		return nil, core.NewQueryTranslationError(prompt, tr.Status, message, tr.RequestID)
	}
	if tr.Artifact == nil {
		return nil, core.NewQueryTranslationError(prompt, tr.Status,
			"remote reported success without a query artifact", tr.RequestID)
	}
	if tr.Artifact.Family != c.registry.Engine().Family {
		return nil, core.NewQueryTranslationError(prompt, tr.Status,
			fmt.Sprintf("artifact targets engine %q, session uses %q",
				tr.Artifact.Family, c.registry.Engine().Family), tr.RequestID)
	}

	c.logger.Debug("translated prompt %q (request %s)", prompt, tr.RequestID)
	return tr.Artifact, nil
}

func (c *Client) observe(err error, duration time.Duration) {
	if c.metrics == nil {
		return
	}
	status := statusSuccess
	if err != nil {
		var translation *core.QueryTranslationError
		switch {
		case errors.As(err, &translation):
			status = statusError
			if translation.RemoteStatus != "" {
				status = translation.RemoteStatus
			}
		case core.IsRetryableError(err):
			status = "unavailable"
		default:
			status = statusError
		}
	}
	c.metrics.observe(status, duration)
}

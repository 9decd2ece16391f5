// Package kaiwadb provides a Go SDK for the KaiwaDB natural-language query
// service.
//
// The SDK's local responsibilities are deliberately thin:
//   - Declarative schema description with logical↔physical name mapping
//   - Legacy enum-value remapping, validated at construction
//   - A session client that sends prompts plus schema metadata to the
//     hosted translate endpoint and executes the returned query artifact
//     against your own database connection
//
// Natural-language understanding and query synthesis happen remotely. Row
// data never leaves your process: only the prompt and schema metadata are
// transmitted, and results are returned exactly as your connection produced
// them.
//
// Basic usage:
//
//	users, err := kaiwadb.NewDocument("users", "tbl_users_legacy", []kaiwadb.Field{
//	    kaiwadb.MustField("id", kaiwadb.Int, kaiwadb.WithPhysicalName("cust_id_pk")),
//	    kaiwadb.MustField("role", kaiwadb.Enum,
//	        kaiwadb.WithPhysicalName("role_type"),
//	        kaiwadb.WithEnum(
//	            kaiwadb.EnumMember{Name: "CUSTOMER", Value: 1},
//	            kaiwadb.EnumMember{Name: "ADMIN", Value: 2},
//	        ),
//	    ),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session, err := kaiwadb.New(
//	    kaiwadb.WithDocuments(users),
//	    kaiwadb.WithEngine(kaiwadb.PostgreSQL("16")),
//	    kaiwadb.WithAPIKeyFromEnv(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	result, err := session.Run(ctx, "find all admin users", kaiwadb.NewSQLExecutor(db))
package kaiwadb

import (
	"github.com/google/uuid"

	"github.com/kaiwadb/kaiwadb-go/auth"
	"github.com/kaiwadb/kaiwadb-go/client"
	"github.com/kaiwadb/kaiwadb-go/core"
	"github.com/kaiwadb/kaiwadb-go/schema"
)

// Session is a KaiwaDB query session.
type Session = client.Client

// Re-export types for convenience
type (
	// Schema declaration types
	Field      = schema.Field
	EnumMember = schema.EnumMember
	Kind       = schema.Kind
	Document   = schema.Document
	Registry   = schema.Registry

	// Engine descriptor
	Engine       = core.Engine
	EngineFamily = core.EngineFamily

	// Error types
	KaiwaError             = core.KaiwaError
	SchemaDefinitionError  = core.SchemaDefinitionError
	AuthenticationError    = core.AuthenticationError
	QueryTranslationError  = core.QueryTranslationError
	RemoteTimeoutError     = core.RemoteTimeoutError
	RemoteUnavailableError = core.RemoteUnavailableError
	SessionClosedError     = core.SessionClosedError

	// Execution types
	Executor = client.Executor
	Result   = client.Result
	Artifact = client.Artifact

	// Throttle types
	Throttle              = client.Throttle
	SlidingWindowThrottle = client.SlidingWindowThrottle
	NoOpThrottle          = client.NoOpThrottle
)

// Field kinds
const (
	Int      = schema.Int
	Float    = schema.Float
	String   = schema.String
	Bool     = schema.Bool
	DateTime = schema.DateTime
	Enum     = schema.Enum
)

// Schema declaration helpers re-exported from schema
var (
	NewField         = schema.NewField
	MustField        = schema.MustField
	WithPhysicalName = schema.WithPhysicalName
	WithFieldDesc    = schema.WithDescription
	WithDefault      = schema.WithDefault
	RequiredField    = schema.Required
	WithEnum         = schema.WithEnum

	NewDocument        = schema.NewDocument
	MustDocument       = schema.MustDocument
	WithDocDescription = schema.WithDocDescription

	NewRegistry = schema.NewRegistry
)

// Engine constructors re-exported from core
var (
	PostgreSQL = core.PostgreSQL
	MySQL      = core.MySQL
	MariaDB    = core.MariaDB
	SQLite     = core.SQLite
	Oracle     = core.Oracle
	MSSQL      = core.MSSQL
	Mongo      = core.Mongo
)

// Helper functions re-exported from core and client
var (
	// IsRetryableError returns true if the error is transient and worth a
	// caller-side retry. The SDK never retries internally.
	IsRetryableError = core.IsRetryableError

	// NewSQLExecutor wraps a database/sql handle for artifact execution.
	NewSQLExecutor = client.NewSQLExecutor

	// NewMongoExecutor wraps a mongo database handle for artifact execution.
	NewMongoExecutor = client.NewMongoExecutor

	// NewSlidingWindowThrottle creates a proactive request throttle.
	NewSlidingWindowThrottle = client.NewSlidingWindowThrottle
)

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	sessionID    string
	engine       core.Engine
	hasEngine    bool
	docs         []*schema.Document
	authStrategy auth.Strategy
	clientOpts   []client.Option
}

// WithDocuments supplies the document schemas, in the order the remote
// service should see them.
func WithDocuments(docs ...*schema.Document) Option {
	return func(c *sessionConfig) {
		c.docs = append(c.docs, docs...)
	}
}

// WithEngine sets the target engine descriptor.
func WithEngine(engine core.Engine) Option {
	return func(c *sessionConfig) {
		c.engine = engine
		c.hasEngine = true
	}
}

// WithSessionID sets an explicit session identifier. When unset a random
// UUID is generated.
func WithSessionID(id string) Option {
	return func(c *sessionConfig) {
		c.sessionID = id
	}
}

// WithAPIKey configures static API key authentication.
func WithAPIKey(key string) Option {
	return func(c *sessionConfig) {
		c.authStrategy = auth.NewAPIKeyStrategy(key)
	}
}

// WithAPIKeyFromEnv configures API key authentication from the KAIWADB_API_KEY
// environment variable (see auth.NewEnvStrategy for custom variables and
// dotenv loading).
func WithAPIKeyFromEnv(opts ...auth.EnvOption) Option {
	return func(c *sessionConfig) {
		c.authStrategy = auth.NewEnvStrategy("", opts...)
	}
}

// WithAuthStrategy sets a custom credential strategy.
func WithAuthStrategy(s auth.Strategy) Option {
	return func(c *sessionConfig) {
		c.authStrategy = s
	}
}

// WithDescription sets an optional session description sent as remote
// context.
func WithDescription(description string) Option {
	return func(c *sessionConfig) {
		c.clientOpts = append(c.clientOpts, client.WithDescription(description))
	}
}

// WithVerbose enables local diagnostic logging. Never alters remote
// behavior.
func WithVerbose(enabled bool) Option {
	return func(c *sessionConfig) {
		c.clientOpts = append(c.clientOpts, client.WithVerbose(enabled))
	}
}

// WithClientOptions appends low-level client options (timeout, base URL,
// HTTP client, throttle, metrics).
func WithClientOptions(opts ...client.Option) Option {
	return func(c *sessionConfig) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// New creates a query session.
//
// A session needs at least one document schema, an engine descriptor, and a
// credential. The credential is validated locally before any network call;
// schema validation happens in the registry and document constructors.
func New(opts ...Option) (*Session, error) {
	cfg := &sessionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.hasEngine {
		return nil, core.NewSchemaDefinitionError("", "", "no engine configured; use WithEngine")
	}
	if len(cfg.docs) == 0 {
		return nil, core.NewSchemaDefinitionError("", "", "no document schemas configured; use WithDocuments")
	}
	if cfg.authStrategy == nil {
		return nil, core.NewAuthenticationError("no credential configured; use WithAPIKey, WithAPIKeyFromEnv, or WithAuthStrategy", "")
	}

	sessionID := cfg.sessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	registry, err := schema.NewRegistry(sessionID, cfg.engine, cfg.docs...)
	if err != nil {
		return nil, err
	}

	return client.New(registry, cfg.authStrategy, cfg.clientOpts...)
}

// Package auth provides credential strategies for the KaiwaDB remote API.
//
// The hosted service authenticates every translate request with an API key
// sent as a bearer token. The key is validated locally at session
// construction so that a missing or malformed credential fails before any
// prompt leaves the process.
//
// Two strategies are built in:
//   - [APIKeyStrategy]: a key supplied directly in code or configuration
//   - [EnvStrategy]: a key sourced from an environment variable, optionally
//     loading a dotenv file first
//
// Custom strategies (secret managers, rotating credentials) implement
// [Strategy].
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/kaiwadb/kaiwadb-go/core"
)

// DefaultEnvVar is the environment variable EnvStrategy reads when no
// variable name is given.
const DefaultEnvVar = "KAIWADB_API_KEY"

// Strategy defines the interface for credential strategies.
type Strategy interface {
	// Key returns the API key. Called once at session construction; the key
	// is then reused for the session's lifetime, never re-derived per call.
	Key(ctx context.Context) (string, error)

	// Apply applies authentication headers to the request.
	Apply(req *http.Request, key string)
}

// ValidateKey checks an API key locally: non-empty and free of whitespace.
// The key's actual validity is only known to the remote service; this check
// exists so an absent or mangled credential fails before any network call.
func ValidateKey(key string) error {
	if key == "" {
		return core.NewAuthenticationError("no API key configured; use WithAPIKey or WithAPIKeyFromEnv", "")
	}
	if strings.ContainsAny(key, " \t\r\n") {
		return core.NewAuthenticationError("API key contains whitespace", "")
	}
	return nil
}

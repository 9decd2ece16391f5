package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/joho/godotenv"

	"github.com/kaiwadb/kaiwadb-go/core"
)

// EnvStrategy sources the API key from an environment variable, optionally
// loading dotenv files first. The lookup happens once, on first use.
type EnvStrategy struct {
	varName     string
	dotenvFiles []string

	once sync.Once
	key  string
	err  error
}

// EnvOption configures an EnvStrategy.
type EnvOption func(*EnvStrategy)

// WithDotenv loads the given dotenv files before reading the variable.
// Values already present in the environment win, matching godotenv.Load.
func WithDotenv(files ...string) EnvOption {
	return func(s *EnvStrategy) {
		s.dotenvFiles = append(s.dotenvFiles, files...)
	}
}

// NewEnvStrategy creates a strategy that reads varName from the
// environment. An empty varName means DefaultEnvVar.
func NewEnvStrategy(varName string, opts ...EnvOption) *EnvStrategy {
	if varName == "" {
		varName = DefaultEnvVar
	}
	s := &EnvStrategy{varName: varName}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key reads the variable (after loading any dotenv files) and caches the
// result. A missing variable is an AuthenticationError.
func (s *EnvStrategy) Key(ctx context.Context) (string, error) {
	s.once.Do(func() {
		if len(s.dotenvFiles) > 0 {
			if err := godotenv.Load(s.dotenvFiles...); err != nil {
				s.err = core.NewAuthenticationError(
					fmt.Sprintf("loading dotenv: %v", err), "")
				return
			}
		}
		key, ok := os.LookupEnv(s.varName)
		if !ok || key == "" {
			s.err = core.NewAuthenticationError(
				fmt.Sprintf("environment variable %s is not set", s.varName), "")
			return
		}
		s.key = key
	})
	return s.key, s.err
}

// Apply sets the Authorization header.
func (s *EnvStrategy) Apply(req *http.Request, key string) {
	req.Header.Set("Authorization", "Bearer "+key)
}

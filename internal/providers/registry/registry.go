// Package registry maps provider names from configuration to translation
// providers.
package registry

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agentstation/lexicon/internal/providers/gemini"
	"github.com/agentstation/lexicon/internal/providers/openai"
	"github.com/agentstation/lexicon/internal/transport"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/translate"
)

// Settings configures a provider.
type Settings struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string // resolved from the environment when empty
	AuthScheme string
	AuthName   string
	Timeout    time.Duration
}

// Factory builds a provider from settings.
type Factory func(Settings) (translate.Provider, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)

	// apiKeyEnv lists the environment variables checked per provider, in order.
	apiKeyEnv = map[string][]string{
		openai.ProviderName: {"OPENAI_API_KEY"},
		gemini.ProviderName: {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}
)

func init() {
	Register(openai.ProviderName, func(s Settings) (translate.Provider, error) {
		var opts []transport.Option
		if s.Timeout > 0 {
			// leave headroom so the caller's context deadline fires first
			opts = append(opts, transport.WithTimeout(s.Timeout+s.Timeout/2))
		}
		return openai.NewClient(openai.Config{
			APIKey:     s.APIKey,
			BaseURL:    s.BaseURL,
			Model:      s.Model,
			AuthScheme: transport.AuthScheme(s.AuthScheme),
			AuthName:   s.AuthName,
		}, opts...)
	})
	Register(gemini.ProviderName, func(s Settings) (translate.Provider, error) {
		return gemini.NewClient(gemini.Config{
			APIKey:  s.APIKey,
			Model:   s.Model,
			BaseURL: s.BaseURL,
		})
	})
}

// Register adds or replaces the factory for name.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[strings.ToLower(name)] = f
}

// New builds the provider named in s.
func New(s Settings) (translate.Provider, error) {
	name := strings.ToLower(strings.TrimSpace(s.Provider))

	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.NewValidationError("provider", s.Provider,
			"unknown provider, expected one of: "+strings.Join(List(), ", "))
	}

	if s.APIKey == "" {
		s.APIKey = APIKeyFromEnv(name)
	}
	return f(s)
}

// APIKeyFromEnv returns the first non-empty key variable for provider.
func APIKeyFromEnv(provider string) string {
	for _, name := range apiKeyEnv[strings.ToLower(provider)] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Has reports whether a factory is registered for name.
func Has(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[strings.ToLower(name)]
	return ok
}

// List returns the registered provider names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
}

// HeaderAuth sends the key verbatim in a custom header, as Azure OpenAI
// deployments expect with "api-key".
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set(a.Header, apiKey)
}

// QueryAuth implements API key as query parameter authentication.
type QueryAuth struct {
	Param string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request, apiKey string) {
	if req.URL == nil {
		return
	}
	query := req.URL.Query()
	query.Set(a.Param, apiKey)
	req.URL.RawQuery = query.Encode()
}

// AuthScheme names an authentication style in configuration.
type AuthScheme string

const (
	AuthSchemeBearer AuthScheme = "bearer"
	AuthSchemeHeader AuthScheme = "header"
	AuthSchemeQuery  AuthScheme = "query"
	AuthSchemeNone   AuthScheme = "none"
)

// NewAuthenticator returns the authenticator for scheme. name is the header
// or query parameter for the header and query schemes; an unknown scheme
// falls back to bearer.
func NewAuthenticator(scheme AuthScheme, name string) Authenticator {
	switch scheme {
	case AuthSchemeNone:
		return &NoAuth{}
	case AuthSchemeHeader:
		if name == "" {
			name = "api-key"
		}
		return &HeaderAuth{Header: name}
	case AuthSchemeQuery:
		if name == "" {
			name = "key"
		}
		return &QueryAuth{Param: name}
	default:
		return &BearerAuth{}
	}
}

// Package translate defines the contract between the engine and a machine
// translation provider, and the batcher that drives a provider one locale at
// a time.
//
// A provider receives a Request holding the untranslated items of one locale
// and answers with a Response. Responses are validated as a whole: an empty,
// unparsable, or shapeless answer fails the batch, and a failed batch fails
// its locale. Other locales are unaffected.
package translate

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
)

// Item is one source phrase sent for translation.
type Item struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Request asks a provider to translate Items into Language.
type Request struct {
	Locale       string `json:"locale"`
	Language     string `json:"language"`
	Instructions string `json:"-"`
	Items        []Item `json:"items"`
}

// Keys returns the requested keys in order.
func (r *Request) Keys() []string {
	keys := make([]string, len(r.Items))
	for i, it := range r.Items {
		keys[i] = it.Key
	}
	return keys
}

// Result is one translated phrase. TranslatedValue is left untyped because
// providers do not always answer with a string.
type Result struct {
	Key             string `json:"key"`
	EN              string `json:"en"`
	TranslatedValue any    `json:"translated_value"`
	Locale          string `json:"locale"`
}

// Response is the provider's answer.
type Response struct {
	Result []Result `json:"result"`
}

// Provider translates requests.
type Provider interface {
	// Name identifies the provider in logs and errors.
	Name() string
	// Translate sends one batch. Implementations should honor ctx for
	// cancellation and deadlines.
	Translate(ctx context.Context, req *Request) (*Response, error)
}

// Entry is a remembered translation.
type Entry struct {
	Key   string
	Text  string
	Value any
}

// Memory stores accepted translations so reruns do not request them again.
// A remembered value is only valid for the exact source text it was
// translated from.
type Memory interface {
	Lookup(ctx context.Context, locale string, item Item) (any, bool, error)
	Save(ctx context.Context, locale, provider string, entries []Entry) error
}

// ParseResponse decodes a raw provider answer. Markdown code fences around
// the JSON document are tolerated. Anything that does not decode to an
// object with a result list is a ResponseError.
func ParseResponse(provider string, raw []byte) (*Response, error) {
	body := bytes.TrimSpace(stripFence(raw))
	if len(body) == 0 {
		return nil, errors.NewResponseError(provider, "empty response", nil)
	}

	var envelope struct {
		Result *[]Result `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		rerr := errors.NewResponseError(provider, "response is not a JSON object", err)
		rerr.Body = truncate(string(body))
		return nil, rerr
	}
	if envelope.Result == nil {
		rerr := errors.NewResponseError(provider, `response has no "result" list`, nil)
		rerr.Body = truncate(string(body))
		return nil, rerr
	}
	return &Response{Result: *envelope.Result}, nil
}

func stripFence(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = b[3:]
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}
	return bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
}

func truncate(s string) string {
	if len(s) <= constants.MaxErrorBodyLength {
		return s
	}
	return s[:constants.MaxErrorBodyLength] + "..."
}

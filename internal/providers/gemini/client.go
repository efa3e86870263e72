// Package gemini implements translate.Provider on the Google Gemini API
// through the GenAI SDK.
package gemini

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"

	"google.golang.org/genai"

	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/translate"
)

// ProviderName identifies this provider in configuration and logs.
const ProviderName = "gemini"

// Config holds the client settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional endpoint override, mostly for tests
}

// Client translates through Gemini. The GenAI client is created lazily on
// first use and reused.
type Client struct {
	cfg Config

	mu          sync.Mutex
	genaiClient *genai.Client
}

// NewClient creates a client. An API key is required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &errors.AuthenticationError{
			Provider: ProviderName,
			Method:   "api_key",
			Message:  "set GEMINI_API_KEY or GOOGLE_API_KEY to use Gemini",
		}
	}
	if cfg.Model == "" {
		cfg.Model = constants.DefaultGeminiModel
	}
	return &Client{cfg: cfg}, nil
}

// Name implements translate.Provider.
func (c *Client) Name() string {
	return ProviderName
}

// Model returns the configured model.
func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.genaiClient != nil {
		return c.genaiClient, nil
	}

	config := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.cfg.APIKey,
	}
	if c.cfg.BaseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: c.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, &errors.ConfigError{
			Component: ProviderName,
			Message:   "failed to create GenAI client",
			Err:       err,
		}
	}
	c.genaiClient = client
	return client, nil
}

// Translate implements translate.Provider. The instructions go out as the
// system instruction and the model is asked for a JSON response.
func (c *Client) Translate(ctx context.Context, req *translate.Request) (*translate.Response, error) {
	client, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	items, err := json.Marshal(req.Items)
	if err != nil {
		return nil, errors.WrapParse("json", "translation items", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.Instructions, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		ResponseMIMEType:  "application/json",
	}

	resp, err := client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(string(items)), config)
	if err != nil {
		return nil, convertError(ctx, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errors.NewResponseError(ProviderName, "response has no candidates", nil)
	}
	if reason := resp.Candidates[0].FinishReason; reason == genai.FinishReasonMaxTokens {
		return nil, errors.NewResponseError(ProviderName, "response was cut off at the token limit; lower batch_size", nil)
	}

	return translate.ParseResponse(ProviderName, []byte(resp.Text()))
}

// convertError maps SDK errors onto the shared error types so rate limits
// and outages are classified like every other provider.
func convertError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		return &errors.APIError{
			Provider:   ProviderName,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	var apiErrPtr *genai.APIError
	if stderrors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &errors.APIError{
			Provider:   ProviderName,
			StatusCode: apiErrPtr.Code,
			Message:    apiErrPtr.Message,
			Err:        err,
		}
	}
	return &errors.APIError{
		Provider: ProviderName,
		Message:  "request failed",
		Err:      err,
	}
}

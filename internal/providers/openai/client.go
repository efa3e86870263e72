// Package openai implements translate.Provider for OpenAI and any server that
// speaks the chat completions API (Azure OpenAI, vLLM, Ollama, LiteLLM).
package openai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/agentstation/lexicon/internal/transport"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/translate"
)

// ProviderName identifies this provider in configuration and logs.
const ProviderName = "openai"

// Config holds the client settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	AuthScheme transport.AuthScheme
	AuthName   string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Client talks to a chat completions endpoint.
type Client struct {
	transport *transport.Client
	baseURL   string
	model     string
}

// NewClient creates a client. A key is required when talking to the public
// OpenAI endpoint; self-hosted base URLs may run without one.
func NewClient(cfg Config, opts ...transport.Option) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultOpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = constants.DefaultOpenAIModel
	}
	if cfg.APIKey == "" && strings.TrimRight(cfg.BaseURL, "/") == constants.DefaultOpenAIBaseURL {
		return nil, &errors.AuthenticationError{
			Provider: ProviderName,
			Method:   "api_key",
			Message:  "set OPENAI_API_KEY to use the OpenAI API",
		}
	}

	auth := transport.NewAuthenticator(cfg.AuthScheme, cfg.AuthName)
	return &Client{
		transport: transport.New(ProviderName, auth, cfg.APIKey, opts...),
		baseURL:   cfg.BaseURL,
		model:     cfg.Model,
	}, nil
}

// Name implements translate.Provider.
func (c *Client) Name() string {
	return ProviderName
}

// Model returns the configured model.
func (c *Client) Model() string {
	return c.model
}

// Translate implements translate.Provider. The request items are sent as a
// JSON array in the user message and the model is asked for a JSON object.
func (c *Client) Translate(ctx context.Context, req *translate.Request) (*translate.Response, error) {
	items, err := json.Marshal(req.Items)
	if err != nil {
		return nil, errors.WrapParse("json", "translation items", err)
	}

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.Instructions},
			{Role: "user", Content: string(items)},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    0,
	}

	var resp chatResponse
	if err := c.transport.PostJSON(ctx, transport.Endpoint(c.baseURL, "chat/completions"), body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewResponseError(ProviderName, "response has no choices", nil)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		return nil, errors.NewResponseError(ProviderName, "response was cut off at the token limit; lower batch_size", nil)
	}
	return translate.ParseResponse(ProviderName, []byte(choice.Message.Content))
}

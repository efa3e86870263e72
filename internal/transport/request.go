package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/logging"
)

// Endpoint joins a base URL and a path with exactly one slash.
func Endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx statuses become an APIError carrying the start of the body.
func DecodeResponse(provider string, resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Debug().Err(err).Str("provider", provider).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := errors.NewAPIError(provider, resp.StatusCode, errorMessage(body))
		if resp.Request != nil && resp.Request.URL != nil {
			apiErr.Endpoint = resp.Request.URL.Redacted()
		}
		return apiErr
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.NewResponseError(provider, "response body is not valid JSON", err)
	}
	return nil
}

// errorMessage extracts {"error":{"message":...}} when present, and
// otherwise returns the truncated body.
func errorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > constants.MaxErrorBodyLength {
		msg = msg[:constants.MaxErrorBodyLength] + "..."
	}
	return msg
}

package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/nbcheck/pkg/errors"
	"github.com/agentstation/nbcheck/pkg/logging"
)

// maxErrorBody bounds how much of an error response is kept in messages.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into target. Non-2xx responses are
// returned as errors: 401 and 403 as *errors.AuthenticationError, anything
// else as *errors.APIError. A nil target discards the body.
func (c *Client) DecodeResponse(resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.FromContext(resp.Request.Context()).Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp, body)
	}

	if target == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", resp.Request.URL.Path, err)
	}
	return nil
}

func (c *Client) statusError(resp *http.Response, body []byte) error {
	message := strings.TrimSpace(string(body))
	if len(message) > maxErrorBody {
		message = message[:maxErrorBody] + "..."
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	apiErr := &errors.APIError{
		System:     c.system,
		StatusCode: resp.StatusCode,
		Message:    message,
		Endpoint:   resp.Request.Method + " " + resp.Request.URL.Path,
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.NewAuthenticationError(c.system, "token", message, apiErr)
	}
	return apiErr
}

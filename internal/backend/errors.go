package backend

import (
	"fmt"
	"strings"
)

// ConfigError reports a missing credential or setting for the selected
// provider. It is surfaced before any network call and never retried.
type ConfigError struct {
	Provider string
	Missing  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s is not configured", e.Provider, e.Missing)
}

// RequestError reports a failed round trip: a transport fault, a non-2xx
// status, or a body that lacks the expected translate payload. Fatal to the
// single call it occurred in.
type RequestError struct {
	Provider string
	Status   int
	Detail   string
	Cause    error
}

func (e *RequestError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s: request failed with status %d: %s", e.Provider, e.Status, e.Detail)
	case e.Cause != nil:
		return fmt.Sprintf("%s: request failed: %v", e.Provider, e.Cause)
	default:
		return fmt.Sprintf("%s: request failed: %s", e.Provider, e.Detail)
	}
}

func (e *RequestError) Unwrap() error { return e.Cause }

// ModelNotFoundError is returned by the Ollama preflight when the requested
// model is not installed on the server.
type ModelNotFoundError struct {
	Model     string
	Available []string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %q not found; available models: %s",
		e.Model, strings.Join(e.Available, ", "))
}

// internal/providers/provider.go

// Package providers defines the interface for sending a single prompt to an
// inference host and the error taxonomy shared by its implementations.
// The evaluation and benchmark pipelines depend only on this abstraction, so
// they can be exercised against a fake client in tests.
package providers

import (
	"context"
	"errors"
	"time"

	"github.com/mwiater/evalon/internal/appconfig"
)

var (
	// ErrModelUnavailable indicates the inference call could not complete:
	// connection refused, non-200 status, or a timed-out request.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrMalformedResponse indicates the host answered but the response was
	// missing the expected fields. It is an adapter failure like
	// ErrModelUnavailable; callers are not expected to distinguish further.
	ErrMalformedResponse = errors.New("malformed response")
)

// ChatResult holds the generated text and the wall-clock time of one call.
type ChatResult struct {
	Text    string
	Elapsed time.Duration
	// Model is the model name echoed by the host, when available.
	Model string
}

// ChatClient is the single inference boundary. Implementations issue one
// prompt and block until the full response is available. A failed call is
// never retried here; the caller decides whether the run aborts.
type ChatClient interface {
	Chat(ctx context.Context, host appconfig.Host, model, prompt string) (ChatResult, error)
	// Close cleans up any resources used by the client.
	Close() error
}

// ModelWarmer is implemented by clients that can preload a model before a
// run, so load time does not pollute the first measured response.
type ModelWarmer interface {
	EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error
}

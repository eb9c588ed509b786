package ports

import (
	"context"
	"time"
)

// TextProvider is the single capability the generative bridge consumes: an
// asynchronous prompt-to-text call. Implementations must honor context
// cancellation so a call that loses its timeout race can be wound down.
type TextProvider interface {
	GenerateText(ctx context.Context, prompt string, model string) (string, error)
}

// ProviderFunc adapts a plain function to TextProvider, so function-form and
// object-form providers normalize to one registered shape.
type ProviderFunc func(ctx context.Context, prompt string, model string) (string, error)

func (f ProviderFunc) GenerateText(ctx context.Context, prompt string, model string) (string, error) {
	return f(ctx, prompt, model)
}

// InvokeRequest names a registered provider and frames one call to it.
type InvokeRequest struct {
	Provider string
	Prompt   string
	Model    string

	// Timeout, when positive, races the call against a timer of that
	// duration.
	Timeout time.Duration

	// Fallback, when set, absorbs any failure mode (timeout or provider
	// error) and resolves the call with its value instead.
	Fallback *string
}

// GenerativeBridge resolves provider names lazily at invocation time and
// enforces the timeout and fallback discipline around each call.
// Registration is last-write-wins and legal at any time.
type GenerativeBridge interface {
	Register(name string, provider TextProvider)
	Invoke(ctx context.Context, req InvokeRequest) (string, error)
}

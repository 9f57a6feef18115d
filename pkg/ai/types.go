package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrGateway is matched by every failure returned from a Completer.
var ErrGateway = errors.New("language model gateway failure")

// Completer sends one prompt to a text-generation model and returns its raw reply.
// The reply may still be wrapped in markdown fences; callers strip them.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GatewayError wraps transport, status and empty-body failures from a provider.
type GatewayError struct {
	Provider string
	Model    string
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s gateway (%s): %v", e.Provider, e.Model, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrGateway so callers need not know the provider.
func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

func gatewayError(provider, model string, err error) error {
	return &GatewayError{Provider: provider, Model: model, Err: err}
}

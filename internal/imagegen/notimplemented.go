package imagegen

import "context"

// notImplemented is registered for a recognized model whose provider path
// is not available in the current deployment. Every request fails with a
// NotImplementedError.
type notImplemented struct {
	model Model
}

// NewNotImplemented creates a stub provider for a recognized model.
func NewNotImplemented(model Model) Generator {
	return &notImplemented{model: model}
}

func (n *notImplemented) Generate(ctx context.Context, prompt string) (*Image, error) {
	return nil, &NotImplementedError{Model: n.model}
}

func (n *notImplemented) Close() error {
	return nil
}

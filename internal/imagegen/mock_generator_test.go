package imagegen

import (
	"context"
)

// MockGenerator is a mock implementation of Generator.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (*Image, error)
	CloseFunc    func() error

	// Calls counts invocations of Generate.
	Calls int
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	m.Calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return &Image{}, nil
}

func (m *MockGenerator) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

package creation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptforge/studio/internal/imagegen"
)

// mockGenerator returns canned results per call.
type mockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, model imagegen.Model) (*imagegen.Image, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, model imagegen.Model) (*imagegen.Image, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, model)
	}
	return &imagegen.Image{Data: []byte("img"), MIMEType: "image/png"}, nil
}

func TestGenerate_Success(t *testing.T) {
	p := NewPipeline(&mockGenerator{}, nil)

	url, err := p.Generate(context.Background(), "a cat", imagegen.ModelGeminiFlashImage)
	require.NoError(t, err)

	assert.Equal(t, "data:image/png;base64,aW1n", url)
	assert.Equal(t, StateSucceeded, p.State())
	assert.Equal(t, url, p.ImageURL())
	assert.Empty(t, p.LastError())

	history := p.History()
	require.Len(t, history, 1)
	assert.Equal(t, url, history[0].Src)
	assert.Equal(t, "a cat", history[0].Prompt)
}

func TestGenerate_EmptyPromptGuard(t *testing.T) {
	p := NewPipeline(&mockGenerator{}, nil)

	_, err := p.Generate(context.Background(), "", imagegen.ModelGeminiFlashImage)
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Equal(t, StateIdle, p.State())
}

func TestGenerate_FailureStoresMessageVerbatim(t *testing.T) {
	upstream := errors.New("quota exceeded for project")
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, model imagegen.Model) (*imagegen.Image, error) {
			return nil, upstream
		},
	}
	p := NewPipeline(gen, nil)

	_, err := p.Generate(context.Background(), "a cat", imagegen.ModelGeminiFlashImage)
	require.Error(t, err)

	assert.Equal(t, StateFailed, p.State())
	assert.Equal(t, "quota exceeded for project", p.LastError())
	assert.Empty(t, p.ImageURL())
	assert.Empty(t, p.History(), "failures must not touch history")

	// Failed is not terminal.
	_, err = p.Generate(context.Background(), "a cat", imagegen.ModelGeminiFlashImage)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, p.State())
	assert.Empty(t, p.LastError(), "entering Generating clears the prior error")
}

func TestGenerate_HistoryNewestFirstWithSnapshots(t *testing.T) {
	var n int
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, model imagegen.Model) (*imagegen.Image, error) {
			n++
			return &imagegen.Image{Data: []byte(fmt.Sprintf("img-%d", n)), MIMEType: "image/png"}, nil
		},
	}
	p := NewPipeline(gen, nil)

	prompts := []string{"first prompt", "second prompt", "third prompt"}
	for _, prompt := range prompts {
		_, err := p.Generate(context.Background(), prompt, imagegen.ModelGeminiFlashImage)
		require.NoError(t, err)
	}

	history := p.History()
	require.Len(t, history, 3)
	assert.Equal(t, "third prompt", history[0].Prompt, "index 0 is the most recent")
	assert.Equal(t, "second prompt", history[1].Prompt)
	assert.Equal(t, "first prompt", history[2].Prompt)
}

func TestGenerate_NoDeduplication(t *testing.T) {
	p := NewPipeline(&mockGenerator{}, nil)

	for i := 0; i < 2; i++ {
		_, err := p.Generate(context.Background(), "same prompt", imagegen.ModelGeminiFlashImage)
		require.NoError(t, err)
	}

	assert.Len(t, p.History(), 2, "re-submitting the same prompt produces independent entries")
}

func TestGenerate_SingleInFlightGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, model imagegen.Model) (*imagegen.Image, error) {
			close(started)
			<-release
			return &imagegen.Image{Data: []byte("img"), MIMEType: "image/png"}, nil
		},
	}
	p := NewPipeline(gen, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := p.Generate(context.Background(), "a cat", imagegen.ModelGeminiFlashImage)
		assert.NoError(t, err)
	}()

	<-started
	assert.Equal(t, StateGenerating, p.State())

	_, err := p.Generate(context.Background(), "a cat", imagegen.ModelGeminiFlashImage)
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	close(release)
	wg.Wait()

	assert.Len(t, p.History(), 1, "the rejected request must not add an entry")
}

func TestClear_KeepsHistory(t *testing.T) {
	p := NewPipeline(&mockGenerator{}, nil)

	_, err := p.Generate(context.Background(), "a cat", imagegen.ModelGeminiFlashImage)
	require.NoError(t, err)

	p.Clear()
	assert.Equal(t, StateIdle, p.State())
	assert.Empty(t, p.ImageURL())
	assert.Empty(t, p.LastError())
	assert.Len(t, p.History(), 1, "history survives a session reset")
}

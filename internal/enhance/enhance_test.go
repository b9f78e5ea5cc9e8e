package enhance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type mockContentGenerator struct {
	response *genai.GenerateContentResponse
	err      error

	calls      int
	lastModel  string
	lastPrompt string
	lastConfig *genai.GenerateContentConfig
}

func (m *mockContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		m.lastPrompt = contents[0].Parts[0].Text
	}
	return m.response, m.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestEnhance_InterpolatesIdeaIntoTemplate(t *testing.T) {
	mock := &mockContentGenerator{
		response: textResponse("A photorealistic close-up of a cat sitting on a windowsill."),
	}
	svc := NewWithContentGenerator(mock, nil)

	reply, err := svc.Enhance(context.Background(), "a cat on a windowsill")
	require.NoError(t, err)

	assert.Equal(t, "A photorealistic close-up of a cat sitting on a windowsill.", reply)
	assert.Equal(t, APIModelFlash, mock.lastModel)
	assert.Contains(t, mock.lastPrompt, `User input: "a cat on a windowsill"`)
	assert.Contains(t, mock.lastPrompt, "photorealistic [shot type]")
	assert.False(t, strings.Contains(mock.lastPrompt, "{prompt}"),
		"placeholder must be replaced")
}

func TestEnhance_DisablesSafetyFiltering(t *testing.T) {
	mock := &mockContentGenerator{response: textResponse("ok")}
	svc := NewWithContentGenerator(mock, nil)

	_, err := svc.Enhance(context.Background(), "a cat")
	require.NoError(t, err)

	require.NotNil(t, mock.lastConfig)
	require.Len(t, mock.lastConfig.SafetySettings, 4)
	for _, setting := range mock.lastConfig.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdBlockNone, setting.Threshold)
	}
}

func TestEnhance_NotConfigured(t *testing.T) {
	svc := New(nil, nil)

	_, err := svc.Enhance(context.Background(), "a cat")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestEnhance_EmptyIdea(t *testing.T) {
	mock := &mockContentGenerator{response: textResponse("ok")}
	svc := NewWithContentGenerator(mock, nil)

	_, err := svc.Enhance(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyIdea)
	assert.Zero(t, mock.calls)
}

func TestEnhance_EmptyReplyIsAFailure(t *testing.T) {
	mock := &mockContentGenerator{response: textResponse("  \n ")}
	svc := NewWithContentGenerator(mock, nil)

	_, err := svc.Enhance(context.Background(), "a cat")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestEnhance_UpstreamError(t *testing.T) {
	upstream := errors.New("503 service unavailable")
	mock := &mockContentGenerator{err: upstream}
	svc := NewWithContentGenerator(mock, nil)

	_, err := svc.Enhance(context.Background(), "a cat")
	assert.ErrorIs(t, err, upstream)
}

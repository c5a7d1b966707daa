package triage

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pb2jamz/Signal-Sorter/models"
	"github.com/pb2jamz/Signal-Sorter/pkg/llm"
)

// fakeClient returns a scripted sequence of responses, one per call.
type fakeClient struct {
	responses []fakeResponse
	calls     int
	lastReq   llm.CompletionRequest
}

type fakeResponse struct {
	content string
	err     error
}

func (f *fakeClient) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastReq = req
	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++
	r := f.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &llm.CompletionResponse{Content: r.content}, nil
}

func newTestEngine(client llm.Client) *Engine {
	cfg := DefaultConfig()
	cfg.RetryBaseDelay = time.Millisecond
	return NewEngine(client, cfg, zerolog.Nop())
}

const classifyReply = "Sorted.\n\n```json\n" +
	`{"items": [{"name": "Ship release", "classification": "SIGNAL", "next": "Merge PR"}]}` +
	"\n```\n\nTop signal: Ship release"

func TestEngineAnalyzeClassify(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{content: classifyReply}}}
	e := newTestEngine(client)

	a, err := e.Analyze(context.Background(), "I need to ship the release", models.Profile{Name: "Dana"}, nil, nil, ModeClassify)
	require.NoError(t, err)
	assert.Equal(t, classifyReply, a.ResponseText)
	require.Len(t, a.NewItems, 1)
	assert.Equal(t, "Ship release", a.NewItems[0].Name)
	assert.Empty(t, a.Updates)

	assert.Contains(t, client.lastReq.SystemMsg, "Dana")
	require.Len(t, client.lastReq.Messages, 1)
	assert.Equal(t, "I need to ship the release", client.lastReq.Messages[0].Content)
}

func TestEngineAnalyzeReclassifies(t *testing.T) {
	reply := "```json\n" +
		`{"items": [{"name": "Review the budget", "classification": "SIGNAL"}]}` +
		"\n```"
	client := &fakeClient{responses: []fakeResponse{{content: reply}}}
	e := newTestEngine(client)

	active := []models.Item{item("Review budget", models.ClassNecessary)}
	a, err := e.Analyze(context.Background(), "budget is now urgent", models.Profile{}, active, nil, ModeClassify)
	require.NoError(t, err)
	assert.Empty(t, a.NewItems)
	require.Len(t, a.Updates, 1)
	assert.Equal(t, models.ClassSignal, a.Updates[0].Classification)
}

func TestEngineAnalyzeReprioritize(t *testing.T) {
	reply := "Attack the release first. Let the desk wait.\n\n🟢 SIGNAL: Ship release"
	client := &fakeClient{responses: []fakeResponse{{content: reply}}}
	e := newTestEngine(client)

	a, err := e.Analyze(context.Background(), "what should I do first?", models.Profile{},
		[]models.Item{item("Ship release", models.ClassSignal)}, nil, ModeReprioritize)
	require.NoError(t, err)
	assert.Equal(t, reply, a.ResponseText)
	assert.Empty(t, a.NewItems, "reprioritize never extracts items")
	assert.Empty(t, a.Updates)
}

func TestEngineRetriesTransient(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{err: &llm.APIError{Provider: llm.ProviderAnthropic, StatusCode: 503}},
		{content: classifyReply},
	}}
	e := newTestEngine(client)

	a, err := e.Analyze(context.Background(), "hello", models.Profile{}, nil, nil, ModeClassify)
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
	assert.Len(t, a.NewItems, 1)
}

func TestEngineGivesUpAfterMaxRetries(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{err: &llm.APIError{Provider: llm.ProviderAnthropic, StatusCode: 500}},
	}}
	e := newTestEngine(client)

	_, err := e.Analyze(context.Background(), "hello", models.Profile{}, nil, nil, ModeClassify)
	require.Error(t, err)
	assert.Equal(t, DefaultConfig().MaxRetries+1, client.calls)
	var apiErr *llm.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestEnginePermanentErrorNoRetry(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{err: &llm.APIError{Provider: llm.ProviderOpenAI, StatusCode: 401}},
	}}
	e := newTestEngine(client)

	_, err := e.Analyze(context.Background(), "hello", models.Profile{}, nil, nil, ModeClassify)
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestEngineEmptyCompletionNoRetry(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{content: ""}}}
	e := newTestEngine(client)

	_, err := e.Analyze(context.Background(), "hello", models.Profile{}, nil, nil, ModeClassify)
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
	assert.Equal(t, 1, client.calls)
}

func TestEngineContextCancelledDuringBackoff(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{err: &llm.APIError{Provider: llm.ProviderAnthropic, StatusCode: 503}},
	}}
	cfg := DefaultConfig()
	cfg.RetryBaseDelay = time.Minute
	e := NewEngine(client, cfg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Analyze(ctx, "hello", models.Profile{}, nil, nil, ModeClassify)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, client.calls)
}

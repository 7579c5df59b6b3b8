package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/config"
	dm "github.com/iWorld-y/idea_radar/app/idea_radar/pkg/model"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/prompt"
)

// stubChat 模拟 ChatModel
type stubChat struct {
	resp  *schema.Message
	err   error
	calls int
	input []*schema.Message
	opts  *model.Options
}

func (s *stubChat) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	s.calls++
	s.input = input
	s.opts = model.GetCommonOptions(nil, opts...)
	return s.resp, s.err
}

func (s *stubChat) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

var task = dm.Task{ID: dm.FinanceAndTech, Prompt: "analyze this"}

func TestClient_Complete_Success(t *testing.T) {
	chat := &stubChat{resp: schema.AssistantMessage(`{"finance": []}`, nil)}
	c := New(chat, WithMaxTokens(900), WithTemperature(0.25))

	text, err := c.Complete(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, `{"finance": []}`, text)
	assert.Equal(t, 1, chat.calls)

	require.Len(t, chat.input, 2)
	assert.Equal(t, schema.System, chat.input[0].Role)
	assert.Equal(t, prompt.SystemPrompt, chat.input[0].Content)
	assert.Equal(t, schema.User, chat.input[1].Role)
	assert.Equal(t, "analyze this", chat.input[1].Content)

	require.NotNil(t, chat.opts.MaxTokens)
	assert.Equal(t, 900, *chat.opts.MaxTokens)
	require.NotNil(t, chat.opts.Temperature)
	assert.InDelta(t, 0.25, *chat.opts.Temperature, 1e-6)
}

func TestClient_Complete_TransportError(t *testing.T) {
	cause := errors.New("connection refused")
	c := New(&stubChat{err: cause})

	_, err := c.Complete(context.Background(), task)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, dm.FinanceAndTech, te.Task)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "transport", Kind(err))
}

func TestClient_Complete_ProtocolError(t *testing.T) {
	_, err := New(&stubChat{resp: nil}).Complete(context.Background(), task)
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, dm.FinanceAndTech, pe.Task)
	assert.Equal(t, "protocol", Kind(err))
}

func TestClient_Complete_BlankContentPassesThrough(t *testing.T) {
	for _, content := range []string{"", "  \n"} {
		text, err := New(&stubChat{resp: schema.AssistantMessage(content, nil)}).Complete(context.Background(), task)
		require.NoError(t, err)
		assert.Equal(t, content, text)
	}
}

func TestClient_Complete_CancelledLimiter(t *testing.T) {
	limiter := NewLimiter(config.ConcurrencyConfig{RPM: 1, QPS: 1})
	require.NotNil(t, limiter)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chat := &stubChat{resp: schema.AssistantMessage("{}", nil)}
	_, err := New(chat, WithLimiter(limiter)).Complete(ctx, task)
	assert.Equal(t, "transport", Kind(err))
	assert.Equal(t, 0, chat.calls)
}

func TestNewLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewLimiter(config.ConcurrencyConfig{}))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "ok", Kind(nil))
	assert.Equal(t, "other", Kind(errors.New("x")))
}

func TestNewOpenAIClient_MissingKey(t *testing.T) {
	_, err := NewOpenAIClient(context.Background(), &config.Config{})
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestNewOpenAIClient_Envelope(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"swot_analysis\": {}}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	cfg := &config.Config{LLM: config.LLMConfig{
		BaseURL:     srv.URL + "/v1",
		APIKey:      "secret",
		Model:       "test-model",
		MaxTokens:   100,
		Temperature: 0.3,
	}}
	c, err := NewOpenAIClient(context.Background(), cfg)
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), dm.Task{ID: dm.SWOT, Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, `{"swot_analysis": {}}`, text)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestNewOpenAIClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "upstream exploded", "type": "server_error"}}`))
	}))
	defer srv.Close()

	cfg := &config.Config{LLM: config.LLMConfig{BaseURL: srv.URL + "/v1", APIKey: "secret", Model: "m", MaxTokens: 10, Temperature: 0.3}}
	c, err := NewOpenAIClient(context.Background(), cfg)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), dm.Task{ID: dm.SWOT, Prompt: "p"})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, dm.SWOT, te.Task)
}

func newEnvelopeClient(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{LLM: config.LLMConfig{BaseURL: srv.URL + "/v1", APIKey: "secret", Model: "m", MaxTokens: 10, Temperature: 0.3}}
	c, err := NewOpenAIClient(context.Background(), cfg)
	require.NoError(t, err)
	return c
}

func TestNewOpenAIClient_EmptyChoices(t *testing.T) {
	c := newEnvelopeClient(t, `{"id": "chatcmpl-1", "object": "chat.completion", "created": 1700000000, "model": "m", "choices": []}`)

	_, err := c.Complete(context.Background(), dm.Task{ID: dm.SWOT, Prompt: "p"})
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, dm.SWOT, pe.Task)
	assert.Equal(t, "protocol", Kind(err))
}

func TestNewOpenAIClient_WhitespaceContent(t *testing.T) {
	c := newEnvelopeClient(t, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "m",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "  \n"}, "finish_reason": "stop"}]
	}`)

	text, err := c.Complete(context.Background(), dm.Task{ID: dm.SWOT, Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "  \n", text)
}

// Package llm 调用外部补全服务，每个任务一次请求，不重试。
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/config"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/logger"
	dm "github.com/iWorld-y/idea_radar/app/idea_radar/pkg/model"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/prompt"
)

// Completer 返回任务对应的原始生成文本
type Completer interface {
	Complete(ctx context.Context, task dm.Task) (string, error)
}

// Client 基于 eino ChatModel 的补全客户端
type Client struct {
	chat        model.BaseChatModel
	maxTokens   int
	temperature float32
	limiter     *rate.Limiter
}

var _ Completer = (*Client)(nil)

// Option 客户端选项
type Option func(*Client)

// WithMaxTokens 输出长度上限
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithTemperature 采样温度
func WithTemperature(t float32) Option {
	return func(c *Client) { c.temperature = t }
}

// WithLimiter 调用前等待限流器，nil 表示不限流
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// New 使用已有的 ChatModel 创建客户端
func New(chat model.BaseChatModel, opts ...Option) *Client {
	c := &Client{
		chat:        chat,
		maxTokens:   config.DefaultMaxTokens,
		temperature: config.DefaultTemperature,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewOpenAIClient 按配置创建 OpenAI 兼容的补全客户端
func NewOpenAIClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.LLM.APIKey == "" {
		return nil, config.ErrMissingAPIKey
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	return New(chatModel,
		WithMaxTokens(cfg.LLM.MaxTokens),
		WithTemperature(cfg.LLM.Temperature),
		WithLimiter(NewLimiter(cfg.Concurrency)),
	), nil
}

// NewLimiter RPM 为 0 时不限流
func NewLimiter(cc config.ConcurrencyConfig) *rate.Limiter {
	if cc.RPM <= 0 {
		return nil
	}
	burst := cc.QPS
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(float64(cc.RPM) / 60.0)
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limit, burst)
	return rate.NewLimiter(limit, burst)
}

// Complete 发送一次请求并返回未解析的生成文本
func (c *Client) Complete(ctx context.Context, task dm.Task) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &TransportError{Task: task.ID, Err: err}
		}
	}

	messages := []*schema.Message{
		schema.SystemMessage(prompt.SystemPrompt),
		schema.UserMessage(task.Prompt),
	}

	resp, err := c.chat.Generate(ctx, messages,
		model.WithMaxTokens(c.maxTokens),
		model.WithTemperature(c.temperature),
	)
	if err != nil {
		if isEnvelopeError(err) {
			return "", &ProtocolError{Task: task.ID, Reason: err.Error()}
		}
		return "", &TransportError{Task: task.ID, Err: err}
	}
	// 空白内容照常返回，由归一化包裹成 {"response": ...}
	if resp == nil {
		return "", &ProtocolError{Task: task.ID, Reason: "empty response message"}
	}

	logger.Log.Debugf("章节 [%s] 返回 %d 字节", task.ID, len(resp.Content))
	return resp.Content, nil
}

// eino-ext 在响应缺少 choices 时返回的错误
const emptyChoicesMsg = "received empty choices"

func isEnvelopeError(err error) bool {
	return strings.Contains(err.Error(), emptyChoicesMsg)
}

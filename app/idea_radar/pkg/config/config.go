package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultBaseURL     = "https://api.ai71.ai/v1"
	DefaultModel       = "tiiuae/falcon-180B-chat"
	DefaultMaxTokens   = 1500
	DefaultTemperature = float32(0.3)
	DefaultHTTPAddr    = "0.0.0.0:8000"
	DefaultHTTPTimeout = "300s"
	DefaultLogLevel    = "info"
	DefaultCORSOrigin  = "http://localhost:3000"
)

// 环境变量，优先级高于配置文件
const (
	EnvAPIKey       = "IDEA_RADAR_LLM_API_KEY"
	EnvLegacyAPIKey = "FALCON_API_KEY"
	EnvBaseURL      = "IDEA_RADAR_LLM_BASE_URL"
	EnvModel        = "IDEA_RADAR_LLM_MODEL"
)

// ErrMissingAPIKey 未配置 LLM 密钥
var ErrMissingAPIKey = errors.New("配置错误: 未设置 llm.api_key")

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Dispatch    DispatchConfig    `yaml:"dispatch"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// ServerConfig 服务监听配置
type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http"`
	GRPC GRPCConfig `yaml:"grpc"`
	CORS CORSConfig `yaml:"cors"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// GRPCConfig gRPC 服务配置，Addr 为空则不启动
type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置，RPM 为 0 时不限流
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DispatchConfig 派发策略
type DispatchConfig struct {
	// Partial 为 true 时单个章节失败不会中断整份报告
	Partial bool `yaml:"partial"`
}

// LoadConfig 从指定路径加载配置，路径为空时只使用默认值和环境变量
func LoadConfig(path string) (*Config, error) {
	// temperature 为 0 是合法取值，只能在解析前预置默认值
	cfg := Config{LLM: LLMConfig{Temperature: DefaultTemperature}}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLegacyAPIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.LLM.Model = v
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = DefaultBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}
	if c.Server.HTTP.Addr == "" {
		c.Server.HTTP.Addr = DefaultHTTPAddr
	}
	if c.Server.HTTP.Timeout == "" {
		c.Server.HTTP.Timeout = DefaultHTTPTimeout
	}
	if len(c.Server.CORS.AllowedOrigins) == 0 {
		c.Server.CORS.AllowedOrigins = []string{DefaultCORSOrigin}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate 启动前检查必填项
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.LLM.Temperature < 0 {
		return fmt.Errorf("配置错误: llm.temperature 不能为负数 (%v)", c.LLM.Temperature)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/config"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/engine"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/llm"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/logger"
)

// loadConfig 默认配置文件不存在时只使用默认值和环境变量
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConf {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("无法初始化日志: %w", err)
	}
	return cfg, nil
}

// newEngine 按配置组装补全客户端和引擎
func newEngine(ctx context.Context, cfg *config.Config, opts ...engine.Option) (*engine.Engine, error) {
	client, err := llm.NewOpenAIClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, engine.WithPartialResults(cfg.Dispatch.Partial))
	return engine.NewEngine(client, opts...), nil
}

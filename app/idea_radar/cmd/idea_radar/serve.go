package main

import (
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/idea_radar/app/idea_radar/internal/server"
	"github.com/iWorld-y/idea_radar/app/idea_radar/internal/service"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/engine"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/logger"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/status"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and progress stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flagconf)
			if err != nil {
				return err
			}

			// 初始化日志记录器，包含时间戳、调用者信息、服务ID等上下文
			klog := log.With(log.NewStdLogger(os.Stdout),
				"ts", log.DefaultTimestamp,
				"caller", log.DefaultCaller,
				"service.id", id,
				"service.name", Name,
				"service.version", Version,
			)

			hub := status.NewHub(cfg.Server.CORS.AllowedOrigins)
			defer hub.Close()

			eng, err := newEngine(cmd.Context(), cfg, engine.WithNotifier(hub))
			if err != nil {
				return err
			}
			svc := service.NewAnalyzeService(eng, klog)

			servers := []transport.Server{server.NewHTTPServer(&cfg.Server, svc, hub, klog)}
			if gs := server.NewGRPCServer(&cfg.Server, klog); gs != nil {
				servers = append(servers, gs)
			}

			app := kratos.New(
				kratos.ID(id),
				kratos.Name(Name),
				kratos.Version(Version),
				kratos.Metadata(map[string]string{}),
				kratos.Logger(klog),
				kratos.Server(servers...),
			)
			logger.Log.Infof("启动创业想法分析服务, 监听 %s", cfg.Server.HTTP.Addr)
			return app.Run()
		},
	}
}

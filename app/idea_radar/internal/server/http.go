package server

import (
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/gorilla/handlers"

	"github.com/iWorld-y/idea_radar/app/idea_radar/internal/service"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/config"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/metrics"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/status"
)

// NewHTTPServer 注册分析接口、进度推送和指标
func NewHTTPServer(c *config.ServerConfig, s *service.AnalyzeService, hub *status.Hub, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		http.Filter(CORS(c.CORS.AllowedOrigins)),
		// /analyze_idea/ 不能重定向到 /analyze_idea
		http.StrictSlash(false),
	}
	if c.HTTP.Addr != "" {
		opts = append(opts, http.Address(c.HTTP.Addr))
	}
	if c.HTTP.Timeout != "" {
		if d, err := time.ParseDuration(c.HTTP.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	service.RegisterAnalyzeHTTPServer(srv, s)
	srv.HandleFunc("/ws", hub.ServeWS)
	srv.Handle("/metrics", metrics.Handler())
	return srv
}

// CORS 允许配置中的来源携带凭证访问，预检请求返回 204
func CORS(origins []string) http.FilterFunc {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowCredentials(),
		handlers.AllowedMethods([]string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodPut, nethttp.MethodDelete, nethttp.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
		handlers.OptionStatusCode(nethttp.StatusNoContent),
	)
}

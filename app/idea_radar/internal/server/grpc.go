package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	kgrpc "github.com/go-kratos/kratos/v2/transport/grpc"
	"google.golang.org/grpc"

	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/config"
)

const maxRecvMsgSize = 4 << 20

// NewGRPCServer 只提供 grpc.health.v1，未配置地址时返回 nil
func NewGRPCServer(c *config.ServerConfig, logger log.Logger) *kgrpc.Server {
	if c.GRPC.Addr == "" {
		return nil
	}
	opts := []kgrpc.ServerOption{
		kgrpc.Address(c.GRPC.Addr),
		kgrpc.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		kgrpc.Options(grpc.MaxRecvMsgSize(maxRecvMsgSize)),
	}
	if c.HTTP.Timeout != "" {
		if d, err := time.ParseDuration(c.HTTP.Timeout); err == nil {
			opts = append(opts, kgrpc.Timeout(d))
		}
	}
	return kgrpc.NewServer(opts...)
}

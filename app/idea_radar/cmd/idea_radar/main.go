package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/logger"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name = "idea_radar"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

const defaultConf = "app/idea_radar/configs/config.yaml"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           Name,
		Short:         "Business idea analysis service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagconf, "conf", defaultConf, "config path, eg: --conf config.yaml")

	root.AddCommand(newServeCmd(), newAnalyzeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Log.Errorf("%v", err)
		os.Exit(1)
	}
}

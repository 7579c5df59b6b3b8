package main

import (
	"encoding/json"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/idea_radar/app/idea_radar/internal/service"
	dm "github.com/iWorld-y/idea_radar/app/idea_radar/pkg/model"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/render"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		req      dm.AnalysisRequest
		htmlPath string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one idea and print the report as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			cfg, err := loadConfig(flagconf)
			if err != nil {
				return err
			}
			eng, err := newEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			outcome, err := eng.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}

			if htmlPath != "" {
				if err := render.WriteFile(htmlPath, render.NewPageData(req, outcome, time.Now())); err != nil {
					return err
				}
			}

			return writeReport(cmd.OutOrStdout(), outcome)
		},
	}
	cmd.Flags().StringVar(&req.Idea, "idea", "", "startup idea")
	cmd.Flags().StringVar(&req.Country, "country", "", "target country")
	cmd.Flags().StringVar(&req.City, "city", "", "target city")
	cmd.Flags().StringVar(&htmlPath, "html", "", "also render the report to this HTML file, eg: output/index.html")
	return cmd
}

// writeReport 输出与 HTTP 接口相同的 JSON，部分结果模式下包含 failed_sections
func writeReport(w io.Writer, outcome *dm.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(service.ResponseBody(outcome))
}

package engine

import (
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/logger"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/metrics"
	dm "github.com/iWorld-y/idea_radar/app/idea_radar/pkg/model"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/normalize"
)

// Aggregate 把各章节结果投影到一份报告，格式异常的章节只记录日志并保留空值
func Aggregate(results []dm.NormalizedResult) dm.Report {
	report := dm.NewReport()
	for _, res := range results {
		project(report, res)
	}
	return report
}

func project(report dm.Report, res dm.NormalizedResult) {
	// 未知章节在 Fields 中 panic
	fields := res.ID.Fields()

	data, ok := res.Data.(map[string]any)
	if !ok || normalize.IsFallback(res.Data) {
		logger.Log.Warnf("章节 [%s] 返回内容不是预期的 JSON 对象 (%T)，使用空值", res.ID, res.Data)
		metrics.ContentAnomalies.WithLabelValues(res.ID.String()).Inc()
		for _, f := range fields {
			report[f] = dm.EmptyValue(f)
		}
		return
	}

	missing := 0
	for _, f := range fields {
		v, present := data[f]
		if !present || v == nil {
			missing++
			report[f] = dm.EmptyValue(f)
			continue
		}
		report[f] = v
	}
	if missing > 0 {
		logger.Log.Debugf("章节 [%s] 缺少 %d 个字段", res.ID, missing)
	}
}

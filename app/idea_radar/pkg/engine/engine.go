package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/llm"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/logger"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/metrics"
	dm "github.com/iWorld-y/idea_radar/app/idea_radar/pkg/model"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/normalize"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/prompt"
)

// Notifier 接收进度消息，投递尽力而为
type Notifier interface {
	Notify(status string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

// Engine 核心处理引擎：渲染提示词、分组派发、归一化、合并
type Engine struct {
	completer llm.Completer
	notifier  Notifier
	partial   bool
}

// Option 引擎选项
type Option func(*Engine)

// WithNotifier 设置进度推送
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithPartialResults 单个章节失败时继续生成其余章节
func WithPartialResults(partial bool) Option {
	return func(e *Engine) { e.partial = partial }
}

// NewEngine 创建引擎实例
func NewEngine(completer llm.Completer, opts ...Option) *Engine {
	e := &Engine{
		completer: completer,
		notifier:  nopNotifier{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze 执行一次完整分析：两个批次顺序执行，批次内并发
func (e *Engine) Analyze(ctx context.Context, req dm.AnalysisRequest) (*dm.Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := logger.Log.WithField("analysis", uuid.NewString())
	log.Infof("收到创业想法: %s (%s, %s)", req.Idea, req.City, req.Country)
	e.notifier.Notify(fmt.Sprintf("Starting analysis for %s in %s, %s", req.Idea, req.City, req.Country))

	metrics.AnalysesActive.Inc()
	defer metrics.AnalysesActive.Dec()

	tasks := make(map[dm.TaskID]dm.Task)
	for _, t := range prompt.BuildAll(req) {
		tasks[t.ID] = t
	}

	var results []dm.NormalizedResult
	var failures []dm.TaskFailure

	groups := dm.Groups()
	for i, ids := range groups {
		group := make([]dm.Task, 0, len(ids))
		for _, id := range ids {
			group = append(group, tasks[id])
		}

		e.notifier.Notify(fmt.Sprintf("Analyzing section group %d of %d", i+1, len(groups)))
		log.Infof("开始派发第 %d 组，共 %d 个章节", i+1, len(group))

		if e.partial {
			res, failed := e.dispatchIsolated(ctx, group, log)
			results = append(results, res...)
			failures = append(failures, failed...)
			continue
		}

		res, err := e.DispatchGroup(ctx, group)
		if err != nil {
			log.Errorf("第 %d 组派发失败: %v", i+1, err)
			e.notifier.Notify("Analysis failed")
			return nil, err
		}
		results = append(results, res...)
	}

	outcome := &dm.Outcome{Report: Aggregate(results), Failed: failures}

	if len(failures) > 0 {
		log.Warnf("分析完成，%d 个章节失败", len(failures))
		e.notifier.Notify(fmt.Sprintf("Analysis completed with %d failed sections", len(failures)))
	} else {
		log.Info("分析完成")
		e.notifier.Notify("Analysis completed")
	}
	return outcome, nil
}

// DispatchGroup 并发执行一组任务，全部完成后返回；任一失败则取消整组并返回该错误
func (e *Engine) DispatchGroup(ctx context.Context, tasks []dm.Task) ([]dm.NormalizedResult, error) {
	results := make([]dm.NormalizedResult, len(tasks))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		eg.Go(func() error {
			res, err := e.run(egCtx, task)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// dispatchIsolated 与 DispatchGroup 相同的并发方式，但失败只影响对应章节
func (e *Engine) dispatchIsolated(ctx context.Context, tasks []dm.Task, log *logrus.Entry) ([]dm.NormalizedResult, []dm.TaskFailure) {
	results := make([]dm.NormalizedResult, len(tasks))
	errs := make([]error, len(tasks))

	var eg errgroup.Group
	for i, task := range tasks {
		eg.Go(func() error {
			results[i], errs[i] = e.run(ctx, task)
			return nil
		})
	}
	_ = eg.Wait()

	var ok []dm.NormalizedResult
	var failed []dm.TaskFailure
	for i, err := range errs {
		if err != nil {
			log.Errorf("章节 [%s] 失败: %v", tasks[i].ID, err)
			failed = append(failed, dm.TaskFailure{ID: tasks[i].ID, Error: err.Error()})
			continue
		}
		ok = append(ok, results[i])
	}
	return ok, failed
}

// run 单个任务：调用补全服务再归一化
func (e *Engine) run(ctx context.Context, task dm.Task) (dm.NormalizedResult, error) {
	start := time.Now()
	text, err := e.completer.Complete(ctx, task)
	metrics.SectionDuration.WithLabelValues(task.ID.String()).Observe(time.Since(start).Seconds())
	metrics.SectionsCompleted.WithLabelValues(task.ID.String(), outcomeLabel(err)).Inc()
	if err != nil {
		return dm.NormalizedResult{}, err
	}

	e.notifier.Notify(fmt.Sprintf("Section %s completed", task.ID))
	return dm.NormalizedResult{ID: task.ID, Data: normalize.Normalize(text)}, nil
}

func outcomeLabel(err error) string {
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return llm.Kind(err)
}

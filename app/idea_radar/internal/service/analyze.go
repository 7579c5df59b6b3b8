package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"strings"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	dm "github.com/iWorld-y/idea_radar/app/idea_radar/pkg/model"
)

// FailedSectionsKey 部分结果模式下附加在报告中的失败章节列表
const FailedSectionsKey = "failed_sections"

// OperationAnalyzeIdea 中间件中可见的操作名
const OperationAnalyzeIdea = "/idea_radar.v1.Analyze/AnalyzeIdea"

// Analyzer 由 engine.Engine 实现
type Analyzer interface {
	Analyze(ctx context.Context, req dm.AnalysisRequest) (*dm.Outcome, error)
}

// AnalyzeService 处理 /analyze_idea
type AnalyzeService struct {
	analyzer Analyzer
	log      *log.Helper
}

func NewAnalyzeService(analyzer Analyzer, logger log.Logger) *AnalyzeService {
	return &AnalyzeService{
		analyzer: analyzer,
		log:      log.NewHelper(logger),
	}
}

// RegisterAnalyzeHTTPServer 以 kratos 路由注册，使服务端中间件生效
func RegisterAnalyzeHTTPServer(s *http.Server, svc *AnalyzeService) {
	r := s.Route("/")
	// Route 会用 path.Join 去掉结尾的 /，用 mux 变量同时匹配 /analyze_idea 和 /analyze_idea/
	r.POST("/analyze_idea{slash:/?}", svc.analyzeIdeaHandler)
}

func (s *AnalyzeService) analyzeIdeaHandler(ctx http.Context) error {
	in, err := decodeRequest(ctx.Request())
	if err != nil {
		return kerrors.BadRequest("INVALID_BODY", err.Error())
	}
	http.SetOperation(ctx, OperationAnalyzeIdea)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.AnalyzeIdea(ctx, req.(*dm.AnalysisRequest))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, out)
}

// AnalyzeIdea 执行分析，参数缺失返回 400，其余失败返回 500
func (s *AnalyzeService) AnalyzeIdea(ctx context.Context, req *dm.AnalysisRequest) (map[string]any, error) {
	s.log.Infof("received startup idea: %s for %s, %s", req.Idea, req.City, req.Country)

	outcome, err := s.analyzer.Analyze(ctx, *req)
	if err != nil {
		if errors.Is(err, dm.ErrInvalidRequest) {
			return nil, kerrors.BadRequest("INVALID_REQUEST", err.Error())
		}
		msg := "Error analyzing idea: " + err.Error()
		s.log.Error(msg)
		return nil, kerrors.InternalServer("ANALYZE_FAILED", msg).WithCause(err)
	}
	return ResponseBody(outcome), nil
}

// ResponseBody 报告字段，部分结果模式下附加 failed_sections
func ResponseBody(outcome *dm.Outcome) map[string]any {
	body := make(map[string]any, len(outcome.Report)+1)
	for k, v := range outcome.Report {
		body[k] = v
	}
	if len(outcome.Failed) > 0 {
		body[FailedSectionsKey] = outcome.Failed
	}
	return body
}

// decodeRequest 请求体为 JSON，也兼容查询参数
func decodeRequest(r *nethttp.Request) (dm.AnalysisRequest, error) {
	var req dm.AnalysisRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return req, err
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return req, err
		}
	}

	q := r.URL.Query()
	if req.Idea == "" {
		req.Idea = q.Get("startup_idea")
	}
	if req.Country == "" {
		req.Country = q.Get("country")
	}
	if req.City == "" {
		req.City = q.Get("city")
	}
	return req, nil
}

package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest 请求参数不完整
var ErrInvalidRequest = errors.New("invalid analysis request")

// AnalysisRequest 一次分析请求的输入
type AnalysisRequest struct {
	Idea    string `json:"startup_idea"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// Validate 三个字段都必须非空
func (r AnalysisRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Idea) == "":
		return fmt.Errorf("%w: startup_idea is required", ErrInvalidRequest)
	case strings.TrimSpace(r.Country) == "":
		return fmt.Errorf("%w: country is required", ErrInvalidRequest)
	case strings.TrimSpace(r.City) == "":
		return fmt.Errorf("%w: city is required", ErrInvalidRequest)
	}
	return nil
}

// Task 单个分析章节的请求
type Task struct {
	ID     TaskID
	Prompt string
}

// NormalizedResult 归一化后的章节结果，Data 一定是合法的 JSON 值
type NormalizedResult struct {
	ID   TaskID
	Data any
}

// Report 合并后的报告，键为固定的 12 个字段名
type Report map[string]any

// TaskFailure 部分结果模式下失败的章节
type TaskFailure struct {
	ID    TaskID `json:"section"`
	Error string `json:"error"`
}

// Outcome 一次分析的最终产出
type Outcome struct {
	Report Report
	Failed []TaskFailure
}

package llm

import (
	"errors"
	"fmt"

	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/model"
)

// TransportError 网络失败或补全服务返回非成功状态
type TransportError struct {
	Task model.TaskID
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion transport error [%s]: %v", e.Task, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError 响应中缺少生成文本
type ProtocolError struct {
	Task   model.TaskID
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("completion protocol error [%s]: %s", e.Task, e.Reason)
}

// Kind 用于日志和指标的错误分类
func Kind(err error) string {
	var te *TransportError
	var pe *ProtocolError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &pe):
		return "protocol"
	default:
		return "other"
	}
}

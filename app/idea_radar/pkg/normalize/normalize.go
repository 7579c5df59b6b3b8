// Package normalize 把模型返回的文本转换成一定合法的 JSON 值。
package normalize

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// FallbackKey 解析失败时包裹原文的字段名
const FallbackKey = "response"

// Normalize 解析 JSON，失败时返回 {"response": raw}，永不失败
func Normalize(raw string) any {
	if v, ok := parse(raw); ok {
		return v
	}
	// 模型经常无视要求加上 ```json 代码块
	if stripped, ok := stripFence(raw); ok {
		if v, ok := parse(stripped); ok {
			return v
		}
	}
	return map[string]any{FallbackKey: raw}
}

// IsFallback 判断是否为解析失败后的包裹值
func IsFallback(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	_, ok = m[FallbackKey].(string)
	return ok
}

// parse 数字保留为 json.Number，超过 2^53 的整数也能原样回写
func parse(s string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// 只允许一个完整的 JSON 值
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return v, true
}

func stripFence(s string) (string, bool) {
	clean := strings.TrimSpace(s)
	if !strings.HasPrefix(clean, "```") {
		return "", false
	}
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean), true
}

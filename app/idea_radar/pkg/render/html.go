// Package render 把分析报告渲染成单页 HTML。
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	dm "github.com/iWorld-y/idea_radar/app/idea_radar/pkg/model"
)

// Section 页面上的一个卡片
type Section struct {
	Field string
	Text  string
	Data  string
}

// PageData 用于模板渲染的数据
type PageData struct {
	Date     string
	Request  dm.AnalysisRequest
	Sections []Section
	Failed   []dm.TaskFailure
}

const pageTpl = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Idea Radar | {{ .Request.Idea }}</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 900px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 40px; padding: 20px 0; }
        h1 { font-size: 2.2rem; margin: 0 0 10px 0; }
        .date-info { color: var(--text-secondary); }
        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 24px;
            margin-bottom: 24px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.05);
            border: 1px solid var(--border-color);
        }
        .card h2 { margin-top: 0; font-size: 1.3rem; border-bottom: 2px solid var(--primary-color); display: inline-block; }
        .card pre { white-space: pre-wrap; background: #f1f5f9; padding: 12px; border-radius: 8px; }
        .failed { border-left: 4px solid #ef4444; background: #fef2f2; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>{{ .Request.Idea }}</h1>
            <div class="date-info">{{ .Request.City }}, {{ .Request.Country }} • {{ .Date }}</div>
        </header>

        {{if .Failed}}
        <div class="card failed">
            <h2>Failed sections</h2>
            <ul>
                {{range .Failed}}
                <li>{{.ID}}: {{.Error}}</li>
                {{end}}
            </ul>
        </div>
        {{end}}

        {{range .Sections}}
        <div class="card">
            <h2>{{ .Field }}</h2>
            {{if .Text}}<p>{{ .Text }}</p>{{end}}
            {{if .Data}}<pre>{{ .Data }}</pre>{{end}}
        </div>
        {{end}}
    </div>
</body>
</html>
`

var page = template.Must(template.New("report").Parse(pageTpl))

// NewPageData 按报告字段的固定顺序生成卡片
func NewPageData(req dm.AnalysisRequest, outcome *dm.Outcome, now time.Time) PageData {
	data := PageData{
		Date:    now.Format(time.DateOnly),
		Request: req,
		Failed:  outcome.Failed,
	}
	for _, f := range dm.ReportFields() {
		sec := Section{Field: f}
		switch v := outcome.Report[f].(type) {
		case string:
			sec.Text = v
		case nil:
		default:
			b, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				sec.Data = fmt.Sprint(v)
			} else {
				sec.Data = string(b)
			}
		}
		data.Sections = append(data.Sections, sec)
	}
	return data
}

// HTML 渲染模板
func HTML(w io.Writer, data PageData) error {
	return page.Execute(w, data)
}

// WriteFile 渲染到文件，目录不存在时自动创建
func WriteFile(path string, data PageData) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := HTML(f, data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

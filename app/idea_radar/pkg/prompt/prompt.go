// Package prompt 把分析请求渲染成每个章节的 LLM 提示词。
package prompt

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/model"
)

// SystemPrompt 每次调用固定的系统角色
const SystemPrompt = "You are an expert business analyst."

const header = `Analyze the following startup idea and respond ONLY with a JSON object, no markdown fences and no commentary.

Startup Idea: %s
Country: %s
City: %s

`

// 每个章节的说明和期望的 JSON 结构，结构只是建议，模型不一定遵守
var sections = map[model.TaskID]string{
	model.ScopeAndMarket: `Cover these headings:
1. Scope of Business
2. Market Research of the idea in the given city and country (top players, market size, trends)

Return JSON with the following structure:
{
  "scope_of_business": "A brief summary about the scope of the business",
  "market_research": "A brief summary of market research findings including top players, market size and trends"
}`,

	model.GraphAndLegal: `Cover these headings:
1. Graph data of the market research (compare the top 5 companies in the market by market share)
2. Legal Requirements (tax, licences, legal compliance) for operating in the given city and country

Return JSON with the following structure:
{
  "graph_plot_market_research": "Comma separated 'company: share%' pairs for the top 5 companies",
  "legal_requirements": [
    {"tax": "Information about applicable taxes for the business"},
    {"legal_compliance": "Information about licences and compliance needed to operate"}
  ]
}`,

	model.FinanceAndTech: `Cover these headings:
1. Finance (total investment needed including labour and other requirements, and the time frame to launch)
2. Technology / Tools Required

Return JSON with the following structure:
{
  "finance": [
    {"total_investment_needed": "Estimated total investment including labour and other expenses"},
    {"time_frame": "Estimated time frame to reach operational status"}
  ],
  "technology_tools_required": ["Tool or technology 1", "Tool or technology 2"]
}`,

	model.GrowthAndAid: `Cover these headings:
1. Growth and Scaling
2. Financial Aid Guidance (government schemes, grants and other financial aid available in the given country)

Return JSON with the following structure:
{
  "growth_scaling": "Strategies and considerations for growth and scaling of the business",
  "financial_aid_guidance": [
    {"scheme": "Name of the scheme or aid", "details": "Eligibility and how to apply"}
  ]
}`,

	model.MarketEntry: `Describe the market entry strategies suited to the given city and country.

Return JSON with the following structure:
{
  "market_entry_strategies": ["Strategy 1 with a short rationale", "Strategy 2 with a short rationale"]
}`,

	model.CompetitiveAnalysis: `Perform a competitive analysis of the main competitors in the given city and country.

Return JSON with the following structure:
{
  "competitive_analysis": [
    {"competitor": "Competitor name", "strengths": "Main strengths", "weaknesses": "Main weaknesses", "market_share": "Estimated market share"}
  ]
}`,

	model.CustomerPersonas: `Describe the target customer personas for this business.

Return JSON with the following structure:
{
  "customer_personas": [
    {"name": "Persona name", "age_range": "Age range", "needs": "Key needs", "buying_behaviour": "How they buy"}
  ]
}`,

	model.SWOT: `Perform a SWOT analysis for this business in the given city and country.

Return JSON with the following structure:
{
  "swot_analysis": {
    "strengths": ["Strength 1"],
    "weaknesses": ["Weakness 1"],
    "opportunities": ["Opportunity 1"],
    "threats": ["Threat 1"]
  }
}`,
}

// Build 渲染单个章节的提示词，未知章节属于编程错误，直接 panic
func Build(id model.TaskID, req model.AnalysisRequest) model.Task {
	body, ok := sections[id]
	if !ok {
		panic(fmt.Sprintf("prompt: unknown task id %d", int(id)))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, header, req.Idea, req.Country, req.City)
	sb.WriteString(body)

	return model.Task{ID: id, Prompt: sb.String()}
}

// BuildAll 按章节顺序渲染全部任务
func BuildAll(req model.AnalysisRequest) []model.Task {
	ids := model.AllTasks()
	tasks := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, Build(id, req))
	}
	return tasks
}

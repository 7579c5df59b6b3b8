package model

import "fmt"

// TaskID 分析章节标识，取值集合是封闭的
type TaskID int

const (
	ScopeAndMarket TaskID = iota
	GraphAndLegal
	FinanceAndTech
	GrowthAndAid
	MarketEntry
	CompetitiveAnalysis
	CustomerPersonas
	SWOT

	taskCount
)

var taskNames = [taskCount]string{
	ScopeAndMarket:      "scope_and_market",
	GraphAndLegal:       "graph_and_legal",
	FinanceAndTech:      "finance_and_tech",
	GrowthAndAid:        "growth_and_aid",
	MarketEntry:         "market_entry",
	CompetitiveAnalysis: "competitive_analysis",
	CustomerPersonas:    "customer_personas",
	SWOT:                "swot",
}

// Valid 是否属于已定义的章节
func (id TaskID) Valid() bool {
	return id >= 0 && id < taskCount
}

func (id TaskID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("TaskID(%d)", int(id))
	}
	return taskNames[id]
}

// MarshalText 让 TaskID 在 JSON 中以名称出现
func (id TaskID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("unknown task id %d", int(id))
	}
	return []byte(taskNames[id]), nil
}

// ParseTaskID 根据名称查找章节
func ParseTaskID(name string) (TaskID, bool) {
	for i, n := range taskNames {
		if n == name {
			return TaskID(i), true
		}
	}
	return 0, false
}

// AllTasks 按派发顺序返回全部章节
func AllTasks() []TaskID {
	ids := make([]TaskID, 0, taskCount)
	for id := TaskID(0); id < taskCount; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Groups 两个顺序执行的批次，批次内并发
func Groups() [][]TaskID {
	return [][]TaskID{
		{ScopeAndMarket, GraphAndLegal, FinanceAndTech, GrowthAndAid},
		{MarketEntry, CompetitiveAnalysis, CustomerPersonas, SWOT},
	}
}

// 报告字段名
const (
	FieldScopeOfBusiness         = "scope_of_business"
	FieldMarketResearch          = "market_research"
	FieldGraphPlotMarketResearch = "graph_plot_market_research"
	FieldLegalRequirements       = "legal_requirements"
	FieldFinance                 = "finance"
	FieldTechnologyToolsRequired = "technology_tools_required"
	FieldGrowthScaling           = "growth_scaling"
	FieldFinancialAidGuidance    = "financial_aid_guidance"
	FieldMarketEntryStrategies   = "market_entry_strategies"
	FieldCompetitiveAnalysis     = "competitive_analysis"
	FieldCustomerPersonas        = "customer_personas"
	FieldSWOTAnalysis            = "swot_analysis"
)

// FieldKind 字段的空值形态
type FieldKind int

const (
	KindText FieldKind = iota
	KindList
	KindObject
)

var fieldKinds = map[string]FieldKind{
	FieldScopeOfBusiness:         KindText,
	FieldMarketResearch:          KindText,
	FieldGraphPlotMarketResearch: KindText,
	FieldLegalRequirements:       KindList,
	FieldFinance:                 KindList,
	FieldTechnologyToolsRequired: KindList,
	FieldGrowthScaling:           KindText,
	FieldFinancialAidGuidance:    KindList,
	FieldMarketEntryStrategies:   KindList,
	FieldCompetitiveAnalysis:     KindList,
	FieldCustomerPersonas:        KindList,
	FieldSWOTAnalysis:            KindObject,
}

// ReportFields 报告的全部 12 个字段，按章节顺序
func ReportFields() []string {
	var fields []string
	for _, id := range AllTasks() {
		fields = append(fields, id.Fields()...)
	}
	return fields
}

// Fields 章节负责填充的报告字段
func (id TaskID) Fields() []string {
	switch id {
	case ScopeAndMarket:
		return []string{FieldScopeOfBusiness, FieldMarketResearch}
	case GraphAndLegal:
		return []string{FieldGraphPlotMarketResearch, FieldLegalRequirements}
	case FinanceAndTech:
		return []string{FieldFinance, FieldTechnologyToolsRequired}
	case GrowthAndAid:
		return []string{FieldGrowthScaling, FieldFinancialAidGuidance}
	case MarketEntry:
		return []string{FieldMarketEntryStrategies}
	case CompetitiveAnalysis:
		return []string{FieldCompetitiveAnalysis}
	case CustomerPersonas:
		return []string{FieldCustomerPersonas}
	case SWOT:
		return []string{FieldSWOTAnalysis}
	default:
		panic(fmt.Sprintf("model: unknown task id %d", int(id)))
	}
}

// EmptyValue 字段缺失时使用的空值，每次返回新实例
func EmptyValue(field string) any {
	switch fieldKinds[field] {
	case KindList:
		return []any{}
	case KindObject:
		return map[string]any{}
	default:
		return ""
	}
}

// NewReport 所有字段都为空值的报告
func NewReport() Report {
	r := make(Report, len(fieldKinds))
	for field := range fieldKinds {
		r[field] = EmptyValue(field)
	}
	return r
}

// Package analytics превращает разрешённый вызов аналитической функции в
// готовый отчёт: агрегированную таблицу, декларативные описания графиков и
// текст с выводами. Пять функций соответствуют контракту разрешителя
// намерений: тренд продаж, сравнение препаратов, региональный разрез,
// автоматические инсайты и прямой ответ на вопрос о данных.
package analytics

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/store"
)

// ChartKind — тип графика.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
)

// ChartSpec — описание графика без привязки к рендереру: подписи точек и
// значения в одном порядке. Текстовый UI рисует по нему ASCII-диаграмму,
// экспорт — markdown-таблицу.
type ChartSpec struct {
	Kind   ChartKind
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Values []float64
}

// Table — агрегированные строки отчёта, уже отформатированные для показа.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Empty сообщает, есть ли в таблице данные.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Report — полный результат аналитической функции.
type Report struct {
	Table    Table
	Charts   []ChartSpec
	Insights string
}

// Engine выполняет аналитические функции поверх хранилища продаж.
type Engine struct {
	db *store.Store
}

// NewEngine создаёт движок поверх открытого хранилища.
func NewEngine(db *store.Store) *Engine {
	return &Engine{db: db}
}

// Execute выполняет запрошенную функцию. Имя вне известного перечня —
// ошибка; ошибки хранилища оборачиваются с именем функции.
func (e *Engine) Execute(ctx context.Context, call intent.FunctionCall) (*Report, error) {
	var (
		report *Report
		err    error
	)

	switch call.Name {
	case intent.FuncAnalyzeSalesTrend:
		report, err = e.analyzeSalesTrend(ctx, call.Args)
	case intent.FuncCompareDrugs:
		report, err = e.compareDrugs(ctx, call.Args)
	case intent.FuncRegionalAnalysis:
		report, err = e.regionalAnalysis(ctx, call.Args)
	case intent.FuncGenerateAutoInsights:
		report, err = e.generateAutoInsights(ctx)
	case intent.FuncAnswerDirectQuestion:
		report, err = e.answerDirectQuestion(ctx, call.Args)
	default:
		return nil, fmt.Errorf("unknown function: %s", call.Name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", call.Name, err)
	}

	return report, nil
}

// textReport — отчёт без таблицы и графиков, только текст.
func textReport(text string) *Report {
	return &Report{Insights: text}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// money форматирует сумму с разделителями тысяч и двумя знаками после
// запятой: 1234567.8 -> "1,234,567.80".
func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// count форматирует целое с разделителями тысяч.
func count(n int) string {
	return humanize.Comma(int64(n))
}

// titleSuffix строит хвост заголовка графика из необязательных частей:
// " - Aspirin (Europe)", " - Aspirin", " (Europe)" или пустую строку.
func titleSuffix(drug, region string) string {
	suffix := ""
	if drug != "" {
		suffix += " - " + drug
	}
	if region != "" {
		suffix += " (" + region + ")"
	}
	return suffix
}

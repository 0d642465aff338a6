package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/internal/app"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/analytics"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/export"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
)

// chartBarWidth задает длину самой длинной полосы на ASCII-графике.
const chartBarWidth = 30

// renderExchange превращает результат обработки реплики в строки лога чата.
//
// Для function call рисует реплику-подтверждение, строку вызова, инсайты,
// таблицу и графики отчёта. Для разговорных реплик только ответ.
func renderExchange(exchange app.Exchange) []string {
	var lines []string

	if exchange.Result.Type == intent.TypeFunctionCall && exchange.Result.Call != nil {
		lines = append(lines, assistantMsgStyle("ASSISTANT > ")+exchange.Result.Reply)
		lines = append(lines, callMsgStyle("→ "+export.FormatCall(*exchange.Result.Call)))

		if exchange.Err != nil {
			lines = append(lines, errorMsgStyle("ERROR: ")+exchange.Err.Error())
			return lines
		}

		if report := exchange.Report; report != nil {
			if insights := strings.TrimSpace(report.Insights); insights != "" {
				lines = append(lines, "", insights)
			}
			if !report.Table.Empty() {
				lines = append(lines, "", renderTable(report.Table))
			}
			for _, chart := range report.Charts {
				lines = append(lines, "", renderChart(chart))
			}
		}
		return lines
	}

	lines = append(lines, assistantMsgStyle("ASSISTANT > ")+exchange.Result.Reply)
	if exchange.Err != nil {
		lines = append(lines, errorMsgStyle("ERROR: ")+exchange.Err.Error())
	}
	return lines
}

// renderTable рисует таблицу отчёта с рамкой.
func renderTable(t analytics.Table) string {
	if t.Empty() {
		return ""
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(grayColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(t.Columns...).
		Rows(t.Rows...).
		String()
}

// renderChart рисует график горизонтальными полосами.
//
// Для pie-графиков подписи показывают долю в процентах,
// для остальных само значение.
func renderChart(spec analytics.ChartSpec) string {
	if len(spec.Labels) == 0 || len(spec.Labels) != len(spec.Values) {
		return ""
	}

	var maxValue, total float64
	labelWidth := 0
	for i, label := range spec.Labels {
		if len(label) > labelWidth {
			labelWidth = len(label)
		}
		if spec.Values[i] > maxValue {
			maxValue = spec.Values[i]
		}
		total += spec.Values[i]
	}

	var b strings.Builder
	b.WriteString(spec.Title)
	b.WriteString("\n")

	for i, label := range spec.Labels {
		value := spec.Values[i]

		barLen := 0
		if maxValue > 0 && value > 0 {
			barLen = int(value / maxValue * chartBarWidth)
			if barLen < 1 {
				barLen = 1
			}
		}

		caption := formatValue(value)
		if spec.Kind == analytics.ChartPie && total > 0 {
			caption = fmt.Sprintf("%.1f%%", value/total*100)
		}

		fmt.Fprintf(&b, "  %-*s %s %s\n", labelWidth, label, strings.Repeat("█", barLen), caption)
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatValue форматирует число для подписи на графике.
// Целые значения выводятся без дробной части.
func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return humanize.Comma(int64(v))
	}
	return humanize.FormatFloat("#,###.##", v)
}

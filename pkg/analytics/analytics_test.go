package analytics

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewEngine(db)
}

func ptr(s string) *string { return &s }

func descending(values []float64) bool {
	return sort.SliceIsSorted(values, func(i, j int) bool { return values[i] > values[j] })
}

func TestExecuteUnknownFunction(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Execute(context.Background(), intent.FunctionCall{Name: "drop_tables"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown function")
}

func TestExecuteAllKnownFunctions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for _, name := range intent.AllFunctions {
		report, err := e.Execute(ctx, intent.FunctionCall{Name: name})
		require.NoError(t, err, "function %s", name)
		require.NotNil(t, report)
		assert.NotEmpty(t, report.Insights, "function %s produced no insights", name)
	}
}

func TestAnalyzeSalesTrend(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Execute(context.Background(), intent.FunctionCall{Name: intent.FuncAnalyzeSalesTrend})
	require.NoError(t, err)

	assert.Equal(t, []string{"Month", "Sales ($)", "Quantity Sold"}, report.Table.Columns)
	assert.GreaterOrEqual(t, len(report.Table.Rows), 12, "a year of sales must cover at least 12 months")

	require.Len(t, report.Charts, 2)
	assert.Equal(t, ChartLine, report.Charts[0].Kind)
	assert.Equal(t, "Sales Trend Over Time", report.Charts[0].Title)
	assert.Equal(t, ChartBar, report.Charts[1].Kind)
	assert.Equal(t, "Quantity Sold Over Time", report.Charts[1].Title)

	labels := report.Charts[0].Labels
	assert.True(t, sort.StringsAreSorted(labels), "months must be in chronological order")
	assert.Equal(t, labels, report.Charts[1].Labels)

	assert.Contains(t, report.Insights, "**Sales Trend Analysis Results:**")
	assert.Contains(t, report.Insights, "- Total Sales: $")
	assert.Contains(t, report.Insights, "The data shows")
}

func TestAnalyzeSalesTrendFiltered(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Execute(context.Background(), intent.FunctionCall{
		Name: intent.FuncAnalyzeSalesTrend,
		Args: intent.Args{Drug: ptr("Aspirin"), Region: ptr("Europe")},
	})
	require.NoError(t, err)

	require.Len(t, report.Charts, 2)
	assert.Equal(t, "Sales Trend Over Time - Aspirin (Europe)", report.Charts[0].Title)
	assert.Equal(t, "Quantity Sold Over Time - Aspirin (Europe)", report.Charts[1].Title)
}

func TestAnalyzeSalesTrendNoData(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Execute(context.Background(), intent.FunctionCall{
		Name: intent.FuncAnalyzeSalesTrend,
		Args: intent.Args{Drug: ptr("Nonexistent")},
	})
	require.NoError(t, err)

	assert.True(t, report.Table.Empty())
	assert.Empty(t, report.Charts)
	assert.Equal(t, "No data found for the specified criteria.", report.Insights)
}

func TestCompareDrugs(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Execute(context.Background(), intent.FunctionCall{Name: intent.FuncCompareDrugs})
	require.NoError(t, err)

	assert.Len(t, report.Table.Rows, 8)

	require.Len(t, report.Charts, 2)
	assert.Equal(t, ChartBar, report.Charts[0].Kind)
	assert.Equal(t, "Drug Sales Comparison", report.Charts[0].Title)
	assert.True(t, descending(report.Charts[0].Values), "drugs must be ranked by sales")
	assert.Equal(t, ChartPie, report.Charts[1].Kind)
	assert.Equal(t, "Market Share by Quantity", report.Charts[1].Title)

	assert.Contains(t, report.Insights, "**Drug Comparison Analysis:**")
	assert.Contains(t, report.Insights, "- Top Performing Drug: ")
	assert.Contains(t, report.Insights, "% of total sales")
}

func TestCompareDrugsInRegion(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Execute(context.Background(), intent.FunctionCall{
		Name: intent.FuncCompareDrugs,
		Args: intent.Args{Region: ptr("Europe")},
	})
	require.NoError(t, err)

	require.Len(t, report.Charts, 2)
	assert.Equal(t, "Drug Sales Comparison (Europe)", report.Charts[0].Title)
	assert.Equal(t, "Market Share by Quantity (Europe)", report.Charts[1].Title)
}

func TestRegionalAnalysis(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Execute(context.Background(), intent.FunctionCall{Name: intent.FuncRegionalAnalysis})
	require.NoError(t, err)

	assert.Len(t, report.Table.Rows, 4)

	require.Len(t, report.Charts, 2)
	assert.Equal(t, ChartBar, report.Charts[0].Kind)
	assert.Equal(t, "Sales by Region", report.Charts[0].Title)
	assert.True(t, descending(report.Charts[0].Values), "regions must be ranked by sales")
	assert.Equal(t, ChartPie, report.Charts[1].Kind)

	assert.Contains(t, report.Insights, "**Regional Analysis Results:**")
	assert.Contains(t, report.Insights, "- Top Performing Region: ")
	assert.Contains(t, report.Insights, "- Regional Distribution: 4 regions analyzed")
}

func TestRegionalAnalysisForDrug(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Execute(context.Background(), intent.FunctionCall{
		Name: intent.FuncRegionalAnalysis,
		Args: intent.Args{Drug: ptr("Aspirin")},
	})
	require.NoError(t, err)

	require.Len(t, report.Charts, 2)
	assert.Equal(t, "Sales by Region - Aspirin", report.Charts[0].Title)
	assert.Equal(t, "Regional Market Share - Aspirin", report.Charts[1].Title)
}

func TestGenerateAutoInsights(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.Execute(context.Background(), intent.FunctionCall{Name: intent.FuncGenerateAutoInsights})
	require.NoError(t, err)

	require.Len(t, report.Charts, 4)
	assert.Equal(t, ChartBar, report.Charts[0].Kind)
	assert.Equal(t, "Top 5 Performing Drugs", report.Charts[0].Title)
	assert.Len(t, report.Charts[0].Values, 5)
	assert.Equal(t, ChartPie, report.Charts[1].Kind)
	assert.Equal(t, ChartBar, report.Charts[2].Kind)
	assert.Equal(t, "Sales by Product Category", report.Charts[2].Title)
	assert.Equal(t, ChartLine, report.Charts[3].Kind)
	assert.Equal(t, "Monthly Sales Trend", report.Charts[3].Title)

	for _, marker := range []string{
		"**Automatic Business Insights:**",
		"**Top Performer**",
		"**Market Leader**",
		"**Business Trend**",
		"**Product Focus**",
		"**Market Concentration**",
		"**Key Metrics:**",
		"- Total Products: 8 drugs across 6 categories",
		"- Market Coverage: 4 regions",
		"quarters of sales data",
		"**Strategic Recommendations:**",
	} {
		assert.Contains(t, report.Insights, marker)
	}
}

func TestAnswerDirectQuestion(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args intent.Args
		want string
	}{
		{
			name: "best seller",
			args: intent.Args{Question: ptr("Which drug is our best seller?")},
			want: "**Best Seller Analysis:**",
		},
		{
			name: "worst seller",
			args: intent.Args{Question: ptr("What is our worst seller?")},
			want: "**Lowest Performer Analysis:**",
		},
		{
			name: "revenue totals",
			args: intent.Args{Question: ptr("How much revenue did we make?")},
			want: "**Sales Summary:**",
		},
		{
			name: "drug count",
			args: intent.Args{Question: ptr("How many drugs do we sell?")},
			want: "We have **8** different drugs/products in our portfolio.",
		},
		{
			name: "region count",
			args: intent.Args{Question: ptr("How many regions do we operate in?")},
			want: "We operate in **4** regions:",
		},
		{
			name: "transaction count",
			args: intent.Args{Question: ptr("How many sales records are there?")},
			want: "We have **1000** total sales transactions in our database.",
		},
		{
			name: "top region",
			args: intent.Args{Question: ptr("Which region performs best?")},
			want: "**Top Performing Region:**",
		},
		{
			name: "drug lookup without marker phrase",
			args: intent.Args{Question: ptr("Tell me about Aspirin"), Drug: ptr("Aspirin")},
			want: "**Aspirin Performance:**",
		},
		{
			name: "unknown drug lookup",
			args: intent.Args{Question: ptr("Tell me about Placebo"), Drug: ptr("Placebo")},
			want: "I couldn't find any sales data for Placebo.",
		},
		{
			name: "vague question",
			args: intent.Args{Question: ptr("Tell me something")},
			want: "Could you be more specific?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := e.Execute(ctx, intent.FunctionCall{
				Name: intent.FuncAnswerDirectQuestion,
				Args: tt.args,
			})
			require.NoError(t, err)

			assert.Contains(t, report.Insights, tt.want)
			assert.True(t, report.Table.Empty(), "direct answers are text only")
			assert.Empty(t, report.Charts, "direct answers are text only")
		})
	}
}

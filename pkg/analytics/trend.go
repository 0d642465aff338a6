package analytics

import (
	"context"
	"fmt"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/store"
)

// analyzeSalesTrend строит помесячную динамику продаж с необязательными
// фильтрами по препарату и региону.
func (e *Engine) analyzeSalesTrend(ctx context.Context, args intent.Args) (*Report, error) {
	drug := deref(args.Drug)
	region := deref(args.Region)

	sales, err := e.db.SalesData(ctx, store.SalesFilter{Drug: drug, Region: region})
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return textReport("No data found for the specified criteria."), nil
	}

	monthly := totalsBy(sales, monthKey)
	byKeyAsc(monthly)

	table := Table{Columns: []string{"Month", "Sales ($)", "Quantity Sold"}}
	var (
		totalAmount   float64
		totalQuantity int
	)
	for _, m := range monthly {
		table.Rows = append(table.Rows, []string{m.key, money(m.amount), count(m.quantity)})
		totalAmount += m.amount
		totalQuantity += m.quantity
	}

	months, amounts := labelsAndAmounts(monthly)
	_, quantities := labelsAndQuantities(monthly)
	suffix := titleSuffix(drug, region)

	charts := []ChartSpec{
		{
			Kind:   ChartLine,
			Title:  "Sales Trend Over Time" + suffix,
			XLabel: "Month",
			YLabel: "Sales Amount ($)",
			Labels: months,
			Values: amounts,
		},
		{
			Kind:   ChartBar,
			Title:  "Quantity Sold Over Time" + suffix,
			XLabel: "Month",
			YLabel: "Quantity Sold",
			Labels: months,
			Values: quantities,
		},
	}

	direction := "declining trend"
	if monthly[len(monthly)-1].amount > monthly[0].amount {
		direction = "positive growth"
	}

	insights := fmt.Sprintf(`**Sales Trend Analysis Results:**

- Total Sales: $%s
- Average Monthly Sales: $%s
- Total Quantity Sold: %s units
- Analysis Period: %d months

The data shows %s in sales over the analyzed period.`,
		money(totalAmount),
		money(totalAmount/float64(len(monthly))),
		count(totalQuantity),
		len(monthly),
		direction)

	return &Report{Table: table, Charts: charts, Insights: insights}, nil
}

// compareDrugs сравнивает препараты по сумме продаж, при заданном регионе —
// только в его пределах.
func (e *Engine) compareDrugs(ctx context.Context, args intent.Args) (*Report, error) {
	region := deref(args.Region)

	sales, err := e.db.SalesData(ctx, store.SalesFilter{Region: region})
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return textReport("No data found for comparison."), nil
	}

	drugs := totalsBy(sales, drugKey)
	byAmountDesc(drugs)

	table := Table{Columns: []string{"Drug", "Sales ($)", "Quantity Sold"}}
	for _, d := range drugs {
		table.Rows = append(table.Rows, []string{d.key, money(d.amount), count(d.quantity)})
	}

	names, amounts := labelsAndAmounts(drugs)
	_, quantities := labelsAndQuantities(drugs)
	suffix := titleSuffix("", region)

	charts := []ChartSpec{
		{
			Kind:   ChartBar,
			Title:  "Drug Sales Comparison" + suffix,
			XLabel: "Drug Name",
			YLabel: "Total Sales ($)",
			Labels: names,
			Values: amounts,
		},
		{
			Kind:   ChartPie,
			Title:  "Market Share by Quantity" + suffix,
			Labels: names,
			Values: quantities,
		},
	}

	top := drugs[0]
	insights := fmt.Sprintf(`**Drug Comparison Analysis:**

- Top Performing Drug: %s ($%s)
- Total Drugs Analyzed: %d
- Market Leader Share: %.1f%% of total sales

The analysis shows clear market leaders and opportunities for growth in underperforming segments.`,
		top.key,
		money(top.amount),
		len(drugs),
		top.amount/sumAmount(drugs)*100)

	return &Report{Table: table, Charts: charts, Insights: insights}, nil
}

// regionalAnalysis раскладывает продажи по регионам, при заданном препарате —
// только его.
func (e *Engine) regionalAnalysis(ctx context.Context, args intent.Args) (*Report, error) {
	drug := deref(args.Drug)

	sales, err := e.db.SalesData(ctx, store.SalesFilter{Drug: drug})
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return textReport("No data found for regional analysis."), nil
	}

	regions := totalsBy(sales, regionKey)
	byAmountDesc(regions)

	table := Table{Columns: []string{"Region", "Sales ($)", "Quantity Sold"}}
	for _, r := range regions {
		table.Rows = append(table.Rows, []string{r.key, money(r.amount), count(r.quantity)})
	}

	names, amounts := labelsAndAmounts(regions)
	suffix := titleSuffix(drug, "")

	charts := []ChartSpec{
		{
			Kind:   ChartBar,
			Title:  "Sales by Region" + suffix,
			XLabel: "Region",
			YLabel: "Total Sales ($)",
			Labels: names,
			Values: amounts,
		},
		{
			Kind:   ChartPie,
			Title:  "Regional Market Share" + suffix,
			Labels: names,
			Values: amounts,
		},
	}

	top := regions[0]
	insights := fmt.Sprintf(`**Regional Analysis Results:**

- Top Performing Region: %s ($%s)
- Regional Distribution: %d regions analyzed
- Market Leader Share: %.1f%% of total sales

This analysis helps identify key markets and expansion opportunities across different regions.`,
		top.key,
		money(top.amount),
		len(regions),
		top.amount/sumAmount(regions)*100)

	return &Report{Table: table, Charts: charts, Insights: insights}, nil
}

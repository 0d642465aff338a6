package analytics

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/store"
)

// generateAutoInsights проходит по всему набору продаж и собирает готовые
// наблюдения: лидеров по препаратам, регионам и категориям, квартальную
// динамику и концентрацию выручки.
func (e *Engine) generateAutoInsights(ctx context.Context) (*Report, error) {
	sales, err := e.db.SalesData(ctx, store.SalesFilter{})
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return textReport("No data available for analysis."), nil
	}

	drugInfo, err := e.db.DrugInfo(ctx, "")
	if err != nil {
		return nil, err
	}
	categoryByDrug := make(map[string]string, len(drugInfo))
	for _, d := range drugInfo {
		categoryByDrug[d.Name] = d.Category
	}

	drugs := totalsBy(sales, drugKey)
	byAmountDesc(drugs)
	totalRevenue := sumAmount(drugs)

	regions := totalsBy(sales, regionKey)
	byAmountDesc(regions)

	quarters := totalsBy(sales, quarterKey)
	byKeyAsc(quarters)

	monthly := totalsBy(sales, monthKey)
	byKeyAsc(monthly)

	// Продажи без карточки препарата в категорийный разрез не попадают.
	known := sales[:0:0]
	for _, sale := range sales {
		if categoryByDrug[sale.Drug] != "" {
			known = append(known, sale)
		}
	}
	categories := totalsBy(known, func(s store.Sale) string { return categoryByDrug[s.Drug] })
	byKeyAsc(categories)

	topCategory := ""
	if len(categories) > 0 {
		sorted := append([]bucket(nil), categories...)
		byAmountDesc(sorted)
		topCategory = sorted[0].key
	}

	var findings []string

	topDrug := drugs[0]
	findings = append(findings, fmt.Sprintf(
		"**Top Performer**: %s leads with $%s in total sales", topDrug.key, money(topDrug.amount)))

	topRegion := regions[0]
	findings = append(findings, fmt.Sprintf(
		"**Market Leader**: %s dominates with %.1f%% of total sales",
		topRegion.key, topRegion.amount/sumAmount(regions)*100))

	if len(quarters) >= 2 {
		growth := (quarters[len(quarters)-1].amount - quarters[0].amount) / quarters[0].amount * 100
		direction := "declining"
		if growth > 0 {
			direction = "growing"
		}
		findings = append(findings, fmt.Sprintf(
			"**Business Trend**: Sales are %s with %.1f%% change from first to last quarter",
			direction, math.Abs(growth)))
	}

	if topCategory != "" {
		findings = append(findings, fmt.Sprintf(
			"**Product Focus**: %s category generates the highest revenue", topCategory))
	}

	topN := 3
	if len(drugs) < topN {
		topN = len(drugs)
	}
	var topShare float64
	for _, d := range drugs[:topN] {
		topShare += d.amount
	}
	findings = append(findings, fmt.Sprintf(
		"**Market Concentration**: Top 3 drugs account for %.1f%% of total sales",
		topShare/totalRevenue*100))

	table := Table{Columns: []string{"Drug", "Sales ($)", "Quantity Sold"}}
	for _, d := range drugs {
		table.Rows = append(table.Rows, []string{d.key, money(d.amount), count(d.quantity)})
	}

	top5 := drugs
	if len(top5) > 5 {
		top5 = top5[:5]
	}
	top5Names, top5Amounts := labelsAndAmounts(top5)
	regionNames, regionAmounts := labelsAndAmounts(regions)
	categoryNames, categoryAmounts := labelsAndAmounts(categories)
	months, monthlyAmounts := labelsAndAmounts(monthly)

	charts := []ChartSpec{
		{
			Kind:   ChartBar,
			Title:  "Top 5 Performing Drugs",
			XLabel: "Drug Name",
			YLabel: "Total Sales ($)",
			Labels: top5Names,
			Values: top5Amounts,
		},
		{
			Kind:   ChartPie,
			Title:  "Regional Market Share",
			Labels: regionNames,
			Values: regionAmounts,
		},
		{
			Kind:   ChartBar,
			Title:  "Sales by Product Category",
			XLabel: "Category",
			YLabel: "Total Sales ($)",
			Labels: categoryNames,
			Values: categoryAmounts,
		},
		{
			Kind:   ChartLine,
			Title:  "Monthly Sales Trend",
			XLabel: "Month",
			YLabel: "Sales Amount ($)",
			Labels: months,
			Values: monthlyAmounts,
		},
	}

	insights := fmt.Sprintf(`**Automatic Business Insights:**

%s

**Key Metrics:**
- Total Revenue: $%s
- Total Products: %d drugs across %d categories
- Market Coverage: %d regions
- Data Period: %d quarters of sales data

**Strategic Recommendations:**
- Focus marketing efforts on the leading region (%s)
- Consider expanding the top-performing category (%s)
- Monitor the performance concentration in top products
- Investigate opportunities in underperforming regions`,
		strings.Join(findings, "\n"),
		money(totalRevenue),
		len(drugs),
		len(categories),
		len(regions),
		len(quarters),
		topRegion.key,
		topCategory)

	return &Report{Table: table, Charts: charts, Insights: insights}, nil
}

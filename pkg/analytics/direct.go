package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/store"
)

// Фразы-маркеры типов прямых вопросов. Списки отличаются от ключевых слов
// каскадного классификатора: там решается, звать ли функцию вообще, здесь —
// какой именно ответ собрать.
var (
	bestSellerPhrases  = []string{"best seller", "top performer", "highest sales", "which is our best"}
	worstSellerPhrases = []string{"worst seller", "lowest sales", "poorest performer"}
	totalsPhrases      = []string{"how much", "total sales", "revenue"}
	countPhrases       = []string{"how many", "number of"}
	topRegionPhrases   = []string{"which region", "best region", "top region"}
)

// answerDirectQuestion отвечает на вопрос о данных текстом, без таблиц и
// графиков. Тип вопроса определяется по фразам-маркерам, при неудаче ответ
// строится по извлечённому препарату либо возвращается просьба уточнить.
func (e *Engine) answerDirectQuestion(ctx context.Context, args intent.Args) (*Report, error) {
	question := strings.ToLower(deref(args.Question))

	sales, err := e.db.SalesData(ctx, store.SalesFilter{})
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return textReport("I don't have any sales data available to answer your question."), nil
	}

	switch {
	case containsAnyOf(question, bestSellerPhrases):
		return textReport(bestSellerAnswer(sales)), nil
	case containsAnyOf(question, worstSellerPhrases):
		return textReport(worstSellerAnswer(sales)), nil
	case containsAnyOf(question, totalsPhrases):
		return textReport(totalsAnswer(sales)), nil
	case containsAnyOf(question, countPhrases):
		return textReport(countsAnswer(question, sales)), nil
	case containsAnyOf(question, topRegionPhrases):
		return textReport(topRegionAnswer(sales)), nil
	default:
		return textReport(entityAnswer(args, sales)), nil
	}
}

func containsAnyOf(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}

func bestSellerAnswer(sales []store.Sale) string {
	drugs := totalsBy(sales, drugKey)
	byAmountDesc(drugs)

	top := drugs[0]
	share := top.amount / sumAmount(drugs) * 100

	return fmt.Sprintf(`**Best Seller Analysis:**

**%s** is our best-selling product with:
- **$%s** in total sales
- **%.1f%%** market share
- **%s** total units sold

This represents our strongest performing product across all regions and time periods.`,
		top.key, money(top.amount), share, count(top.quantity))
}

func worstSellerAnswer(sales []store.Sale) string {
	drugs := totalsBy(sales, drugKey)
	byAmountDesc(drugs)

	worst := drugs[len(drugs)-1]

	return fmt.Sprintf(`**Lowest Performer Analysis:**

**%s** has the lowest sales with:
- **$%s** in total sales
- This represents our biggest opportunity for improvement`,
		worst.key, money(worst.amount))
}

func totalsAnswer(sales []store.Sale) string {
	var (
		totalAmount   float64
		totalQuantity int
	)
	for _, sale := range sales {
		totalAmount += sale.Amount
		totalQuantity += sale.Quantity
	}

	return fmt.Sprintf(`**Sales Summary:**

- **Total Revenue:** $%s
- **Total Units Sold:** %s
- **Average Sale Amount:** $%s`,
		money(totalAmount), count(totalQuantity), money(totalAmount/float64(len(sales))))
}

func countsAnswer(question string, sales []store.Sale) string {
	switch {
	case strings.Contains(question, "drugs") || strings.Contains(question, "products"):
		return fmt.Sprintf("We have **%d** different drugs/products in our portfolio.",
			len(totalsBy(sales, drugKey)))
	case strings.Contains(question, "regions"):
		regions := totalsBy(sales, regionKey)
		names := make([]string, len(regions))
		for i, r := range regions {
			names[i] = r.key
		}
		return fmt.Sprintf("We operate in **%d** regions: %s.", len(regions), strings.Join(names, ", "))
	default:
		return fmt.Sprintf("We have **%d** total sales transactions in our database.", len(sales))
	}
}

func topRegionAnswer(sales []store.Sale) string {
	regions := totalsBy(sales, regionKey)
	byAmountDesc(regions)

	top := regions[0]

	return fmt.Sprintf(`**Top Performing Region:**

**%s** is our best market with:
- **$%s** in total sales
- This is our strongest geographical market`,
		top.key, money(top.amount))
}

func entityAnswer(args intent.Args, sales []store.Sale) string {
	if args.Drug == nil {
		return "I understand you're asking a question about our data. Could you be more specific? For example, ask about our best seller, total sales, or a specific drug."
	}

	drug := *args.Drug
	needle := strings.ToLower(drug)

	var (
		amount   float64
		quantity int
		found    bool
	)
	for _, sale := range sales {
		if strings.Contains(strings.ToLower(sale.Drug), needle) {
			amount += sale.Amount
			quantity += sale.Quantity
			found = true
		}
	}

	if !found {
		return fmt.Sprintf("I couldn't find any sales data for %s.", drug)
	}

	return fmt.Sprintf(`**%s Performance:**

- **Total Sales:** $%s
- **Units Sold:** %s`,
		drug, money(amount), count(quantity))
}

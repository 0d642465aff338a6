package analytics

import (
	"fmt"
	"sort"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/store"
)

// bucket — накопленные итоги одной группы продаж.
type bucket struct {
	key      string
	amount   float64
	quantity int
}

// totalsBy группирует продажи по ключу, сохраняя порядок первого появления.
func totalsBy(sales []store.Sale, key func(store.Sale) string) []bucket {
	index := make(map[string]int)
	var buckets []bucket

	for _, sale := range sales {
		k := key(sale)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, bucket{key: k})
		}
		buckets[i].amount += sale.Amount
		buckets[i].quantity += sale.Quantity
	}

	return buckets
}

// byAmountDesc сортирует группы по убыванию суммы продаж.
func byAmountDesc(buckets []bucket) {
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].amount > buckets[j].amount })
}

// byKeyAsc сортирует группы по возрастанию ключа. Ключи-периоды вида
// "2025-01" и "2025Q1" выстраиваются при этом хронологически.
func byKeyAsc(buckets []bucket) {
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].key < buckets[j].key })
}

func drugKey(s store.Sale) string   { return s.Drug }
func regionKey(s store.Sale) string { return s.Region }
func monthKey(s store.Sale) string  { return s.Date.Format("2006-01") }

func quarterKey(s store.Sale) string {
	return fmt.Sprintf("%dQ%d", s.Date.Year(), (int(s.Date.Month())-1)/3+1)
}

// sumAmount — общая сумма продаж по всем группам.
func sumAmount(buckets []bucket) float64 {
	var total float64
	for _, b := range buckets {
		total += b.amount
	}
	return total
}

// labelsAndAmounts раскладывает группы на подписи и суммы для графика.
func labelsAndAmounts(buckets []bucket) ([]string, []float64) {
	labels := make([]string, len(buckets))
	values := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.key
		values[i] = b.amount
	}
	return labels, values
}

// labelsAndQuantities раскладывает группы на подписи и количества.
func labelsAndQuantities(buckets []bucket) ([]string, []float64) {
	labels := make([]string, len(buckets))
	values := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.key
		values[i] = float64(b.quantity)
	}
	return labels, values
}

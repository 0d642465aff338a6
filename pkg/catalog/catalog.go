// Package catalog содержит закрытые справочники сущностей (препараты, регионы)
// и детектор упоминаний в произвольном тексте.
//
// Справочники — единственный источник правды для всех путей разрешения
// интента: и rule-based каскад, и нормализация аргументов от LLM используют
// один и тот же Match, поэтому одна и та же фраза даёт одинаковые сущности
// независимо от того, какой резолвер сработал.
package catalog

import "strings"

// DefaultDrugs — канонические названия препаратов в порядке приоритета поиска.
// Порядок фиксирован: при двух упоминаниях в одной фразе побеждает первый
// по списку (детерминированный tie-break, не confidence).
var DefaultDrugs = []string{
	"Aspirin",
	"Ibuprofen",
	"Medication X",
	"Allergy Relief",
	"Blood Pressure Med",
	"Diabetes Control",
	"Antibiotic Plus",
	"Vitamin D3",
}

// DefaultRegions — канонические названия регионов в порядке приоритета поиска.
var DefaultRegions = []string{
	"North America",
	"Europe",
	"Asia",
	"South America",
}

// Catalog — пара упорядоченных справочников. Значения хранятся в каноническом
// написании, поиск ведётся без учёта регистра.
type Catalog struct {
	Drugs   []string
	Regions []string
}

// Default возвращает справочник демо-набора данных (8 препаратов, 4 региона).
func Default() Catalog {
	return Catalog{
		Drugs:   DefaultDrugs,
		Regions: DefaultRegions,
	}
}

// EntitySet — результат детекции сущностей. nil означает "не найдено":
// отсутствие фильтра и фильтр по пустой строке — разные вещи для
// аналитического слоя, поэтому пустые строки здесь не появляются никогда.
type EntitySet struct {
	Drug   *string `json:"drug_name,omitempty"`
	Region *string `json:"region,omitempty"`
}

// Match сканирует фразу и возвращает первый найденный препарат и первый
// найденный регион (substring, без учёта регистра). Чистая функция: никаких
// побочных эффектов, повторный вызов на том же тексте даёт тот же результат.
func (c Catalog) Match(utterance string) EntitySet {
	lower := strings.ToLower(utterance)

	var set EntitySet
	for _, drug := range c.Drugs {
		if strings.Contains(lower, strings.ToLower(drug)) {
			d := drug
			set.Drug = &d
			break
		}
	}
	for _, region := range c.Regions {
		if strings.Contains(lower, strings.ToLower(region)) {
			r := region
			set.Region = &r
			break
		}
	}
	return set
}

// Canonical приводит значение к каноническому написанию из справочника.
// Сравнение точное, но без учёта регистра ("europe" → "Europe", ok=true).
// Значения вне справочника возвращаются как есть с ok=false.
func (c Catalog) Canonical(value string) (string, bool) {
	if drug, ok := c.CanonicalDrug(value); ok {
		return drug, true
	}
	if region, ok := c.CanonicalRegion(value); ok {
		return region, true
	}
	return value, false
}

// CanonicalDrug ищет значение только среди препаратов.
func (c Catalog) CanonicalDrug(value string) (string, bool) {
	return canonicalIn(c.Drugs, value)
}

// CanonicalRegion ищет значение только среди регионов.
func (c Catalog) CanonicalRegion(value string) (string, bool) {
	return canonicalIn(c.Regions, value)
}

func canonicalIn(values []string, value string) (string, bool) {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return v, true
		}
	}
	return value, false
}

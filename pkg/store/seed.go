package store

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/utils"
)

// sampleSalesCount — размер генерируемой истории продаж (год торговли).
const sampleSalesCount = 1000

// drugSeed — справочник препаратов демо-набора. Названия обязаны совпадать
// с каталогом сущностей, иначе извлечённые из реплик аргументы не найдут
// данных в базе.
var drugSeed = []struct {
	name         string
	category     string
	manufacturer string
	price        float64
	approved     string
}{
	{"Aspirin", "Pain Relief", "PharmaCorp", 0.50, "2010-01-15"},
	{"Ibuprofen", "Pain Relief", "MediLab", 0.75, "2008-03-20"},
	{"Medication X", "Cardiovascular", "HeartCare Inc", 15.25, "2018-06-10"},
	{"Allergy Relief", "Antihistamine", "AllergyMed", 2.30, "2015-09-05"},
	{"Blood Pressure Med", "Cardiovascular", "CardioTech", 8.90, "2012-11-30"},
	{"Diabetes Control", "Diabetes", "DiabetesCare", 12.50, "2019-04-18"},
	{"Antibiotic Plus", "Antibiotic", "InfectControl", 6.75, "2016-08-22"},
	{"Vitamin D3", "Supplement", "NutriHealth", 1.20, "2005-02-14"},
}

// repSeed — торговые представители. Каждый регион каталога закрыт хотя бы
// одним представителем.
var repSeed = []struct {
	id     string
	name   string
	region string
	hired  string
	score  float64
}{
	{"REP001", "John Smith", "North America", "2020-01-15", 8.5},
	{"REP002", "Sarah Johnson", "Europe", "2019-03-20", 9.2},
	{"REP003", "Mike Chen", "Asia", "2021-06-10", 7.8},
	{"REP004", "Emily Davis", "North America", "2018-09-05", 8.9},
	{"REP005", "Carlos Rodriguez", "South America", "2020-11-30", 8.1},
	{"REP006", "Lisa Wang", "Asia", "2019-04-18", 9.0},
	{"REP007", "David Brown", "Europe", "2021-08-22", 7.5},
	{"REP008", "Anna Mueller", "Europe", "2020-02-14", 8.7},
}

// seed наполняет пустую базу демонстрационными данными: справочники целиком
// и sampleSalesCount случайных продаж за последние 365 дней. Суммы привязаны
// к цене препарата с разбросом ±20%, представитель выбирается из региона
// продажи. Даты пишутся строками YYYY-MM-DD.
func (s *Store) seed() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, d := range drugSeed {
		if _, err := tx.Exec(
			"INSERT INTO drug_info (drug_name, category, manufacturer, price_per_unit, approval_date) VALUES (?, ?, ?, ?, ?)",
			d.name, d.category, d.manufacturer, d.price, d.approved,
		); err != nil {
			return fmt.Errorf("failed to insert drug %s: %w", d.name, err)
		}
	}

	for _, r := range repSeed {
		if _, err := tx.Exec(
			"INSERT INTO representatives (rep_id, name, region, hire_date, performance_score) VALUES (?, ?, ?, ?, ?)",
			r.id, r.name, r.region, r.hired, r.score,
		); err != nil {
			return fmt.Errorf("failed to insert representative %s: %w", r.id, err)
		}
	}

	repsByRegion := make(map[string][]string)
	for _, r := range repSeed {
		repsByRegion[r.region] = append(repsByRegion[r.region], r.id)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO sales_data (drug_name, region, sales_amount, quantity_sold, sale_date, representative_id) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare sales insert: %w", err)
	}
	defer stmt.Close()

	start := time.Now().AddDate(0, 0, -365)

	for i := 0; i < sampleSalesCount; i++ {
		drug := drugSeed[rand.Intn(len(drugSeed))]
		region := catalog.DefaultRegions[rand.Intn(len(catalog.DefaultRegions))]
		reps := repsByRegion[region]
		repID := reps[rand.Intn(len(reps))]

		quantity := 10 + rand.Intn(491)
		amount := float64(quantity) * drug.price * (0.8 + 0.4*rand.Float64())
		date := start.AddDate(0, 0, rand.Intn(366)).Format("2006-01-02")

		if _, err := stmt.Exec(drug.name, region, amount, quantity, date, repID); err != nil {
			return fmt.Errorf("failed to insert sale record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sample data: %w", err)
	}

	utils.Info("sample data seeded",
		"drugs", len(drugSeed),
		"representatives", len(repSeed),
		"sales", sampleSalesCount)

	return nil
}

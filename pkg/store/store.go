// Package store реализует SQLite-хранилище данных о продажах: схему
// (продажи, справочник препаратов, торговые представители), первичное
// наполнение демо-данными и выборки для аналитического движка.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	_ "github.com/mattn/go-sqlite3"
)

// Sale — одна запись о продаже из таблицы sales_data.
type Sale struct {
	ID       int64
	Drug     string
	Region   string
	Amount   float64
	Quantity int
	Date     time.Time
	RepID    string
}

// DrugRecord — справочная информация о препарате.
type DrugRecord struct {
	Name         string
	Category     string
	Manufacturer string
	PricePerUnit float64
	ApprovalDate time.Time
}

// Representative — торговый представитель, закреплённый за регионом.
type Representative struct {
	ID       string
	Name     string
	Region   string
	HireDate time.Time
	Score    float64
}

// SalesFilter — необязательные фильтры выборки продаж.
// Пустое поле означает отсутствие фильтра. Имя препарата ищется по
// подстроке (LIKE), регион сравнивается точно. Даты в формате YYYY-MM-DD,
// границы включительно.
type SalesFilter struct {
	Drug      string
	Region    string
	StartDate string
	EndDate   string
}

// Store — обёртка над *sql.DB с запросами предметной области.
// Безопасна для конкурентного использования.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sales_data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    drug_name TEXT NOT NULL,
    region TEXT NOT NULL,
    sales_amount REAL NOT NULL,
    quantity_sold INTEGER NOT NULL,
    sale_date DATE NOT NULL,
    representative_id TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS drug_info (
    drug_name TEXT PRIMARY KEY,
    category TEXT NOT NULL,
    manufacturer TEXT NOT NULL,
    price_per_unit REAL NOT NULL,
    approval_date DATE
);

CREATE TABLE IF NOT EXISTS representatives (
    rep_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    region TEXT NOT NULL,
    hire_date DATE,
    performance_score REAL
);
`

// Open открывает (или создаёт) базу по указанному пути, создаёт схему и при
// пустой таблице продаж наполняет её демонстрационным набором.
// Путь ":memory:" даёт чистую базу в памяти — этим пользуются тесты.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// SQLite допускает одного писателя; единственное соединение избавляет
	// от SQLITE_BUSY и делает :memory: базу общей для всех запросов пула.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close закрывает соединение с базой.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sales_data").Scan(&count); err != nil {
		return fmt.Errorf("failed to check sales_data: %w", err)
	}

	if count == 0 {
		if err := s.seed(); err != nil {
			return fmt.Errorf("failed to seed sample data: %w", err)
		}
	}

	return nil
}

// SalesData возвращает продажи с учётом фильтров в порядке вставки.
func (s *Store) SalesData(ctx context.Context, f SalesFilter) ([]Sale, error) {
	query := "SELECT id, drug_name, region, sales_amount, quantity_sold, sale_date, representative_id FROM sales_data WHERE 1=1"
	var args []any

	if f.Drug != "" {
		query += " AND drug_name LIKE ?"
		args = append(args, "%"+f.Drug+"%")
	}
	if f.Region != "" {
		query += " AND region = ?"
		args = append(args, f.Region)
	}
	if f.StartDate != "" {
		query += " AND sale_date >= ?"
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		query += " AND sale_date <= ?"
		args = append(args, f.EndDate)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales_data: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.Drug, &sale.Region, &sale.Amount, &sale.Quantity, &sale.Date, &sale.RepID); err != nil {
			return nil, fmt.Errorf("failed to scan sale row: %w", err)
		}
		sales = append(sales, sale)
	}

	return sales, rows.Err()
}

// DrugInfo возвращает справочник препаратов. Непустой drug сужает выборку
// по подстроке названия.
func (s *Store) DrugInfo(ctx context.Context, drug string) ([]DrugRecord, error) {
	query := "SELECT drug_name, category, manufacturer, price_per_unit, approval_date FROM drug_info"
	var args []any

	if drug != "" {
		query += " WHERE drug_name LIKE ?"
		args = append(args, "%"+drug+"%")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query drug_info: %w", err)
	}
	defer rows.Close()

	var drugs []DrugRecord
	for rows.Next() {
		var d DrugRecord
		if err := rows.Scan(&d.Name, &d.Category, &d.Manufacturer, &d.PricePerUnit, &d.ApprovalDate); err != nil {
			return nil, fmt.Errorf("failed to scan drug row: %w", err)
		}
		drugs = append(drugs, d)
	}

	return drugs, rows.Err()
}

// Representatives возвращает представителей, при непустом region — только
// закреплённых за этим регионом.
func (s *Store) Representatives(ctx context.Context, region string) ([]Representative, error) {
	query := "SELECT rep_id, name, region, hire_date, performance_score FROM representatives"
	var args []any

	if region != "" {
		query += " WHERE region = ?"
		args = append(args, region)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query representatives: %w", err)
	}
	defer rows.Close()

	var reps []Representative
	for rows.Next() {
		var r Representative
		if err := rows.Scan(&r.ID, &r.Name, &r.Region, &r.HireDate, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan representative row: %w", err)
		}
		reps = append(reps, r)
	}

	return reps, rows.Err()
}

// DataSummary собирает короткую сводку по базе. Строка подставляется в
// системный промпт удалённой модели как описание доступных данных.
func (s *Store) DataSummary(ctx context.Context) (string, error) {
	var (
		count    int
		minDate  string
		maxDate  string
		totalAmt float64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(MIN(sale_date), ''), COALESCE(MAX(sale_date), ''), COALESCE(SUM(sales_amount), 0) FROM sales_data",
	).Scan(&count, &minDate, &maxDate, &totalAmt)
	if err != nil {
		return "", fmt.Errorf("failed to aggregate sales_data: %w", err)
	}

	drugs, err := s.columnValues(ctx, "SELECT drug_name FROM drug_info")
	if err != nil {
		return "", err
	}

	regions, err := s.columnValues(ctx, "SELECT DISTINCT region FROM sales_data ORDER BY region")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`
Database Summary:
- Total sales records: %d
- Available drugs: %s
- Regions: %s
- Date range: %s to %s
- Total sales amount: $%s
`, count, strings.Join(drugs, ", "), strings.Join(regions, ", "), minDate, maxDate, humanize.FormatFloat("#,###.##", totalAmt)), nil
}

func (s *Store) columnValues(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan column value: %w", err)
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

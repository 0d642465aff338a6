package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestOpenSeedsSampleData(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sales, err := s.SalesData(ctx, SalesFilter{})
	require.NoError(t, err)
	require.Len(t, sales, sampleSalesCount)

	notBefore := time.Now().AddDate(0, 0, -366)
	notAfter := time.Now().AddDate(0, 0, 1)

	for _, sale := range sales {
		assert.GreaterOrEqual(t, sale.Quantity, 10)
		assert.LessOrEqual(t, sale.Quantity, 500)
		assert.Greater(t, sale.Amount, 0.0)
		assert.Contains(t, catalog.DefaultDrugs, sale.Drug)
		assert.Contains(t, catalog.DefaultRegions, sale.Region)
		assert.True(t, sale.Date.After(notBefore), "sale date %s is too old", sale.Date)
		assert.True(t, sale.Date.Before(notAfter), "sale date %s is in the future", sale.Date)
	}
}

func TestSalesRepMatchesRegion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	reps, err := s.Representatives(ctx, "")
	require.NoError(t, err)

	regionByRep := make(map[string]string, len(reps))
	for _, r := range reps {
		regionByRep[r.ID] = r.Region
	}

	sales, err := s.SalesData(ctx, SalesFilter{})
	require.NoError(t, err)

	for _, sale := range sales {
		require.Equal(t, sale.Region, regionByRep[sale.RepID],
			"sale in %s handled by representative %s from another region", sale.Region, sale.RepID)
	}
}

func TestSalesDataFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	byDrug, err := s.SalesData(ctx, SalesFilter{Drug: "Aspirin"})
	require.NoError(t, err)
	require.NotEmpty(t, byDrug)
	for _, sale := range byDrug {
		assert.Equal(t, "Aspirin", sale.Drug)
	}

	byRegion, err := s.SalesData(ctx, SalesFilter{Region: "Europe"})
	require.NoError(t, err)
	require.NotEmpty(t, byRegion)
	for _, sale := range byRegion {
		assert.Equal(t, "Europe", sale.Region)
	}

	both, err := s.SalesData(ctx, SalesFilter{Drug: "Aspirin", Region: "Europe"})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(both), len(byDrug))
	for _, sale := range both {
		assert.Equal(t, "Aspirin", sale.Drug)
		assert.Equal(t, "Europe", sale.Region)
	}
}

func TestSalesDataDateRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	startDate := time.Now().AddDate(0, 0, -30).Format("2006-01-02")

	recent, err := s.SalesData(ctx, SalesFilter{StartDate: startDate})
	require.NoError(t, err)
	require.NotEmpty(t, recent)
	require.Less(t, len(recent), sampleSalesCount)

	for _, sale := range recent {
		assert.GreaterOrEqual(t, sale.Date.Format("2006-01-02"), startDate)
	}
}

func TestDrugInfo(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	all, err := s.DrugInfo(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, len(catalog.DefaultDrugs))

	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	assert.Equal(t, catalog.DefaultDrugs, names, "seeded drugs must match the entity catalog")

	one, err := s.DrugInfo(ctx, "Aspirin")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Pain Relief", one[0].Category)
	assert.Equal(t, "PharmaCorp", one[0].Manufacturer)
	assert.InDelta(t, 0.50, one[0].PricePerUnit, 0.001)
}

func TestRepresentatives(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	all, err := s.Representatives(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, len(repSeed))

	covered := make(map[string]bool)
	for _, r := range all {
		covered[r.Region] = true
	}
	for _, region := range catalog.DefaultRegions {
		assert.True(t, covered[region], "region %s has no representative", region)
	}

	europe, err := s.Representatives(ctx, "Europe")
	require.NoError(t, err)
	assert.Len(t, europe, 3)
	for _, r := range europe {
		assert.Equal(t, "Europe", r.Region)
	}
}

func TestDataSummary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	summary, err := s.DataSummary(ctx)
	require.NoError(t, err)

	assert.Contains(t, summary, "Database Summary:")
	assert.Contains(t, summary, "- Total sales records: 1000")
	assert.Contains(t, summary, "- Available drugs: Aspirin, Ibuprofen, Medication X, Allergy Relief, Blood Pressure Med, Diabetes Control, Antibiotic Plus, Vitamin D3")
	assert.Contains(t, summary, "- Regions: Asia, Europe, North America, South America")
	assert.Contains(t, summary, "- Total sales amount: $")
	assert.Contains(t, summary, "- Date range: ")
}

func TestReopenDoesNotReseed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	sales, err := second.SalesData(context.Background(), SalesFilter{})
	require.NoError(t, err)
	assert.Len(t, sales, sampleSalesCount)
}

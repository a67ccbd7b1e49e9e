package dataset

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmay/placementdesk/internal/app/models"
)

func TestAggregate_ByBranch(t *testing.T) {
	records := []models.PlacementRecord{
		{Branch: "CSE", Batch: "2024", Company: "Acme", Package: "8"},
		{Branch: "CSE", Batch: "2024", Company: "Acme", Package: "12"},
		{Branch: "ECE", Batch: "2023", Company: "Initech", Package: "6"},
	}

	stats := Aggregate(records)

	assert.Equal(t, 3, stats.Total)
	require.Contains(t, stats.ByBranch, "CSE")
	require.Contains(t, stats.ByBranch, "ECE")
	assert.Equal(t, GroupStat{Count: 2, AvgPackage: 10.00}, stats.ByBranch["CSE"])
	assert.Equal(t, GroupStat{Count: 1, AvgPackage: 6.00}, stats.ByBranch["ECE"])
}

func TestAggregate_ByBatchAndRounding(t *testing.T) {
	records := []models.PlacementRecord{
		{Branch: "CSE", Batch: "2024", Company: "Acme", Package: "10"},
		{Branch: "CSE", Batch: "2024", Company: "Acme", Package: "10"},
		{Branch: "CSE", Batch: "2024", Company: "Acme", Package: "12"},
	}

	stats := Aggregate(records)

	// 32 / 3 = 10.666..., rounded to 2 decimal places.
	assert.Equal(t, GroupStat{Count: 3, AvgPackage: 10.67}, stats.ByBatch["2024"])
}

func TestAggregate_TopCompanies(t *testing.T) {
	var records []models.PlacementRecord
	add := func(company string, hires int) {
		for i := 0; i < hires; i++ {
			records = append(records, models.PlacementRecord{Branch: "CSE", Batch: "2024", Company: company, Package: "6"})
		}
	}
	add("Acme", 3)
	add("Initech", 1)
	add("TCS", 3) // ties with Acme, but Acme was seen first
	add("Globex", 2)
	add("Hooli", 1)
	add("Umbrella", 1)
	add("Stark", 5)

	stats := Aggregate(records)

	require.Len(t, stats.TopCompanies, TopCompaniesLimit)
	assert.Equal(t, CompanyStat{Company: "Stark", Count: 5}, stats.TopCompanies[0])
	assert.Equal(t, CompanyStat{Company: "Acme", Count: 3}, stats.TopCompanies[1])
	assert.Equal(t, CompanyStat{Company: "TCS", Count: 3}, stats.TopCompanies[2])
	assert.Equal(t, CompanyStat{Company: "Globex", Count: 2}, stats.TopCompanies[3])
	// Initech, Hooli, and Umbrella tie at 1; Initech appeared first.
	assert.Equal(t, CompanyStat{Company: "Initech", Count: 1}, stats.TopCompanies[4])
}

func TestAggregate_PackageDistribution(t *testing.T) {
	records := []models.PlacementRecord{
		{Branch: "CSE", Batch: "2024", Company: "A", Package: "3"},
		{Branch: "CSE", Batch: "2024", Company: "A", Package: "5"},
		{Branch: "CSE", Batch: "2024", Company: "A", Package: "10"},
		{Branch: "CSE", Batch: "2024", Company: "A", Package: "20"},
		{Branch: "CSE", Batch: "2024", Company: "A", Package: "garbage"},
	}

	stats := Aggregate(records)

	assert.Equal(t, 2, stats.Distribution[BucketUnder5]) // 3 and the unparsable value
	assert.Equal(t, 1, stats.Distribution[Bucket5To10])
	assert.Equal(t, 1, stats.Distribution[Bucket10To20])
	assert.Equal(t, 1, stats.Distribution[BucketOver20])
}

func TestAggregate_EmptyView(t *testing.T) {
	stats := Aggregate(nil)

	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.ByBranch)
	assert.Empty(t, stats.ByBatch)
	assert.Empty(t, stats.TopCompanies)
	for bucket, count := range stats.Distribution {
		assert.Zero(t, count, fmt.Sprintf("bucket %s should be empty", bucket))
	}
}

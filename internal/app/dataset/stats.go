package dataset

import (
	"math"
	"sort"

	"github.com/tanmay/placementdesk/internal/app/models"
)

// TopCompaniesLimit caps the company ranking.
const TopCompaniesLimit = 5

// GroupStat is the count and average package for one branch or batch.
type GroupStat struct {
	Count      int     `json:"count"`
	AvgPackage float64 `json:"avgPackage"` // rounded to 2 decimal places
}

// CompanyStat is one entry in the company ranking.
type CompanyStat struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// Statistics holds every derived statistic for one filtered view. It is
// ephemeral: recomputed in full on each call, never persisted.
type Statistics struct {
	Total        int                  `json:"total"`
	ByBranch     map[string]GroupStat `json:"byBranch"`
	ByBatch      map[string]GroupStat `json:"byBatch"`
	TopCompanies []CompanyStat        `json:"topCompanies"`
	Distribution map[Bucket]int       `json:"packageDistribution"`
}

// Aggregate computes the derived statistics over a filtered view.
func Aggregate(records []models.PlacementRecord) Statistics {
	stats := Statistics{
		Total:    len(records),
		ByBranch: make(map[string]GroupStat),
		ByBatch:  make(map[string]GroupStat),
		Distribution: map[Bucket]int{
			BucketUnder5: 0,
			Bucket5To10:  0,
			Bucket10To20: 0,
			BucketOver20: 0,
		},
	}

	branchSums := make(map[string]float64)
	batchSums := make(map[string]float64)
	companyCounts := make(map[string]int)
	var companyOrder []string

	for i := range records {
		r := &records[i]
		pkg := PackageValue(r.Package)

		branchStat := stats.ByBranch[r.Branch]
		branchStat.Count++
		stats.ByBranch[r.Branch] = branchStat
		branchSums[r.Branch] += pkg

		batchStat := stats.ByBatch[r.Batch]
		batchStat.Count++
		stats.ByBatch[r.Batch] = batchStat
		batchSums[r.Batch] += pkg

		if _, seen := companyCounts[r.Company]; !seen {
			companyOrder = append(companyOrder, r.Company)
		}
		companyCounts[r.Company]++

		stats.Distribution[BucketFor(pkg)]++
	}

	for branch, stat := range stats.ByBranch {
		stat.AvgPackage = round2(branchSums[branch] / float64(stat.Count))
		stats.ByBranch[branch] = stat
	}
	for batch, stat := range stats.ByBatch {
		stat.AvgPackage = round2(batchSums[batch] / float64(stat.Count))
		stats.ByBatch[batch] = stat
	}

	// Rank companies by hire count descending. The stable sort keeps ties in
	// the order the company first appears in the view.
	sort.SliceStable(companyOrder, func(i, j int) bool {
		return companyCounts[companyOrder[i]] > companyCounts[companyOrder[j]]
	})
	if len(companyOrder) > TopCompaniesLimit {
		companyOrder = companyOrder[:TopCompaniesLimit]
	}
	for _, company := range companyOrder {
		stats.TopCompanies = append(stats.TopCompanies, CompanyStat{Company: company, Count: companyCounts[company]})
	}

	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package dataset holds the consumer-side view of the placement dataset: a
// polling store over a fetch collaborator, a filter and aggregation engine,
// and a debouncer for search input.
package dataset

import (
	"strconv"
	"strings"

	"github.com/tanmay/placementdesk/internal/app/models"
)

// Bucket is one of the four package-range categories.
type Bucket string

const (
	BucketUnder5  Bucket = "<5LPA"
	Bucket5To10   Bucket = "5-10LPA"
	Bucket10To20  Bucket = "10-20LPA"
	BucketOver20  Bucket = "20LPA+"
	bucketInvalid Bucket = ""
)

// ParseBucket returns the Bucket for a query value, or false if the value
// does not name a known bucket. The empty string means "no bucket filter".
func ParseBucket(s string) (Bucket, bool) {
	switch Bucket(s) {
	case BucketUnder5, Bucket5To10, Bucket10To20, BucketOver20:
		return Bucket(s), true
	case bucketInvalid:
		return bucketInvalid, true
	}
	return bucketInvalid, false
}

// PackageValue parses a package string as a float. Unparsable values are
// treated as 0, which places them in the <5LPA bucket.
func PackageValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// BucketFor classifies a package value. Boundaries are half-open: exactly 5
// falls in 5-10LPA, exactly 10 in 10-20LPA, exactly 20 in 20LPA+.
func BucketFor(pkg float64) Bucket {
	switch {
	case pkg < 5:
		return BucketUnder5
	case pkg < 10:
		return Bucket5To10
	case pkg < 20:
		return Bucket10To20
	default:
		return BucketOver20
	}
}

// Filter is a set of predicates applied to the fetched dataset. Zero values
// mean "match everything".
type Filter struct {
	Search string // case-insensitive substring, any field
	Branch string // exact match
	Batch  string // exact match
	Bucket Bucket // package-range bucket
}

// Matches reports whether a record passes every active predicate.
func (f Filter) Matches(r *models.PlacementRecord) bool {
	if f.Branch != "" && r.Branch != f.Branch {
		return false
	}
	if f.Batch != "" && r.Batch != f.Batch {
		return false
	}
	if f.Bucket != bucketInvalid && BucketFor(PackageValue(r.Package)) != f.Bucket {
		return false
	}
	if f.Search != "" && !matchesSearch(r, f.Search) {
		return false
	}
	return true
}

// matchesSearch checks the search term against the string form of every
// field, including the identifier.
func matchesSearch(r *models.PlacementRecord, term string) bool {
	term = strings.ToLower(term)
	for _, v := range []string{r.ID, r.Name, r.RegNo, r.Batch, r.Company, r.Package, r.Branch, r.PlacedDate} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// Apply returns the filtered subsequence, preserving original relative order.
func (f Filter) Apply(records []models.PlacementRecord) []models.PlacementRecord {
	filtered := make([]models.PlacementRecord, 0, len(records))
	for i := range records {
		if f.Matches(&records[i]) {
			filtered = append(filtered, records[i])
		}
	}
	return filtered
}

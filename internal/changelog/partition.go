package changelog

import (
	"sort"
	"strings"
	"time"
)

// NormalizeCategory maps "fixes" and "fixed" in any case to "Fixed".
// Every other name is returned unchanged.
func NormalizeCategory(name string) string {
	switch strings.ToLower(name) {
	case "fixes", "fixed":
		return "Fixed"
	}
	return name
}

// Partition splits doc into entries kept for now's month and merged buckets
// for every other month. now is read once; callers pass the same instant for
// a whole run.
func Partition(doc *Document, now time.Time) *Result {
	currentMonth := MonthKey(now)
	result := &Result{Header: doc.Header}
	buckets := make(map[string]*MonthBucket)

	for _, entry := range doc.Entries {
		if entry.Unparsed || entry.MonthKey() == currentMonth {
			result.Kept = append(result.Kept, entry)
			continue
		}
		mergeEntry(buckets, entry)
	}

	result.Months = sortBuckets(buckets)
	return result
}

// mergeEntry appends every category of entry to its month bucket.
func mergeEntry(buckets map[string]*MonthBucket, entry Entry) {
	key := entry.MonthKey()
	bucket, ok := buckets[key]
	if !ok {
		bucket = &MonthBucket{
			Key:        key,
			Month:      time.Date(entry.Date.Year(), entry.Date.Month(), 1, 0, 0, 0, 0, time.UTC),
			Categories: NewCategories(Alphabetical),
		}
		buckets[key] = bucket
	}

	for _, name := range entry.Categories.Names() {
		bucket.Categories.Append(NormalizeCategory(name), entry.Categories.Items(name)...)
	}
	bucket.Entries++
}

// sortBuckets returns the buckets newest month first.
func sortBuckets(buckets map[string]*MonthBucket) []MonthBucket {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	months := make([]MonthBucket, 0, len(keys))
	for _, key := range keys {
		months = append(months, *buckets[key])
	}
	return months
}

// Consolidate parses src and partitions it around now's month.
func Consolidate(src []byte, now time.Time, opts ...ParseOption) (*Result, error) {
	doc, err := Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	return Partition(doc, now), nil
}

package changelog

// Stats summarizes a consolidation run.
type Stats struct {
	Entries       int `yaml:"entries"`
	KeptEntries   int `yaml:"kept_entries"`
	MergedEntries int `yaml:"merged_entries"`
	Months        int `yaml:"months"`
	Items         int `yaml:"items"`
}

// Summarize counts what a result contains.
func Summarize(r *Result) Stats {
	stats := Stats{
		KeptEntries: len(r.Kept),
		Months:      len(r.Months),
	}

	for _, entry := range r.Kept {
		stats.Items += entry.Categories.ItemCount()
	}
	for _, month := range r.Months {
		stats.MergedEntries += month.Entries
		stats.Items += month.Categories.ItemCount()
	}
	stats.Entries = stats.KeptEntries + stats.MergedEntries

	return stats
}

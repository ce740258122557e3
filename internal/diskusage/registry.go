package diskusage

import "sort"

// Registry maps directory paths to their finished aggregates.
type Registry map[string]*Aggregate

// Entry pairs a registered path with its aggregate.
type Entry struct {
	Path      string
	Aggregate *Aggregate
}

// BySize returns all entries ordered by total bytes, largest first.
// Entries of equal size are ordered by path.
func (r Registry) BySize() []Entry {
	entries := make([]Entry, 0, len(r))
	for path, agg := range r {
		entries = append(entries, Entry{Path: path, Aggregate: agg})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Aggregate.TotalBytes != entries[j].Aggregate.TotalBytes {
			return entries[i].Aggregate.TotalBytes > entries[j].Aggregate.TotalBytes
		}

		return entries[i].Path < entries[j].Path
	})

	return entries
}

package domain

// ReferenceEntry is one (name, symbol) pair from a reference set.
// Two sets exist: safe_tokens (canonical legitimate tokens) and
// fake_directory (previously confirmed scam pairs).
type ReferenceEntry struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Key identifies an entry for deduplication on (name, symbol).
type ReferenceKey struct {
	Name   string
	Symbol string
}

// Key returns the dedup key for the entry.
func (e ReferenceEntry) Key() ReferenceKey {
	return ReferenceKey{Name: e.Name, Symbol: e.Symbol}
}

// DedupeReferenceEntries removes duplicate (name, symbol) pairs while
// preserving first-seen order. Duplicate rows in a reference set must not
// bias the match nor add scan cost.
func DedupeReferenceEntries(entries []ReferenceEntry) []ReferenceEntry {
	if len(entries) == 0 {
		return nil
	}
	seen := make(map[ReferenceKey]struct{}, len(entries))
	out := make([]ReferenceEntry, 0, len(entries))
	for _, e := range entries {
		k := e.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

package aggregate

import "github.com/jimezsa/jobmailer/internal/models"

// DefaultMaxResults caps a ResultSet when no positive limit is given.
const DefaultMaxResults = 20

// Stats captures what a single Dedup scan did.
type Stats struct {
	Scanned    int
	Kept       int
	Duplicates int
	EmptyLinks int
	Capped     bool
}

// Dedup keeps the first result for each non-empty link, in input order, and
// stops scanning once limit results are kept.
func Dedup(aggregated []models.Result, limit int) models.ResultSet {
	set, _ := DedupWithStats(aggregated, limit)
	return set
}

// DedupWithStats is Dedup plus scan statistics. Results with an empty link
// are dropped without touching the seen set or the kept count.
func DedupWithStats(aggregated []models.Result, limit int) (models.ResultSet, Stats) {
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	var stats Stats
	seen := make(map[string]struct{}, len(aggregated))
	out := make(models.ResultSet, 0, min(len(aggregated), limit))

	for _, result := range aggregated {
		stats.Scanned++
		switch _, dup := seen[result.Link]; {
		case result.Link == "":
			stats.EmptyLinks++
		case dup:
			stats.Duplicates++
		default:
			seen[result.Link] = struct{}{}
			out = append(out, result)
		}
		if len(out) >= limit {
			stats.Capped = true
			break
		}
	}

	stats.Kept = len(out)
	return out, stats
}

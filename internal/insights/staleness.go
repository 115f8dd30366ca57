package insights

import (
	"time"

	"careerly/internal/core"
)

// IsStale reports whether an insight must be regenerated. Empty salary data
// marks a placeholder that never had a successful generation, so it forces a
// retry regardless of timestamps; otherwise the record is stale once its
// NextUpdate has passed.
func IsStale(insight *core.IndustryInsight, now time.Time) bool {
	if len(insight.SalaryRanges) == 0 {
		return true
	}
	return !insight.NextUpdate.After(now)
}

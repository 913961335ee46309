package logbook

import (
	"sort"
	"strings"
	"time"

	"stillhouse/domain"
	"stillhouse/entities"
)

var dateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate reads the date formats the log forms produce. Unparseable dates
// return the zero time and sort last.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Merge combines both streams newest first. Entries with the same date keep
// their input order, distillations before bottlings.
func Merge(distillations []*entities.DistillationLog, bottlings []*entities.BottlingLog) []domain.LogEntry {
	entries := make([]domain.LogEntry, 0, len(distillations)+len(bottlings))
	for _, d := range distillations {
		entries = append(entries, domain.LogEntry{
			Kind:         domain.LogKindDistillation,
			Date:         d.Date,
			Timestamp:    d.RecordedAt,
			Distillation: d,
		})
	}
	for _, b := range bottlings {
		entries = append(entries, domain.LogEntry{
			Kind:      domain.LogKindBottling,
			Date:      b.Date,
			Timestamp: b.RecordedAt,
			Bottling:  b,
		})
	}

	dates := make([]time.Time, len(entries))
	for i := range entries {
		dates[i] = ParseDate(entries[i].Date)
	}
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return dates[idx[a]].After(dates[idx[b]])
	})

	sorted := make([]domain.LogEntry, len(entries))
	for i, j := range idx {
		sorted[i] = entries[j]
	}
	return sorted
}

// Paginate slices one page of LogPageSize entries. Pages past the end are
// empty; page numbers are not clamped.
func Paginate(entries []domain.LogEntry, page int) domain.LogPage {
	total := len(entries)
	res := domain.LogPage{
		Entries:    []domain.LogEntry{},
		Page:       page,
		PageSize:   domain.LogPageSize,
		Total:      total,
		TotalPages: (total + domain.LogPageSize - 1) / domain.LogPageSize,
	}
	if page < 1 {
		return res
	}

	start := (page - 1) * domain.LogPageSize
	if start >= total {
		return res
	}
	end := start + domain.LogPageSize
	if end > total {
		end = total
	}
	res.Entries = entries[start:end]
	return res
}

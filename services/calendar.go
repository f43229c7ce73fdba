package services

import (
	"sort"
	"time"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
)

// DayMarker summarises the appointments of one calendar day.
type DayMarker struct {
	Day    string       `json:"day"` // YYYY-MM-DD
	Status model.Status `json:"status"`
	Count  int          `json:"count"`
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

// DayMarkers returns one marker per day holding at least one appointment,
// ordered by day. A day is late if any appointment is late, else pending if
// any is pending, else completed.
func DayMarkers(items []model.Appointment, loc *time.Location) []DayMarker {
	byDay := map[string]*DayMarker{}
	for _, a := range items {
		k := dayKey(a.Date, loc)
		m, ok := byDay[k]
		if !ok {
			m = &DayMarker{Day: k, Status: model.StatusCompleted}
			byDay[k] = m
		}
		m.Count++
		if rank(a.Status) > rank(m.Status) {
			m.Status = a.Status
		}
	}

	out := make([]DayMarker, 0, len(byDay))
	for _, m := range byDay {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

func rank(s model.Status) int {
	switch s {
	case model.StatusLate:
		return 2
	case model.StatusPending:
		return 1
	}
	return 0
}

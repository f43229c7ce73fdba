package services

import (
	"strings"
	"time"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
)

// Alerts created before the appointmentId back-reference existed can only be
// matched by company name and calendar day. legacyIndex performs that match
// once per alert: an adopted alert gets the back-reference written and is never
// offered again, so two appointments with the same title on the same day
// cannot share one alert.
type legacyIndex struct {
	loc     *time.Location
	byKey   map[string][]model.Alert
	claimed map[string]bool
}

func newLegacyIndex(alerts []model.Alert, loc *time.Location) *legacyIndex {
	idx := &legacyIndex{loc: loc, byKey: map[string][]model.Alert{}, claimed: map[string]bool{}}
	for _, al := range alerts {
		if al.Kind != model.KindRendezVous || al.AppointmentID != "" {
			continue
		}
		k := idx.key(al.Company, al.Date)
		idx.byKey[k] = append(idx.byKey[k], al)
	}
	return idx
}

func (idx *legacyIndex) key(name string, day time.Time) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + dayKey(day, idx.loc)
}

// claim returns the first unclaimed legacy alert matching a.
func (idx *legacyIndex) claim(a *model.Appointment) (model.Alert, bool) {
	for _, al := range idx.byKey[idx.key(a.Title, a.Date)] {
		if idx.claimed[al.ID] {
			continue
		}
		idx.claimed[al.ID] = true
		return al, true
	}
	return model.Alert{}, false
}

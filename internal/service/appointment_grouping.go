package service

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/grindsup/trainer-gateway/internal/models"
)

// seriesSignature identifies appointments that belong to the same recurring
// series. The backend has no series entity, so membership is inferred from
// exact equality of these four parts. Unrelated bookings that happen to share
// them are merged as well.
type seriesSignature struct {
	Type     string
	Trainer  string
	Students string
	Clock    string
}

func signatureOf(appt models.Appointment) seriesSignature {
	return seriesSignature{
		Type:     strings.ToLower(strings.TrimSpace(string(appt.Type))),
		Trainer:  appt.TrainerName,
		Students: strings.Join(appt.StudentNames, ", "),
		Clock:    appt.ScheduledAt.Format("15:04"),
	}
}

func (s seriesSignature) key() string {
	raw := strings.Join([]string{s.Type, s.Trainer, s.Students, s.Clock}, "\x1f")
	return "series-" + base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func simpleKey(id int64) string {
	return fmt.Sprintf("id-%d", id)
}

// GroupAppointments collapses structurally identical appointments into series
// rows. Appointments without a parseable timestamp are left out. Groups of one
// become simple rows holding the appointment unchanged. Rows are ordered by
// their own timestamp (simple) or series start (series); ties keep input order.
func GroupAppointments(appointments []models.Appointment, now time.Time) []models.AppointmentRow {
	var order []seriesSignature
	groups := make(map[seriesSignature][]models.Appointment)
	for _, appt := range appointments {
		if !appt.Schedulable() {
			continue
		}
		sig := signatureOf(appt)
		if _, seen := groups[sig]; !seen {
			order = append(order, sig)
		}
		groups[sig] = append(groups[sig], appt)
	}

	rows := make([]models.AppointmentRow, 0, len(order))
	for _, sig := range order {
		members := groups[sig]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].ScheduledAt.Before(members[j].ScheduledAt)
		})

		if len(members) == 1 {
			rows = append(rows, models.AppointmentRow{
				Kind:        models.RowKindSimple,
				Key:         simpleKey(members[0].ID),
				Appointment: members[0],
			})
			continue
		}

		ids := make([]int64, len(members))
		for i, m := range members {
			ids[i] = m.ID
		}
		from := members[0].ScheduledAt
		to := members[len(members)-1].ScheduledAt
		rows = append(rows, models.AppointmentRow{
			Kind:        models.RowKindSeries,
			Key:         sig.key(),
			Appointment: representative(members, now),
			Count:       len(members),
			From:        &from,
			To:          &to,
			MemberIDs:   ids,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SortTime().Before(rows[j].SortTime())
	})
	return rows
}

// representative picks the next upcoming member, or the first one when the
// whole series is in the past. members must be sorted by time.
func representative(members []models.Appointment, now time.Time) models.Appointment {
	for _, m := range members {
		if !m.ScheduledAt.Before(now) {
			return m
		}
	}
	return members[0]
}

// PendingAppointments keeps appointments scheduled at or after now.
// Unparseable timestamps are dropped.
func PendingAppointments(appointments []models.Appointment, now time.Time) []models.Appointment {
	pending := make([]models.Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if appt.Schedulable() && !appt.ScheduledAt.Before(now) {
			pending = append(pending, appt)
		}
	}
	return pending
}

package models

import "time"

// AppointmentType classifies a booking.
type AppointmentType string

const (
	AppointmentTypeIndividual AppointmentType = "individual"
	AppointmentTypeGroup      AppointmentType = "group"
)

// Appointment is a booking ("turno") between a trainer and one or more students.
type Appointment struct {
	ID           int64           `json:"id"`
	ScheduledAt  time.Time       `json:"scheduledAt"`
	Type         AppointmentType `json:"type"`
	TrainerID    *int64          `json:"trainerId,omitempty"`
	TrainerName  string          `json:"trainerName"`
	StudentIDs   []int64         `json:"studentIds"`
	StudentNames []string        `json:"studentNames"`
	Capacity     int             `json:"capacity"`
}

// Schedulable reports whether the backend timestamp could be parsed.
func (a Appointment) Schedulable() bool {
	return !a.ScheduledAt.IsZero()
}

// RowKind tells simple rows from collapsed recurring series.
type RowKind string

const (
	RowKindSimple RowKind = "simple"
	RowKindSeries RowKind = "series"
)

// AppointmentRow is one line of the agenda. Series rows carry the representative
// appointment plus the span and members of the series.
type AppointmentRow struct {
	Kind        RowKind     `json:"kind"`
	Key         string      `json:"key"`
	Appointment Appointment `json:"appointment"`
	Count       int         `json:"count,omitempty"`
	From        *time.Time  `json:"from,omitempty"`
	To          *time.Time  `json:"to,omitempty"`
	MemberIDs   []int64     `json:"memberIds,omitempty"`
}

// SortTime is the instant used to order rows.
func (r AppointmentRow) SortTime() time.Time {
	if r.Kind == RowKindSeries && r.From != nil {
		return *r.From
	}
	return r.Appointment.ScheduledAt
}

// IDs lists every appointment id covered by the row.
func (r AppointmentRow) IDs() []int64 {
	if r.Kind == RowKindSeries {
		return append([]int64(nil), r.MemberIDs...)
	}
	return []int64{r.Appointment.ID}
}

// AppointmentFilter narrows a trainer's appointment listing.
type AppointmentFilter struct {
	TrainerID int64
	From      *time.Time
	To        *time.Time
	Type      AppointmentType
}

// AgendaView is the grouped pending agenda returned to the front end.
type AgendaView struct {
	Rows        []AppointmentRow `json:"rows"`
	Total       int              `json:"total"`
	Warning     string           `json:"warning,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// SeriesDeleteResult discloses how far a series delete got.
type SeriesDeleteResult struct {
	Requested    int     `json:"requested"`
	DeletedIDs   []int64 `json:"deletedIds"`
	RemainingIDs []int64 `json:"remainingIds"`
	FailedID     *int64  `json:"failedId,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Complete reports whether every member was deleted.
func (r SeriesDeleteResult) Complete() bool {
	return r.FailedID == nil && len(r.RemainingIDs) == 0
}

// RowDeleteResult is returned after deleting an agenda row.
type RowDeleteResult struct {
	Kind       RowKind             `json:"kind"`
	DeletedIDs []int64             `json:"deletedIds"`
	Series     *SeriesDeleteResult `json:"series,omitempty"`
	Agenda     AgendaView          `json:"agenda"`
}

package models

import "time"

// TrainerReport aggregates backend statistics for a trainer and period.
type TrainerReport struct {
	TrainerID              int64     `json:"trainerId"`
	From                   string    `json:"from,omitempty"`
	To                     string    `json:"to,omitempty"`
	TotalAppointments      int       `json:"totalAppointments"`
	IndividualAppointments int       `json:"individualAppointments"`
	GroupAppointments      int       `json:"groupAppointments"`
	ActiveStudents         int       `json:"activeStudents"`
	ActivePlans            int       `json:"activePlans"`
	AttendanceRate         float64   `json:"attendanceRate"`
	GeneratedAt            time.Time `json:"generatedAt"`
}

// CalendarEntry is an appointment placed on a calendar day.
type CalendarEntry struct {
	AppointmentID int64           `json:"appointmentId"`
	Time          string          `json:"time"`
	Type          AppointmentType `json:"type"`
	StudentNames  []string        `json:"studentNames"`
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date    string          `json:"date"`
	InMonth bool            `json:"inMonth"`
	Today   bool            `json:"today"`
	Entries []CalendarEntry `json:"entries"`
}

// CalendarWeek is a Monday-first row of seven days.
type CalendarWeek struct {
	Days []CalendarDay `json:"days"`
}

// CalendarMonth is the month grid shown by the schedule screen.
type CalendarMonth struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Weeks []CalendarWeek `json:"weeks"`
}

// SystemMetrics is a lightweight snapshot of gateway instrumentation.
type SystemMetrics struct {
	CacheHitRatio             float64   `json:"cacheHitRatio"`
	CacheHits                 uint64    `json:"cacheHits"`
	CacheMisses               uint64    `json:"cacheMisses"`
	RequestsTotal             uint64    `json:"requestsTotal"`
	AverageRequestDurationMs  float64   `json:"averageRequestDurationMs"`
	UpstreamCalls             uint64    `json:"upstreamCalls"`
	AverageUpstreamDurationMs float64   `json:"averageUpstreamDurationMs"`
	KVQueryCount              uint64    `json:"kvQueryCount"`
	AverageKVQueryDurationMs  float64   `json:"averageKvQueryDurationMs"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generatedAt"`
}

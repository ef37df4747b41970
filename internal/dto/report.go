package dto

// ReportQuery bounds report statistics by date (YYYY-MM-DD, both optional).
type ReportQuery struct {
	From string `form:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// CalendarQuery selects the month shown by the calendar grid.
type CalendarQuery struct {
	Year  int `form:"year" json:"year" validate:"omitempty,min=2000,max=2100"`
	Month int `form:"month" json:"month" validate:"omitempty,min=1,max=12"`
}

// AppointmentListQuery narrows the agenda.
type AppointmentListQuery struct {
	From string `form:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
	Type string `form:"type" json:"type" validate:"omitempty,oneof=individual group"`
}

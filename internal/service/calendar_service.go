package service

import (
	"sort"
	"time"

	"github.com/grindsup/trainer-gateway/internal/models"
)

const dateLayout = "2006-01-02"

// CalendarService lays appointments out on a Monday-first month grid.
type CalendarService struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendarService constructs a calendar service for loc.
func NewCalendarService(loc *time.Location) *CalendarService {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarService{loc: loc, now: time.Now}
}

// Resolve fills a zero year or month with the current one.
func (s *CalendarService) Resolve(year, month int) (int, int) {
	now := s.now().In(s.loc)
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return year, month
}

// Range returns the first and last instant covered by the grid of a month,
// including the leading and trailing days of adjacent months.
func (s *CalendarService) Range(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -mondayOffset(first))
	end := last.AddDate(0, 0, 6-mondayOffset(last))
	return start, time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), s.loc)
}

// Month builds the grid. Appointments outside it or without a timestamp are ignored.
func (s *CalendarService) Month(year, month int, appointments []models.Appointment) models.CalendarMonth {
	start, end := s.Range(year, month)
	today := s.now().In(s.loc).Format(dateLayout)

	byDay := make(map[string][]models.Appointment)
	for _, appt := range appointments {
		if !appt.Schedulable() {
			continue
		}
		local := appt.ScheduledAt.In(s.loc)
		if local.Before(start) || local.After(end) {
			continue
		}
		day := local.Format(dateLayout)
		byDay[day] = append(byDay[day], appt)
	}

	grid := models.CalendarMonth{Year: year, Month: month}
	var week models.CalendarWeek
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		cell := models.CalendarDay{
			Date:    key,
			InMonth: int(day.Month()) == month,
			Today:   key == today,
			Entries: []models.CalendarEntry{},
		}
		items := byDay[key]
		sort.SliceStable(items, func(i, j int) bool { return items[i].ScheduledAt.Before(items[j].ScheduledAt) })
		for _, appt := range items {
			cell.Entries = append(cell.Entries, models.CalendarEntry{
				AppointmentID: appt.ID,
				Time:          appt.ScheduledAt.In(s.loc).Format("15:04"),
				Type:          appt.Type,
				StudentNames:  appt.StudentNames,
			})
		}
		week.Days = append(week.Days, cell)
		if len(week.Days) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = models.CalendarWeek{}
		}
	}
	return grid
}

func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

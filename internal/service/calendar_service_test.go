package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindsup/trainer-gateway/internal/models"
)

func TestCalendarMonthGrid(t *testing.T) {
	svc := NewCalendarService(time.UTC)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }

	appointments := []models.Appointment{
		appt(2, at(t, "2025-03-10T18:00"), models.AppointmentTypeIndividual, "Ana", "Luis"),
		appt(1, at(t, "2025-03-10T08:00"), models.AppointmentTypeGroup, "Ana", "Marta", "Pedro"),
		appt(3, at(t, "2025-02-24T08:00"), models.AppointmentTypeIndividual, "Ana"),
		appt(4, at(t, "2025-05-01T08:00"), models.AppointmentTypeIndividual, "Ana"),
		appt(5, time.Time{}, models.AppointmentTypeIndividual, "Ana"),
	}

	grid := svc.Month(2025, 3, appointments)
	require.Len(t, grid.Weeks, 6)
	first := grid.Weeks[0].Days[0]
	assert.Equal(t, "2025-02-24", first.Date)
	assert.False(t, first.InMonth)
	require.Len(t, first.Entries, 1)
	assert.Equal(t, int64(3), first.Entries[0].AppointmentID)

	last := grid.Weeks[5].Days[6]
	assert.Equal(t, "2025-04-06", last.Date)

	var monday10 models.CalendarDay
	for _, week := range grid.Weeks {
		require.Len(t, week.Days, 7)
		for _, day := range week.Days {
			if day.Date == "2025-03-10" {
				monday10 = day
			}
		}
	}
	assert.True(t, monday10.Today)
	assert.True(t, monday10.InMonth)
	require.Len(t, monday10.Entries, 2)
	assert.Equal(t, "08:00", monday10.Entries[0].Time)
	assert.Equal(t, []string{"Marta", "Pedro"}, monday10.Entries[0].StudentNames)
	assert.Equal(t, "18:00", monday10.Entries[1].Time)
}

func TestCalendarResolveDefaults(t *testing.T) {
	svc := NewCalendarService(time.UTC)
	svc.now = func() time.Time { return time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC) }

	year, month := svc.Resolve(0, 0)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 7, month)

	year, month = svc.Resolve(2024, 2)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 2, month)

	start, end := svc.Range(2024, 2)
	assert.Equal(t, "2024-01-29", start.Format(dateLayout))
	assert.Equal(t, "2024-03-03", end.Format(dateLayout))
}

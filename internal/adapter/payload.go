package adapter

import (
	"time"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
)

// localLayout is how the backend expects zone-less local date-times.
const localLayout = "2006-01-02T15:04:05"

// FormatLocal renders ts in loc the way the backend stores it.
func FormatLocal(ts time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return ts.In(loc).Format(localLayout)
}

func backendType(t models.AppointmentType) string {
	if t == models.AppointmentTypeGroup {
		return "grupal"
	}
	return string(t)
}

// AppointmentPayload maps the appointment form onto the backend shape.
func AppointmentPayload(req dto.CreateAppointmentRequest, trainerID int64, loc *time.Location) Record {
	students := req.StudentIDs
	if students == nil {
		students = []int64{}
	}
	return Record{
		"fechaHora":     FormatLocal(req.ScheduledAt, loc),
		"tipo":          backendType(NormalizeType(req.Type)),
		"cupo":          req.Capacity,
		"entrenadorId":  trainerID,
		"alumnosIds":    students,
		"observaciones": req.Notes,
	}
}

// ReschedulePayload carries only the new date-time.
func ReschedulePayload(req dto.RescheduleAppointmentRequest, loc *time.Location) Record {
	return Record{"fechaHora": FormatLocal(req.ScheduledAt, loc)}
}

// StudentPayload maps the student form.
func StudentPayload(req dto.StudentRequest, trainerID int64, loc *time.Location) Record {
	rec := Record{
		"nombre":       req.FirstName,
		"apellido":     req.LastName,
		"documento":    req.DocumentNumber,
		"email":        req.Email,
		"telefono":     req.Phone,
		"entrenadorId": trainerID,
	}
	if req.BirthDate != nil {
		rec["fechaNacimiento"] = req.BirthDate.In(locOrUTC(loc)).Format("2006-01-02")
	}
	return rec
}

// ExercisePayload maps the exercise form.
func ExercisePayload(req dto.ExerciseRequest) Record {
	return Record{
		"nombre":        req.Name,
		"descripcion":   req.Description,
		"grupoMuscular": req.MuscleGroup,
		"equipamiento":  req.Equipment,
		"videoUrl":      req.VideoURL,
	}
}

// PlanPayload maps the plan form.
func PlanPayload(req dto.PlanRequest, trainerID int64, loc *time.Location) Record {
	loc = locOrUTC(loc)
	return Record{
		"alumnoId":      req.StudentID,
		"entrenadorId":  trainerID,
		"nombre":        req.Name,
		"objetivo":      req.Goal,
		"fechaInicio":   req.StartDate.In(loc).Format("2006-01-02"),
		"fechaFin":      req.EndDate.In(loc).Format("2006-01-02"),
		"observaciones": req.Notes,
	}
}

// RoutinePayload maps the routine form; exercise order follows the request.
func RoutinePayload(req dto.RoutineRequest, planID int64) Record {
	items := make([]Record, 0, len(req.Exercises))
	for i, ex := range req.Exercises {
		items = append(items, Record{
			"ejercicioId":      ex.ExerciseID,
			"orden":            i + 1,
			"series":           ex.Sets,
			"repeticiones":     ex.Reps,
			"descansoSegundos": ex.RestSeconds,
			"duracionSegundos": ex.DurationSeconds,
		})
	}
	return Record{
		"planId":        planID,
		"nombre":        req.Name,
		"observaciones": req.Notes,
		"ejercicios":    items,
	}
}

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

package adapter

import (
	"strings"
	"time"

	"github.com/grindsup/trainer-gateway/internal/models"
)

var (
	appointmentIDKeys       = []string{"id", "idTurno", "id_turno", "turnoId", "turno_id"}
	appointmentTimeKeys     = []string{"fechaHora", "fecha_hora", "scheduledAt", "scheduled_at", "dateTime", "date_time", "fechaTurno", "fecha_turno", "inicio", "start", "fecha"}
	appointmentHourKeys     = []string{"hora", "horaInicio", "hora_inicio", "time", "startTime", "start_time"}
	appointmentTypeKeys     = []string{"tipo", "type", "tipoTurno", "tipo_turno", "modalidad"}
	appointmentCapacityKeys = []string{"cupo", "capacidad", "capacity", "cupoMaximo", "cupo_maximo", "maxAlumnos", "max_alumnos"}
	trainerObjectKeys       = []string{"entrenador", "trainer"}
	trainerNameKeys         = []string{"entrenadorNombre", "entrenador_nombre", "nombreEntrenador", "nombre_entrenador", "trainerName", "trainer_name"}
	trainerRefKeys          = []string{"entrenadorId", "entrenador_id", "idEntrenador", "id_entrenador", "trainerId", "trainer_id"}
	studentListKeys         = []string{"alumnos", "students", "alumnosInscriptos", "alumnos_inscriptos", "participantes"}
	studentNameListKeys     = []string{"alumnosNombres", "alumnos_nombres", "studentNames", "student_names", "nombresAlumnos", "nombres_alumnos"}
	studentRefListKeys      = []string{"alumnosIds", "alumnos_ids", "studentIds", "student_ids", "idsAlumnos"}
)

// NormalizeType maps backend spellings onto the canonical appointment types.
// Unknown values are kept lower-cased so they still group consistently.
func NormalizeType(raw string) models.AppointmentType {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "individual", "individuales", "personal", "personalizado":
		return models.AppointmentTypeIndividual
	case "grupal", "grupales", "grupo", "group":
		return models.AppointmentTypeGroup
	default:
		return models.AppointmentType(value)
	}
}

// Appointment normalizes one backend turno. An unparseable timestamp leaves
// ScheduledAt zero.
func Appointment(rec Record, loc *time.Location) models.Appointment {
	if loc == nil {
		loc = time.UTC
	}
	appt := models.Appointment{
		Type:         NormalizeType(String(rec, appointmentTypeKeys...)),
		Capacity:     Int(rec, appointmentCapacityKeys...),
		StudentIDs:   []int64{},
		StudentNames: []string{},
	}
	appt.ID, _ = Int64(rec, appointmentIDKeys...)
	appt.ScheduledAt = appointmentTime(rec, loc)

	if trainer := Nested(rec, trainerObjectKeys...); trainer != nil {
		appt.TrainerName = PersonName(trainer)
		appt.TrainerID = Int64Ptr(trainer, "id", "idEntrenador", "id_entrenador")
	}
	if appt.TrainerName == "" {
		if name := String(rec, trainerNameKeys...); name != "" {
			appt.TrainerName = name
		} else if s, ok := rec["entrenador"].(string); ok {
			appt.TrainerName = strings.TrimSpace(s)
		}
	}
	if appt.TrainerID == nil {
		appt.TrainerID = Int64Ptr(rec, trainerRefKeys...)
	}

	appt.StudentIDs, appt.StudentNames = appointmentStudents(rec)
	return appt
}

// Appointments normalizes a list payload.
func Appointments(raw interface{}, loc *time.Location) []models.Appointment {
	records := Records(raw)
	out := make([]models.Appointment, 0, len(records))
	for _, rec := range records {
		out = append(out, Appointment(rec, loc))
	}
	return out
}

func appointmentTime(rec Record, loc *time.Location) time.Time {
	ts, ok := Time(rec, loc, appointmentTimeKeys...)
	if !ok {
		return time.Time{}
	}
	// Date-only "fecha" with the time of day in a separate field.
	if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 {
		if hour := String(rec, appointmentHourKeys...); hour != "" {
			if clock, ok := parseClock(hour); ok {
				return time.Date(ts.Year(), ts.Month(), ts.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
			}
		}
	}
	return ts
}

func parseClock(raw string) (time.Time, bool) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if clock, err := time.Parse(layout, raw); err == nil {
			return clock, true
		}
	}
	return time.Time{}, false
}

func appointmentStudents(rec Record) ([]int64, []string) {
	ids := []int64{}
	names := []string{}

	if v, ok := lookup(rec, studentListKeys...); ok {
		if items, isList := v.([]interface{}); isList {
			for _, item := range items {
				switch student := item.(type) {
				case map[string]interface{}:
					if id, ok := Int64(student, "id", "idAlumno", "id_alumno", "alumnoId"); ok {
						ids = append(ids, id)
					}
					if name := PersonName(student); name != "" {
						names = append(names, name)
					}
				case string:
					if name := strings.TrimSpace(student); name != "" {
						names = append(names, name)
					}
				default:
					if id, ok := ToInt64(student); ok {
						ids = append(ids, id)
					}
				}
			}
		} else if s, isString := v.(string); isString {
			names = append(names, splitNames(s)...)
		}
	}

	if len(names) == 0 {
		if v, ok := lookup(rec, studentNameListKeys...); ok {
			switch list := v.(type) {
			case []interface{}:
				for _, item := range list {
					if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
						names = append(names, strings.TrimSpace(s))
					}
				}
			case string:
				names = append(names, splitNames(list)...)
			}
		}
	}

	if len(ids) == 0 {
		if v, ok := lookup(rec, studentRefListKeys...); ok {
			if list, isList := v.([]interface{}); isList {
				for _, item := range list {
					if id, ok := ToInt64(item); ok {
						ids = append(ids, id)
					}
				}
			}
		}
	}
	return ids, names
}

func splitNames(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

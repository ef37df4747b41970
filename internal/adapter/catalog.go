package adapter

import (
	"sort"
	"time"

	"github.com/grindsup/trainer-gateway/internal/models"
)

// Trainer normalizes an entrenador record.
func Trainer(rec Record) models.Trainer {
	trainer := models.Trainer{
		UserID:    Int64Ptr(rec, "usuarioId", "usuario_id", "idUsuario", "id_usuario", "userId", "user_id"),
		FirstName: String(rec, "nombre", "firstName", "first_name"),
		LastName:  String(rec, "apellido", "lastName", "last_name"),
		Email:     String(rec, "email", "correo", "mail"),
		Phone:     String(rec, "telefono", "phone", "celular"),
	}
	trainer.ID, _ = Int64(rec, "id", "idEntrenador", "id_entrenador", "entrenadorId", "entrenador_id")
	if trainer.UserID == nil {
		if user := Nested(rec, userObjectKeys...); user != nil {
			trainer.UserID = Int64Ptr(user, "id", "idUsuario", "id_usuario")
		}
	}
	return trainer
}

// TrainerID returns the trainer id from a lookup payload: either a single
// record or the first element of a collection.
func TrainerID(raw interface{}) (int64, bool) {
	if n, ok := ToInt64(raw); ok {
		return n, n > 0
	}
	if records := Records(raw); len(records) > 0 {
		trainer := Trainer(records[0])
		return trainer.ID, trainer.ID > 0
	}
	if rec := Object(raw); rec != nil {
		trainer := Trainer(rec)
		return trainer.ID, trainer.ID > 0
	}
	return 0, false
}

// Student normalizes an alumno record.
func Student(rec Record, loc *time.Location) models.Student {
	student := models.Student{
		TrainerID:      Int64Ptr(rec, trainerRefKeys...),
		FirstName:      String(rec, "nombre", "firstName", "first_name"),
		LastName:       String(rec, "apellido", "lastName", "last_name"),
		DocumentNumber: String(rec, "documento", "dni", "nroDocumento", "nro_documento", "documentNumber"),
		Email:          String(rec, "email", "correo", "mail"),
		Phone:          String(rec, "telefono", "phone", "celular"),
		BirthDate:      TimePtr(rec, loc, "fechaNacimiento", "fecha_nacimiento", "birthDate", "birth_date"),
		Active:         Bool(rec, true, "activo", "active", "estado"),
	}
	student.ID, _ = Int64(rec, "id", "idAlumno", "id_alumno", "alumnoId")
	if student.TrainerID == nil {
		if trainer := Nested(rec, trainerObjectKeys...); trainer != nil {
			student.TrainerID = Int64Ptr(trainer, "id")
		}
	}
	return student
}

// Students normalizes a list payload.
func Students(raw interface{}, loc *time.Location) []models.Student {
	records := Records(raw)
	out := make([]models.Student, 0, len(records))
	for _, rec := range records {
		out = append(out, Student(rec, loc))
	}
	return out
}

// Exercise normalizes an ejercicio record.
func Exercise(rec Record) models.Exercise {
	exercise := models.Exercise{
		Name:        String(rec, "nombre", "name"),
		Description: String(rec, "descripcion", "description"),
		MuscleGroup: String(rec, "grupoMuscular", "grupo_muscular", "muscleGroup", "muscle_group"),
		Equipment:   String(rec, "equipamiento", "equipment", "elemento"),
		VideoURL:    String(rec, "videoUrl", "video_url", "video", "urlVideo"),
	}
	exercise.ID, _ = Int64(rec, "id", "idEjercicio", "id_ejercicio")
	return exercise
}

// Exercises normalizes a list payload.
func Exercises(raw interface{}) []models.Exercise {
	records := Records(raw)
	out := make([]models.Exercise, 0, len(records))
	for _, rec := range records {
		out = append(out, Exercise(rec))
	}
	return out
}

// RoutineExercise normalizes one prescription inside a routine. The exercise
// itself may be nested or referenced by id.
func RoutineExercise(rec Record) models.RoutineExercise {
	item := models.RoutineExercise{
		Order:           Int(rec, "orden", "order", "posicion"),
		Sets:            Int(rec, "series", "sets"),
		Reps:            Int(rec, "repeticiones", "reps", "repetitions"),
		RestSeconds:     Int(rec, "descanso", "descansoSegundos", "descanso_segundos", "restSeconds", "rest_seconds", "rest"),
		DurationSeconds: Int(rec, "duracion", "duracionSegundos", "duracion_segundos", "durationSeconds", "duration_seconds"),
	}
	if exercise := Nested(rec, "ejercicio", "exercise"); exercise != nil {
		normalized := Exercise(exercise)
		item.ExerciseID = normalized.ID
		item.ExerciseName = normalized.Name
	}
	if item.ExerciseID == 0 {
		item.ExerciseID, _ = Int64(rec, "ejercicioId", "ejercicio_id", "idEjercicio", "exerciseId", "exercise_id")
	}
	if item.ExerciseName == "" {
		item.ExerciseName = String(rec, "nombreEjercicio", "nombre_ejercicio", "exerciseName", "nombre")
	}
	return item
}

// Routine normalizes a rutina with its exercises ordered by position.
func Routine(rec Record) models.Routine {
	routine := models.Routine{
		PlanID:    Int64Ptr(rec, "planId", "plan_id", "idPlan"),
		Name:      String(rec, "nombre", "name", "titulo"),
		Notes:     String(rec, "notas", "observaciones", "notes", "descripcion"),
		Exercises: []models.RoutineExercise{},
	}
	routine.ID, _ = Int64(rec, "id", "idRutina", "id_rutina")
	if v, ok := lookup(rec, "ejercicios", "exercises", "rutinaEjercicios", "rutina_ejercicios", "items"); ok {
		for _, item := range Records(v) {
			routine.Exercises = append(routine.Exercises, RoutineExercise(item))
		}
	}
	sort.SliceStable(routine.Exercises, func(i, j int) bool {
		return routine.Exercises[i].Order < routine.Exercises[j].Order
	})
	return routine
}

// Plan normalizes a training plan with its routines.
func Plan(rec Record, loc *time.Location) models.Plan {
	plan := models.Plan{
		StudentID: Int64Ptr(rec, "alumnoId", "alumno_id", "idAlumno", "studentId", "student_id"),
		TrainerID: Int64Ptr(rec, trainerRefKeys...),
		Name:      String(rec, "nombre", "name", "titulo"),
		Goal:      String(rec, "objetivo", "goal"),
		StartDate: TimePtr(rec, loc, "fechaInicio", "fecha_inicio", "startDate", "start_date"),
		EndDate:   TimePtr(rec, loc, "fechaFin", "fecha_fin", "endDate", "end_date"),
		Notes:     String(rec, "notas", "observaciones", "notes", "descripcion"),
		Routines:  []models.Routine{},
	}
	plan.ID, _ = Int64(rec, "id", "idPlan", "id_plan")
	if plan.StudentID == nil {
		if student := Nested(rec, "alumno", "student"); student != nil {
			plan.StudentID = Int64Ptr(student, "id")
		}
	}
	if v, ok := lookup(rec, "rutinas", "routines"); ok {
		for _, item := range Records(v) {
			plan.Routines = append(plan.Routines, Routine(item))
		}
	}
	return plan
}

// Plans normalizes a list payload.
func Plans(raw interface{}, loc *time.Location) []models.Plan {
	records := Records(raw)
	out := make([]models.Plan, 0, len(records))
	for _, rec := range records {
		out = append(out, Plan(rec, loc))
	}
	return out
}

// TrainerReport normalizes the aggregate statistics payload.
func TrainerReport(rec Record) models.TrainerReport {
	report := models.TrainerReport{
		TotalAppointments:      Int(rec, "totalTurnos", "total_turnos", "turnos", "totalAppointments"),
		IndividualAppointments: Int(rec, "turnosIndividuales", "turnos_individuales", "individualAppointments"),
		GroupAppointments:      Int(rec, "turnosGrupales", "turnos_grupales", "groupAppointments"),
		ActiveStudents:         Int(rec, "alumnosActivos", "alumnos_activos", "activeStudents"),
		ActivePlans:            Int(rec, "planesActivos", "planes_activos", "activePlans"),
		AttendanceRate:         Float(rec, "asistenciaPromedio", "asistencia_promedio", "porcentajeAsistencia", "attendanceRate"),
	}
	// Percentages arrive either as 0-1 or 0-100.
	if report.AttendanceRate > 1 {
		report.AttendanceRate /= 100
	}
	return report
}

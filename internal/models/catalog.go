package models

import "time"

// Trainer ("entrenador") is the service-providing user role.
type Trainer struct {
	ID        int64  `json:"id"`
	UserID    *int64 `json:"userId,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// Student ("alumno") trains with a trainer.
type Student struct {
	ID             int64      `json:"id"`
	TrainerID      *int64     `json:"trainerId,omitempty"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	DocumentNumber string     `json:"documentNumber,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	Active         bool       `json:"active"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return joinName(s.FirstName, s.LastName)
}

// Exercise is a catalog entry used by routines.
type Exercise struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	Equipment   string `json:"equipment,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
}

// RoutineExercise is an exercise prescription inside a routine.
type RoutineExercise struct {
	ExerciseID      int64  `json:"exerciseId"`
	ExerciseName    string `json:"exerciseName"`
	Order           int    `json:"order"`
	Sets            int    `json:"sets"`
	Reps            int    `json:"reps"`
	RestSeconds     int    `json:"restSeconds"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
}

// Routine ("rutina") is an ordered set of exercises belonging to a plan.
type Routine struct {
	ID               int64             `json:"id"`
	PlanID           *int64            `json:"planId,omitempty"`
	Name             string            `json:"name"`
	Notes            string            `json:"notes,omitempty"`
	NotesHTML        string            `json:"notesHtml,omitempty"`
	Exercises        []RoutineExercise `json:"exercises"`
	EstimatedMinutes int               `json:"estimatedMinutes"`
}

// Plan is a training plan assigned to a student.
type Plan struct {
	ID        int64      `json:"id"`
	StudentID *int64     `json:"studentId,omitempty"`
	TrainerID *int64     `json:"trainerId,omitempty"`
	Name      string     `json:"name"`
	Goal      string     `json:"goal,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	NotesHTML string     `json:"notesHtml,omitempty"`
	Routines  []Routine  `json:"routines"`
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

package dto

import "time"

// StudentRequest is the student registration and edit form.
type StudentRequest struct {
	FirstName      string     `json:"firstName" validate:"required,max=80"`
	LastName       string     `json:"lastName" validate:"required,max=80"`
	DocumentNumber string     `json:"documentNumber" validate:"required,numeric,min=7,max=9"`
	Email          string     `json:"email" validate:"omitempty,email"`
	Phone          string     `json:"phone" validate:"omitempty,min=6,max=20"`
	BirthDate      *time.Time `json:"birthDate"`
}

// ExerciseRequest is the exercise form.
type ExerciseRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	MuscleGroup string `json:"muscleGroup" validate:"max=60"`
	Equipment   string `json:"equipment" validate:"max=60"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,url"`
}

// PlanRequest creates a training plan for a student.
type PlanRequest struct {
	StudentID int64     `json:"studentId" validate:"required,gt=0"`
	Name      string    `json:"name" validate:"required,max=100"`
	Goal      string    `json:"goal" validate:"max=200"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	Notes     string    `json:"notes" validate:"max=5000"`
}

// RoutineExerciseRequest prescribes one exercise inside a routine.
type RoutineExerciseRequest struct {
	ExerciseID      int64 `json:"exerciseId" validate:"required,gt=0"`
	Sets            int   `json:"sets" validate:"required,min=1,max=20"`
	Reps            int   `json:"reps" validate:"min=0,max=200"`
	RestSeconds     int   `json:"restSeconds" validate:"min=0,max=900"`
	DurationSeconds int   `json:"durationSeconds" validate:"min=0,max=7200"`
}

// RoutineRequest adds a routine to a plan.
type RoutineRequest struct {
	Name      string                   `json:"name" validate:"required,max=100"`
	Notes     string                   `json:"notes" validate:"max=5000"`
	Exercises []RoutineExerciseRequest `json:"exercises" validate:"required,min=1,dive"`
}

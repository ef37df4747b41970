package dto

import "time"

// CreateAppointmentRequest is the appointment form payload.
type CreateAppointmentRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=individual group"`
	Capacity    int       `json:"capacity" validate:"required,min=1,max=50"`
	StudentIDs  []int64   `json:"studentIds" validate:"omitempty,unique,dive,gt=0"`
	Notes       string    `json:"notes" validate:"max=500"`
}

// RescheduleAppointmentRequest moves an appointment to a new date and time.
type RescheduleAppointmentRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
}

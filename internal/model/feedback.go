package model

import "time"

type Feedback struct {
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Type      string    `json:"type" validate:"required,max=50"`
	Message   string    `json:"message" validate:"required,notblank,max=5000"`
	Page      string    `json:"page" validate:"required,max=500"`
}

func (f *Feedback) Validate() error { return validateStruct(f) }

package model

import "time"

type CreateListPayload struct {
	Deadline *time.Time `json:"deadline"`
}

type UpdateOrderPayload struct {
	CreateOrder
	EditKey string `json:"editKey" validate:"required"`
}

func (p *UpdateOrderPayload) Validate() error { return validateStruct(p) }

type DeleteOrderPayload struct {
	EditKey string `json:"editKey" validate:"required"`
}

type ListActivity struct {
	Orders      int64      `json:"orders"`
	LastOrderAt *time.Time `json:"last_order_at,omitempty"`
}

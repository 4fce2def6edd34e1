package model

import "time"

type DrinkSize int

const (
	DrinkSizeSmall DrinkSize = 0
	DrinkSizeLarge DrinkSize = 1
)

type OrderList struct {
	ID       string     `json:"id" validate:"required"`
	Created  time.Time  `json:"created"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Orders   []*Order   `json:"orders,omitempty" validate:"omitempty,dive,required"`
}

// Expired reports whether the list deadline lies before now.
func (l *OrderList) Expired(now time.Time) bool {
	return l.Deadline != nil && now.After(*l.Deadline)
}

func (l *OrderList) Validate() error { return validateStruct(l) }

type StoreItem struct {
	ID       string   `json:"id" validate:"required"`
	Variants []string `json:"variants,omitempty" validate:"omitempty,unique"`
	Dips     []string `json:"dips,omitempty" validate:"omitempty,unique"`
}

type Drink struct {
	Name string    `json:"name" validate:"required"`
	Size DrinkSize `json:"size" validate:"gte=0,lte=1"`
}

// CreateOrder is what a participant submits to a list.
type CreateOrder struct {
	Creator   string     `json:"creator" validate:"required,notblank,max=100"`
	StoreItem *StoreItem `json:"storeItem" validate:"required"`
	Drink     *Drink     `json:"drink,omitempty" validate:"omitempty"`
}

func (o *CreateOrder) Validate() error { return validateStruct(o) }

type Order struct {
	CreateOrder
	ID      string    `json:"id" validate:"required"`
	Created time.Time `json:"created"`
	EditKey string    `json:"-"`
}

func (o *Order) Validate() error { return validateStruct(o) }

// CreatedOrder is the response to a successful order creation. It is the
// only place the edit key leaves the server.
type CreatedOrder struct {
	Order
	EditKey string `json:"editKey"`
}

func (o *CreatedOrder) Validate() error { return validateStruct(o) }

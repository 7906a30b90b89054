package model

import (
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderSubmitted OrderStatus = "Submitted"
	OrderFulfilled OrderStatus = "Fulfilled"
	OrderDeclined  OrderStatus = "Declined"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderSubmitted, OrderFulfilled, OrderDeclined:
		return true
	}
	return false
}

// Final orders accept no further edits.
func (s OrderStatus) Final() bool {
	return s == OrderFulfilled || s == OrderDeclined
}

type Order struct {
	BaseModel
	Title    string            `gorm:"type:varchar(200);not null;index" json:"title"`
	Seller   string            `gorm:"type:varchar(200);not null;index" json:"seller"`
	Status   OrderStatus       `gorm:"type:varchar(32);not null;default:Pending;index" json:"status"`
	UserID   int64             `gorm:"not null;index" json:"userId"`
	Reagents []*ReagentRequest `gorm:"foreignKey:OrderID" json:"reagents"`
}

func (*Order) TableName() string {
	return "orders"
}

type OrderAction string

const (
	OrderActionCreate OrderAction = "create"
	OrderActionUpdate OrderAction = "update"
)

type OrderHistoryPayload struct {
	FromStatus OrderStatus `json:"fromStatus,omitempty"`
	ToStatus   OrderStatus `json:"toStatus"`
	Included   []int64     `json:"included,omitempty"`
	Excluded   []int64     `json:"excluded,omitempty"`
	Title      *string     `json:"title,omitempty"`
	Seller     *string     `json:"seller,omitempty"`
}

// OrderHistory is appended once per committed create or update.
type OrderHistory struct {
	BaseModel
	OrderID int64                                  `gorm:"not null;index" json:"orderId"`
	UserID  int64                                  `gorm:"not null" json:"userId"`
	Action  OrderAction                            `gorm:"type:varchar(32);not null" json:"action"`
	Payload datatypes.JSONType[OrderHistoryPayload] `json:"payload"`
}

func (*OrderHistory) TableName() string {
	return "order_history"
}

package repo

import (
	"context"

	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/repo/model"
)

type OrderSortField string

const (
	SortUpdatedAt OrderSortField = "updatedAt"
	SortCreatedAt OrderSortField = "createdAt"
	SortTitle     OrderSortField = "titleOrder"
	SortSeller    OrderSortField = "sellerOrder"
)

func (f OrderSortField) Column() string {
	switch f {
	case SortUpdatedAt:
		return "updated_at"
	case SortCreatedAt:
		return "created_at"
	case SortTitle:
		return "title"
	case SortSeller:
		return "seller"
	}
	return ""
}

type OrderQuery struct {
	Page
	Title  *string
	Seller *string
	Status *model.OrderStatus

	SortField OrderSortField
	SortOrder common.SortOrder
}

type OrderWithCount struct {
	*model.Order
	ReagentCount int64 `json:"reagentCount"`
}

type CreateOrderParam struct {
	Title      string
	Seller     string
	UserID     int64
	ReagentIDs []int64
}

type UpdateOrderParam struct {
	ID      int64
	Title   *string
	Seller  *string
	Status  *model.OrderStatus
	Include []int64
	Exclude []int64
}

type OrderRepo interface {
	// CreateOrder attaches the requests and marks them Ordered. Requests
	// already Ordered elsewhere yield code.OrderReagentConflict, unknown ids
	// code.OrderReagentNotFound.
	CreateOrder(ctx context.Context, p *CreateOrderParam) (*model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	// GetOrderForUpdate locks the order row, reagents are not loaded.
	GetOrderForUpdate(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, q *OrderQuery) ([]*OrderWithCount, int64, error)
	// UpdateOrder applies exclude, include, status cascade and scalar
	// fields in that order.
	UpdateOrder(ctx context.Context, p *UpdateOrderParam) (*model.Order, error)

	AddHistory(ctx context.Context, h *model.OrderHistory) error
	ListHistory(ctx context.Context, orderID int64) ([]*model.OrderHistory, error)
}

package order

import (
	"context"

	"github.com/scienceol/lims/pkg/repo/model"
)

type Service interface {
	Create(ctx context.Context, req *CreateReq) (*model.Order, error)
	List(ctx context.Context, req *ListReq) (*ListResp, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	// Update checks the status guard against the locked order row and
	// applies the change in the same transaction.
	Update(ctx context.Context, req *UpdateReq) (*model.Order, error)
	History(ctx context.Context, id int64) ([]*model.OrderHistory, error)
}

package request

import (
	"context"

	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/model"
)

type Service interface {
	Create(ctx context.Context, req *CreateReq) (*model.ReagentRequest, error)
	// List shows researchers their own requests only.
	List(ctx context.Context, req *ListReq) (*ListResp, error)
	Get(ctx context.Context, id int64) (*model.ReagentRequest, error)
	Edit(ctx context.Context, req *EditReq) (*model.ReagentRequest, error)
	UpdateOwn(ctx context.Context, req *OwnEditReq) (*model.ReagentRequest, error)
	LookupCAS(ctx context.Context, cas string) (*repo.CompoundInfo, error)
}

package reagent

import (
	"context"

	"github.com/scienceol/lims/pkg/repo/model"
)

type FromRequestReq struct {
	ReagentRequestID int64 `uri:"reagentRequestId" binding:"required,gt=0"`
	StorageID        int64 `uri:"storageId" binding:"required,gt=0"`
}

type Service interface {
	// CreateFromRequest stocks a Fulfilled request into storage and marks
	// the request Completed.
	CreateFromRequest(ctx context.Context, req *FromRequestReq) (*model.Reagent, error)
}

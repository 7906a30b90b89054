package reagent

import (
	"context"

	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/model"
)

type reagentImpl struct {
	*db.Datastore
}

func New(ds *db.Datastore) repo.ReagentRepo {
	return &reagentImpl{Datastore: ds}
}

func (r *reagentImpl) CreateReagent(ctx context.Context, reagent *model.Reagent) error {
	err := r.DBWithContext(ctx).Create(reagent).Error
	return repo.StoreErr(ctx, "CreateReagent", err, code.ReagentRequestNotFound, code.ReagentCreateErr)
}

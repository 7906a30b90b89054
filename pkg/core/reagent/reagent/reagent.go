package reagent

import (
	"context"
	"errors"

	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/core/lifecycle"
	"github.com/scienceol/lims/pkg/core/reagent"
	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/model"
	reagentStore "github.com/scienceol/lims/pkg/repo/reagent"
	requestStore "github.com/scienceol/lims/pkg/repo/request"
)

const fromRequestDescription = "created from reagent request"

type reagentImpl struct {
	ds       *db.Datastore
	reagents repo.ReagentRepo
	requests repo.ReagentRequestRepo
}

func New(ds *db.Datastore) reagent.Service {
	return &reagentImpl{
		ds:       ds,
		reagents: reagentStore.New(ds),
		requests: requestStore.New(ds),
	}
}

func (r *reagentImpl) CreateFromRequest(ctx context.Context, req *reagent.FromRequestReq) (*model.Reagent, error) {
	var created *model.Reagent
	err := r.ds.ExecTx(ctx, func(txCtx context.Context) error {
		source, err := r.requests.GetRequestForUpdate(txCtx, req.ReagentRequestID)
		if errors.Is(err, code.ReagentRequestNotFound) {
			return code.ReagentRequestNotFound.WithMsg("Reagent request is not found")
		}
		if err != nil {
			return err
		}
		if err := lifecycle.CheckConvert(source.Status); err != nil {
			return err
		}

		created = fromRequest(source, req.StorageID)
		if err := r.reagents.CreateReagent(txCtx, created); err != nil {
			return err
		}
		_, err = r.requests.UpdateFields(txCtx, source.ID, map[string]any{
			"status": model.RequestCompleted,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "reagent %d created from request %d", created.ID, req.ReagentRequestID)
	return created, nil
}

func fromRequest(src *model.ReagentRequest, storageID int64) *model.Reagent {
	data := &model.Reagent{
		StorageID:      storageID,
		Name:           src.Name,
		Producer:       src.Producer,
		CatalogID:      src.CatalogID,
		CatalogLink:    src.CatalogLink,
		PricePerUnit:   src.PricePerUnit,
		QuantityUnit:   src.QuantityUnit,
		TotalQuantity:  src.DesiredQuantity,
		QuantityLeft:   src.DesiredQuantity,
		Description:    fromRequestDescription,
		ExpirationDate: src.ExpirationDate,
		Category:       model.CategoryReagent,
		Package:        src.Package,
		Structure:      src.StructureSmiles,
	}
	if src.CASNumber != nil {
		data.CASNumber = *src.CASNumber
	}
	return data
}

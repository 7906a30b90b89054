package request

import (
	"context"

	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type requestImpl struct {
	*db.Datastore
}

func New(ds *db.Datastore) repo.ReagentRequestRepo {
	return &requestImpl{Datastore: ds}
}

func visible(tx *gorm.DB) *gorm.DB {
	return tx.Where("hide = ?", false)
}

func scoped(scope repo.RequestScope) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if owner, ok := scope.Owner(); ok {
			return tx.Where("user_id = ?", owner)
		}
		return tx
	}
}

func (r *requestImpl) CreateRequest(ctx context.Context, req *model.ReagentRequest) error {
	err := r.DBWithContext(ctx).Create(req).Error
	return repo.StoreErr(ctx, "CreateRequest", err, code.ReagentRequestNotFound, code.ReagentRequestCreateErr)
}

func (r *requestImpl) GetRequest(ctx context.Context, id int64, scope repo.RequestScope) (*model.ReagentRequest, error) {
	req := &model.ReagentRequest{}
	err := r.DBWithContext(ctx).Scopes(scoped(scope)).Where("id = ?", id).First(req).Error
	if err := notFound(ctx, "GetRequest", err); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *requestImpl) GetRequestForUpdate(ctx context.Context, id int64) (*model.ReagentRequest, error) {
	req := &model.ReagentRequest{}
	err := db.ForUpdate(r.DBWithContext(ctx)).Where("id = ?", id).First(req).Error
	if err := notFound(ctx, "GetRequestForUpdate", err); err != nil {
		return nil, err
	}
	return req, nil
}

func notFound(ctx context.Context, op string, err error) error {
	return repo.StoreErr(ctx, op, err, code.ReagentRequestNotFound, code.QueryRecordErr)
}

func (r *requestImpl) ListRequests(ctx context.Context, q *repo.RequestQuery) ([]*model.ReagentRequest, int64, error) {
	tx := r.DBWithContext(ctx).Model(&model.ReagentRequest{}).Scopes(visible, scoped(q.Scope))
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.Name != nil && *q.Name != "" {
		cond, arg := repo.ContainsFold("name", *q.Name)
		tx = tx.Where(cond, arg)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListRequests count err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	sorts := []struct {
		column string
		order  *common.SortOrder
	}{
		{"created_at", q.SortByCreatedDate},
		{"updated_at", q.SortByUpdatedDate},
		{"desired_quantity", q.SortByQuantity},
	}
	for _, s := range sorts {
		if s.order == nil {
			continue
		}
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: s.column},
			Desc:   *s.order == common.SortDesc,
		})
	}

	list := make([]*model.ReagentRequest, 0)
	if err := tx.Order("id ASC").Offset(q.Offset).Limit(q.Limit).Find(&list).Error; err != nil {
		logger.Errorf(ctx, "ListRequests err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (r *requestImpl) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.ReagentRequest, error) {
	if len(fields) > 0 {
		res := r.DBWithContext(ctx).Model(&model.ReagentRequest{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, repo.StoreErr(ctx, "UpdateFields", res.Error, code.ReagentRequestNotFound, code.ReagentRequestUpdateErr)
		}
		if res.RowsAffected == 0 {
			return nil, code.ReagentRequestNotFound
		}
	}
	return r.GetRequest(ctx, id, repo.ScopeAll())
}

func (r *requestImpl) OverrideFields(ctx context.Context, id int64, patch *repo.RequestOverride) (*model.ReagentRequest, error) {
	return r.UpdateFields(ctx, id, patch.Fields())
}

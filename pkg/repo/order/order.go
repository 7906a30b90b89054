package order

import (
	"context"
	"fmt"
	"time"

	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/core/lifecycle"
	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/model"
	"github.com/scienceol/lims/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderImpl struct {
	*db.Datastore
}

func New(ds *db.Datastore) repo.OrderRepo {
	return &orderImpl{Datastore: ds}
}

func withReagents(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Reagents", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}

func requestIDs(rows []*model.ReagentRequest) []int64 {
	return utils.MapSlice(rows, func(r *model.ReagentRequest) int64 { return r.ID })
}

// lockRequests selects the rows by id in id order and holds them until the
// transaction ends.
func lockRequests(tx *gorm.DB, ids []int64, where ...any) ([]*model.ReagentRequest, error) {
	rows := make([]*model.ReagentRequest, 0, len(ids))
	if len(ids) == 0 {
		return rows, nil
	}
	q := db.ForUpdate(tx).Model(&model.ReagentRequest{}).
		Select("id", "status", "order_id").
		Where("id IN ?", ids)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return rows, nil
}

// orderedConflicts reports, per holding order, the requested ids attached
// to an order that already holds one of them as Ordered.
func orderedConflicts(rows []*model.ReagentRequest) error {
	holding := map[int64]struct{}{}
	for _, r := range rows {
		if r.Status == model.RequestOrdered && r.OrderID != nil {
			holding[*r.OrderID] = struct{}{}
		}
	}
	if len(holding) == 0 {
		return nil
	}

	orderIDs := make([]int64, 0, len(holding))
	for id := range holding {
		orderIDs = append(orderIDs, id)
	}
	utils.SortInt64(orderIDs)

	msgs := make([]string, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		matched := utils.FilterSlice(rows, func(r *model.ReagentRequest) bool {
			return r.OrderID != nil && *r.OrderID == orderID
		})
		msgs = append(msgs, fmt.Sprintf(
			"Order with id %d includes reagentRequests with id[s] - %s which has status Ordered",
			orderID, utils.JoinIDs(requestIDs(matched), ", ")))
	}
	return code.OrderReagentConflict.WithDetails(msgs...)
}

func (o *orderImpl) CreateOrder(ctx context.Context, p *repo.CreateOrderParam) (*model.Order, error) {
	order := &model.Order{
		Title:  p.Title,
		Seller: p.Seller,
		Status: model.OrderPending,
		UserID: p.UserID,
	}
	ids := utils.Uniq(p.ReagentIDs)

	err := o.ExecTx(ctx, func(txCtx context.Context) error {
		tx := o.DBWithContext(txCtx)
		rows, err := lockRequests(tx, ids)
		if err != nil {
			return err
		}
		if err := orderedConflicts(rows); err != nil {
			return err
		}
		if missing := utils.Difference(p.ReagentIDs, requestIDs(rows)); len(missing) > 0 {
			return code.OrderReagentNotFound.WithMsgf(
				"The following reagent with ID's not found: %s", utils.JoinIDs(missing, ","))
		}

		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return code.OrderCreateErr.WithErr(err)
		}
		if err := tx.Model(&model.ReagentRequest{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"status":   model.RequestOrdered,
				"order_id": order.ID,
			}).Error; err != nil {
			return code.OrderCreateErr.WithErr(err)
		}
		return nil
	})
	if err != nil {
		logOrderErr(ctx, "CreateOrder", err)
		return nil, err
	}
	return o.GetOrder(ctx, order.ID)
}

func (o *orderImpl) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	order := &model.Order{}
	err := withReagents(o.DBWithContext(ctx)).Where("id = ?", id).First(order).Error
	if err := orderNotFound(ctx, "GetOrder", err); err != nil {
		return nil, err
	}
	return order, nil
}

func (o *orderImpl) GetOrderForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	order := &model.Order{}
	err := db.ForUpdate(o.DBWithContext(ctx)).Where("id = ?", id).First(order).Error
	if err := orderNotFound(ctx, "GetOrderForUpdate", err); err != nil {
		return nil, err
	}
	return order, nil
}

func orderNotFound(ctx context.Context, op string, err error) error {
	return repo.StoreErr(ctx, op, err, code.OrderNotFound, code.QueryRecordErr)
}

func (o *orderImpl) ListOrders(ctx context.Context, q *repo.OrderQuery) ([]*repo.OrderWithCount, int64, error) {
	tx := o.DBWithContext(ctx).Model(&model.Order{})
	if q.Title != nil && *q.Title != "" {
		cond, arg := repo.ContainsFold("title", *q.Title)
		tx = tx.Where(cond, arg)
	}
	if q.Seller != nil && *q.Seller != "" {
		cond, arg := repo.ContainsFold("seller", *q.Seller)
		tx = tx.Where(cond, arg)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		logger.Errorf(ctx, "ListOrders count err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	if col := q.SortField.Column(); col != "" {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: col},
			Desc:   q.SortOrder == common.SortDesc,
		})
	}

	orders := make([]*model.Order, 0)
	if err := withReagents(tx).Order("id ASC").Offset(q.Offset).Limit(q.Limit).Find(&orders).Error; err != nil {
		logger.Errorf(ctx, "ListOrders err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}

	list := utils.MapSlice(orders, func(order *model.Order) *repo.OrderWithCount {
		return &repo.OrderWithCount{Order: order, ReagentCount: int64(len(order.Reagents))}
	})
	return list, total, nil
}

func (o *orderImpl) UpdateOrder(ctx context.Context, p *repo.UpdateOrderParam) (*model.Order, error) {
	err := o.ExecTx(ctx, func(txCtx context.Context) error {
		tx := o.DBWithContext(txCtx)
		if err := o.exclude(tx, p.ID, p.Exclude); err != nil {
			return err
		}
		if err := o.include(tx, p.ID, p.Include); err != nil {
			return err
		}
		if p.Status != nil {
			if err := cascade(tx, p.ID, *p.Status); err != nil {
				return err
			}
		}

		fields := map[string]any{"updated_at": time.Now()}
		if p.Title != nil {
			fields["title"] = *p.Title
		}
		if p.Seller != nil {
			fields["seller"] = *p.Seller
		}
		if p.Status != nil {
			fields["status"] = *p.Status
		}
		res := tx.Model(&model.Order{}).Where("id = ?", p.ID).Updates(fields)
		if res.Error != nil {
			return code.OrderUpdateErr.WithErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return code.OrderNotFound
		}
		return nil
	})
	if err != nil {
		logOrderErr(ctx, "UpdateOrder", err)
		return nil, err
	}
	return o.GetOrder(ctx, p.ID)
}

func (o *orderImpl) exclude(tx *gorm.DB, orderID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := lockRequests(tx, ids, "order_id = ?", orderID)
	if err != nil {
		return err
	}
	if missing := utils.Difference(ids, requestIDs(rows)); len(missing) > 0 {
		return code.OrderExcludeNotFound.WithMsgf(
			"Order with id %d doesn't have the following reagent[s] - %s for excluding",
			orderID, utils.JoinIDs(missing, ","))
	}
	if err := tx.Model(&model.ReagentRequest{}).
		Where("id IN ?", requestIDs(rows)).
		Updates(map[string]any{
			"status":   model.RequestPending,
			"order_id": nil,
		}).Error; err != nil {
		return code.OrderUpdateErr.WithErr(err)
	}
	return nil
}

func (o *orderImpl) include(tx *gorm.DB, orderID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := lockRequests(tx, ids)
	if err != nil {
		return err
	}

	holders := utils.Uniq(utils.MapSlice(
		utils.FilterSlice(rows, func(r *model.ReagentRequest) bool { return r.OrderID != nil }),
		func(r *model.ReagentRequest) int64 { return *r.OrderID }))
	submitted := map[int64]struct{}{}
	if len(holders) > 0 {
		var held []*model.Order
		if err := tx.Model(&model.Order{}).Select("id").
			Where("id IN ? AND status = ?", holders, model.OrderSubmitted).
			Find(&held).Error; err != nil {
			return code.QueryRecordErr.WithErr(err)
		}
		for _, h := range held {
			submitted[h.ID] = struct{}{}
		}
	}
	for _, r := range rows {
		if r.OrderID == nil {
			continue
		}
		if _, ok := submitted[*r.OrderID]; ok {
			return code.OrderIncludeSubmittedErr.WithMsgf(
				"reagent with id %d can't be included because it belongs to order %d which is Submitted",
				r.ID, *r.OrderID)
		}
	}

	if missing := utils.Difference(ids, requestIDs(rows)); len(missing) > 0 {
		return code.OrderReagentNotFound.WithMsgf(
			"The following reagent IDs not found: %s for including", utils.JoinIDs(missing, ","))
	}
	if err := tx.Model(&model.ReagentRequest{}).
		Where("id IN ?", requestIDs(rows)).
		Updates(map[string]any{
			"status":   model.RequestOrdered,
			"order_id": orderID,
		}).Error; err != nil {
		return code.OrderUpdateErr.WithErr(err)
	}
	return nil
}

// cascade moves the attached requests along with the order status.
func cascade(tx *gorm.DB, orderID int64, status model.OrderStatus) error {
	next, ok := lifecycle.RequestCascade(status)
	if !ok {
		return nil
	}
	if err := tx.Model(&model.ReagentRequest{}).
		Where("order_id = ?", orderID).
		Update("status", next).Error; err != nil {
		return code.OrderUpdateErr.WithErr(err)
	}
	return nil
}

func logOrderErr(ctx context.Context, op string, err error) {
	if code.CategoryOf(err) == code.Internal {
		logger.Errorf(ctx, "%s err: %+v", op, err)
		return
	}
	logger.Warnf(ctx, "%s rejected: %v", op, err)
}

func (o *orderImpl) AddHistory(ctx context.Context, h *model.OrderHistory) error {
	err := o.DBWithContext(ctx).Create(h).Error
	return repo.StoreErr(ctx, "AddHistory", err, code.OrderNotFound, code.CreateDataErr)
}

func (o *orderImpl) ListHistory(ctx context.Context, orderID int64) ([]*model.OrderHistory, error) {
	list := make([]*model.OrderHistory, 0)
	if err := o.DBWithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&list).Error; err != nil {
		logger.Errorf(ctx, "ListHistory order: %d err: %+v", orderID, err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return list, nil
}

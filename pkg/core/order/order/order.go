package order

import (
	"context"

	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/core/lifecycle"
	"github.com/scienceol/lims/pkg/core/notify"
	"github.com/scienceol/lims/pkg/core/order"
	"github.com/scienceol/lims/pkg/middleware/auth"
	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/middleware/trace"
	"github.com/scienceol/lims/pkg/repo"
	orderStore "github.com/scienceol/lims/pkg/repo/order"
	"github.com/scienceol/lims/pkg/repo/model"
	"github.com/scienceol/lims/pkg/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/datatypes"
)

type orderImpl struct {
	ds          *db.Datastore
	store       repo.OrderRepo
	msgCenter   notify.MsgCenter
	transitions metric.Int64Counter
}

func New(ds *db.Datastore, msgCenter notify.MsgCenter) order.Service {
	transitions, err := trace.Meter().Int64Counter("order.transitions",
		metric.WithDescription("Order status transitions"))
	if err != nil {
		logger.Errorf(context.Background(), "create order.transitions counter err: %+v", err)
	}
	return &orderImpl{
		ds:          ds,
		store:       orderStore.New(ds),
		msgCenter:   msgCenter,
		transitions: transitions,
	}
}

func (o *orderImpl) Create(ctx context.Context, req *order.CreateReq) (*model.Order, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	var created *model.Order
	err := o.ds.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = o.store.CreateOrder(txCtx, &repo.CreateOrderParam{
			Title:      req.Title,
			Seller:     req.Seller,
			UserID:     user.ID,
			ReagentIDs: req.ReagentIDs(),
		})
		if err != nil {
			return err
		}
		return o.store.AddHistory(txCtx, &model.OrderHistory{
			OrderID: created.ID,
			UserID:  user.ID,
			Action:  model.OrderActionCreate,
			Payload: datatypes.NewJSONType(model.OrderHistoryPayload{
				ToStatus: created.Status,
				Included: req.ReagentIDs(),
			}),
		})
	})
	if err != nil {
		return nil, err
	}

	o.recordTransition(ctx, "", created.Status)
	o.broadcast(ctx, model.OrderActionCreate, user.ID, created)
	return created, nil
}

func (o *orderImpl) List(ctx context.Context, req *order.ListReq) (*order.ListResp, error) {
	field, sortOrder, err := req.Sort()
	if err != nil {
		return nil, err
	}
	list, total, err := o.store.ListOrders(ctx, &repo.OrderQuery{
		Page:      repo.Page{Offset: req.Offset(), Limit: req.Limit()},
		Title:     req.Title,
		Seller:    req.Seller,
		Status:    req.Status,
		SortField: field,
		SortOrder: sortOrder,
	})
	if err != nil {
		return nil, err
	}
	return &order.ListResp{Orders: list, Size: total}, nil
}

func (o *orderImpl) Get(ctx context.Context, id int64) (*model.Order, error) {
	return o.store.GetOrder(ctx, id)
}

func (o *orderImpl) Update(ctx context.Context, req *order.UpdateReq) (*model.Order, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	var (
		from    model.OrderStatus
		updated *model.Order
	)
	err := o.ds.ExecTx(ctx, func(txCtx context.Context) error {
		current, err := o.store.GetOrderForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		from = current.Status
		if err := lifecycle.CheckOrderUpdate(current.Status, lifecycle.OrderPatch{
			Status: req.Status,
			Fields: req.FieldCount(),
		}); err != nil {
			return err
		}

		updated, err = o.store.UpdateOrder(txCtx, &repo.UpdateOrderParam{
			ID:      req.ID,
			Title:   req.Title,
			Seller:  req.Seller,
			Status:  req.Status,
			Include: order.RefIDs(req.IncludeReagents),
			Exclude: order.RefIDs(req.ExcludeReagents),
		})
		if err != nil {
			return err
		}
		return o.store.AddHistory(txCtx, &model.OrderHistory{
			OrderID: req.ID,
			UserID:  user.ID,
			Action:  model.OrderActionUpdate,
			Payload: datatypes.NewJSONType(model.OrderHistoryPayload{
				FromStatus: from,
				ToStatus:   updated.Status,
				Included:   order.RefIDs(req.IncludeReagents),
				Excluded:   order.RefIDs(req.ExcludeReagents),
				Title:      req.Title,
				Seller:     req.Seller,
			}),
		})
	})
	if err != nil {
		return nil, err
	}

	if from != updated.Status {
		o.recordTransition(ctx, from, updated.Status)
	}
	o.broadcast(ctx, model.OrderActionUpdate, user.ID, updated)
	return updated, nil
}

func (o *orderImpl) History(ctx context.Context, id int64) ([]*model.OrderHistory, error) {
	if _, err := o.store.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	return o.store.ListHistory(ctx, id)
}

func (o *orderImpl) recordTransition(ctx context.Context, from, to model.OrderStatus) {
	if o.transitions == nil {
		return
	}
	o.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	))
}

// broadcast runs after commit, a failed publish never fails the request.
func (o *orderImpl) broadcast(ctx context.Context, kind model.OrderAction, userID int64, ord *model.Order) {
	if o.msgCenter == nil {
		return
	}
	ids := make([]int64, 0, len(ord.Reagents))
	owners := make([]int64, 0, len(ord.Reagents))
	for _, r := range ord.Reagents {
		ids = append(ids, r.ID)
		owners = append(owners, r.UserID)
	}
	err := o.msgCenter.Broadcast(ctx, &notify.SendMsg{
		Channel: notify.OrderChange,
		OrderID: ord.ID,
		UserID:  userID,
		Data: notify.OrderEvent{
			Kind:       string(kind),
			OrderID:    ord.ID,
			Status:     string(ord.Status),
			RequestIDs: ids,
			Owners:     utils.Uniq(owners),
		},
	})
	if err != nil {
		logger.Warnf(ctx, "broadcast order %d change err: %+v", ord.ID, err)
	}
}

package order

import (
	"context"
	"testing"

	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/middleware/db/dbtest"
	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func seedRequests(t *testing.T, ds *db.Datastore, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		r := &model.ReagentRequest{
			Name:            "reagent",
			DesiredQuantity: 1,
			QuantityUnit:    "ml",
			Status:          model.RequestPending,
			UserID:          7,
		}
		require.NoError(t, ds.DBIns().Create(r).Error)
		ids = append(ids, r.ID)
	}
	return ids
}

func loadRequest(t *testing.T, ds *db.Datastore, id int64) *model.ReagentRequest {
	t.Helper()
	r := &model.ReagentRequest{}
	require.NoError(t, ds.DBIns().First(r, id).Error)
	return r
}

func errMsgs(err error) (string, []string) {
	_, msg, details := code.Parse(err)
	return msg, details
}

func TestCreateOrderAttachesRequests(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 2)

	order, err := store.CreateOrder(ctx, &repo.CreateOrderParam{
		Title: "Q1", Seller: "Sigma", UserID: 3, ReagentIDs: ids,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.False(t, order.UUID.IsNil())
	require.Len(t, order.Reagents, 2)
	for _, r := range order.Reagents {
		assert.Equal(t, model.RequestOrdered, r.Status)
		require.NotNil(t, r.OrderID)
		assert.Equal(t, order.ID, *r.OrderID)
	}
}

func TestCreateOrderConflict(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 3)

	first, err := store.CreateOrder(ctx, &repo.CreateOrderParam{
		Title: "A", Seller: "S", UserID: 1, ReagentIDs: ids[:2],
	})
	require.NoError(t, err)

	_, err = store.CreateOrder(ctx, &repo.CreateOrderParam{
		Title: "B", Seller: "S", UserID: 1, ReagentIDs: []int64{ids[0], ids[1], ids[2]},
	})
	require.ErrorIs(t, err, code.OrderReagentConflict)
	assert.Equal(t, code.Conflict, code.CategoryOf(err))
	msg, details := errMsgs(err)
	assert.Equal(t, []string{
		"Order with id 1 includes reagentRequests with id[s] - 1, 2 which has status Ordered",
	}, details)
	assert.Equal(t, details[0], msg)

	var count int64
	require.NoError(t, ds.DBIns().Model(&model.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, model.RequestPending, loadRequest(t, ds, ids[2]).Status)
	assert.Equal(t, first.ID, *loadRequest(t, ds, ids[0]).OrderID)
}

func TestCreateOrderConflictReportedBeforeMissing(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 1)

	_, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "A", Seller: "S", UserID: 1, ReagentIDs: ids})
	require.NoError(t, err)

	_, err = store.CreateOrder(ctx, &repo.CreateOrderParam{
		Title: "B", Seller: "S", UserID: 1, ReagentIDs: []int64{ids[0], 999},
	})
	require.ErrorIs(t, err, code.OrderReagentConflict)
}

func TestCreateOrderMissingRequests(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 1)

	_, err := store.CreateOrder(ctx, &repo.CreateOrderParam{
		Title: "A", Seller: "S", UserID: 1, ReagentIDs: []int64{ids[0], 998, 999},
	})
	require.ErrorIs(t, err, code.OrderReagentNotFound)
	msg, _ := errMsgs(err)
	assert.Equal(t, "The following reagent with ID's not found: 998,999", msg)

	var count int64
	require.NoError(t, ds.DBIns().Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, model.RequestPending, loadRequest(t, ds, ids[0]).Status)
}

func TestUpdateOrderExclude(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 3)

	order, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "A", Seller: "S", UserID: 1, ReagentIDs: ids[:2]})
	require.NoError(t, err)

	_, err = store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: order.ID, Exclude: []int64{ids[1], ids[2]}})
	require.ErrorIs(t, err, code.OrderExcludeNotFound)
	msg, _ := errMsgs(err)
	assert.Equal(t, "Order with id 1 doesn't have the following reagent[s] - 3 for excluding", msg)
	assert.Equal(t, model.RequestOrdered, loadRequest(t, ds, ids[1]).Status)

	updated, err := store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: order.ID, Exclude: []int64{ids[1]}})
	require.NoError(t, err)
	require.Len(t, updated.Reagents, 1)
	assert.Equal(t, ids[0], updated.Reagents[0].ID)

	excluded := loadRequest(t, ds, ids[1])
	assert.Equal(t, model.RequestPending, excluded.Status)
	assert.Nil(t, excluded.OrderID)
}

func TestUpdateOrderInclude(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 4)

	target, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "T", Seller: "S", UserID: 1, ReagentIDs: ids[:1]})
	require.NoError(t, err)
	other, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "O", Seller: "S", UserID: 1, ReagentIDs: ids[1:2]})
	require.NoError(t, err)

	_, err = store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: target.ID, Include: []int64{ids[2], 404}})
	require.ErrorIs(t, err, code.OrderReagentNotFound)
	msg, _ := errMsgs(err)
	assert.Equal(t, "The following reagent IDs not found: 404 for including", msg)
	assert.Equal(t, model.RequestPending, loadRequest(t, ds, ids[2]).Status)

	updated, err := store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: target.ID, Include: []int64{ids[1], ids[2]}})
	require.NoError(t, err)
	require.Len(t, updated.Reagents, 3)
	for _, r := range updated.Reagents {
		assert.Equal(t, model.RequestOrdered, r.Status)
		assert.Equal(t, target.ID, *r.OrderID)
	}

	moved, err := store.GetOrder(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, moved.Reagents)

	submitted := model.OrderSubmitted
	_, err = store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: target.ID, Status: &submitted})
	require.NoError(t, err)

	_, err = store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: other.ID, Include: []int64{ids[3], ids[0]}})
	require.ErrorIs(t, err, code.OrderIncludeSubmittedErr)
	msg, _ = errMsgs(err)
	assert.Equal(t, "reagent with id 1 can't be included because it belongs to order 1 which is Submitted", msg)
	assert.Equal(t, model.RequestPending, loadRequest(t, ds, ids[3]).Status)
}

func TestUpdateOrderCascade(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 4)

	declined, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "D", Seller: "S", UserID: 1, ReagentIDs: ids[:2]})
	require.NoError(t, err)
	fulfilled, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "F", Seller: "S", UserID: 1, ReagentIDs: ids[2:]})
	require.NoError(t, err)

	status := model.OrderDeclined
	out, err := store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: declined.ID, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.OrderDeclined, out.Status)
	require.Len(t, out.Reagents, 2)
	for _, r := range out.Reagents {
		assert.Equal(t, model.RequestPending, r.Status)
	}

	status = model.OrderFulfilled
	out, err = store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: fulfilled.ID, Status: &status})
	require.NoError(t, err)
	for _, r := range out.Reagents {
		assert.Equal(t, model.RequestFulfilled, r.Status)
	}
}

func TestUpdateOrderScalars(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 1)

	order, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "A", Seller: "S", UserID: 1, ReagentIDs: ids})
	require.NoError(t, err)

	title, seller := "B", "Merck"
	out, err := store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: order.ID, Title: &title, Seller: &seller})
	require.NoError(t, err)
	assert.Equal(t, "B", out.Title)
	assert.Equal(t, "Merck", out.Seller)
	assert.Equal(t, model.OrderPending, out.Status)
	assert.Equal(t, model.RequestOrdered, out.Reagents[0].Status)
}

func TestGetOrderNotFound(t *testing.T) {
	ctx := context.Background()
	store := New(dbtest.New(t))

	_, err := store.GetOrder(ctx, 42)
	require.ErrorIs(t, err, code.OrderNotFound)
	_, err = store.GetOrderForUpdate(ctx, 42)
	require.ErrorIs(t, err, code.OrderNotFound)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 3)

	_, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "Solvents", Seller: "Sigma", UserID: 1, ReagentIDs: ids[:2]})
	require.NoError(t, err)
	_, err = store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "acids", Seller: "Merck", UserID: 1, ReagentIDs: ids[2:]})
	require.NoError(t, err)

	title := "SOLV"
	list, total, err := store.ListOrders(ctx, &repo.OrderQuery{Page: repo.Page{Limit: 10}, Title: &title})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Solvents", list[0].Title)
	assert.EqualValues(t, 2, list[0].ReagentCount)

	list, total, err = store.ListOrders(ctx, &repo.OrderQuery{
		Page:      repo.Page{Limit: 10},
		SortField: repo.SortSeller,
		SortOrder: common.SortAsc,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "Merck", list[0].Seller)
	assert.EqualValues(t, 1, list[0].ReagentCount)

	list, total, err = store.ListOrders(ctx, &repo.OrderQuery{Page: repo.Page{Offset: 1, Limit: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "acids", list[0].Title)

	status := model.OrderSubmitted
	list, _, err = store.ListOrders(ctx, &repo.OrderQuery{Page: repo.Page{Limit: 10}, Status: &status})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrderHistory(t *testing.T) {
	ctx := context.Background()
	store := New(dbtest.New(t))

	require.NoError(t, store.AddHistory(ctx, &model.OrderHistory{
		OrderID: 5,
		UserID:  1,
		Action:  model.OrderActionUpdate,
		Payload: datatypes.NewJSONType(model.OrderHistoryPayload{
			FromStatus: model.OrderPending,
			ToStatus:   model.OrderSubmitted,
			Included:   []int64{3},
		}),
	}))

	list, err := store.ListHistory(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.OrderSubmitted, list[0].Payload.Data().ToStatus)
	assert.Equal(t, []int64{3}, list[0].Payload.Data().Included)
}

func TestUpdateOrderExcludeIncludeRoundTrip(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 2)

	order, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "A", Seller: "S", UserID: 1, ReagentIDs: ids})
	require.NoError(t, err)

	_, err = store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: order.ID, Exclude: []int64{ids[1]}})
	require.NoError(t, err)
	out := loadRequest(t, ds, ids[1])
	assert.Equal(t, model.RequestPending, out.Status)
	assert.Nil(t, out.OrderID)

	updated, err := store.UpdateOrder(ctx, &repo.UpdateOrderParam{ID: order.ID, Include: []int64{ids[1]}})
	require.NoError(t, err)
	require.Len(t, updated.Reagents, 2)

	back := loadRequest(t, ds, ids[1])
	assert.Equal(t, model.RequestOrdered, back.Status)
	require.NotNil(t, back.OrderID)
	assert.Equal(t, order.ID, *back.OrderID)
}

func TestUpdateOrderRollsBackExcludeOnIncludeFailure(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 2)

	order, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "A", Seller: "S", UserID: 1, ReagentIDs: ids})
	require.NoError(t, err)

	title := "renamed"
	_, err = store.UpdateOrder(ctx, &repo.UpdateOrderParam{
		ID:      order.ID,
		Title:   &title,
		Exclude: []int64{ids[1]},
		Include: []int64{404},
	})
	require.ErrorIs(t, err, code.OrderReagentNotFound)

	kept := loadRequest(t, ds, ids[1])
	assert.Equal(t, model.RequestOrdered, kept.Status)
	require.NotNil(t, kept.OrderID)
	assert.Equal(t, order.ID, *kept.OrderID)

	got, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Len(t, got.Reagents, 2)
}

func TestListOrdersHugeLimit(t *testing.T) {
	ctx := context.Background()
	ds := dbtest.New(t)
	store := New(ds)
	ids := seedRequests(t, ds, 1)

	_, err := store.CreateOrder(ctx, &repo.CreateOrderParam{Title: "A", Seller: "S", UserID: 1, ReagentIDs: ids})
	require.NoError(t, err)

	list, total, err := store.ListOrders(ctx, &repo.OrderQuery{Page: repo.Page{Limit: 1 << 50}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

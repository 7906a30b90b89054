package reagent

import (
	"context"
	"testing"

	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/core/reagent"
	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/middleware/db/dbtest"
	"github.com/scienceol/lims/pkg/repo/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, ds *db.Datastore, status model.RequestStatus, cas *string) *model.ReagentRequest {
	t.Helper()
	pkg := model.PackageSolventsBox
	r := &model.ReagentRequest{
		Name:            "Toluene",
		DesiredQuantity: 2.5,
		QuantityUnit:    "l",
		CASNumber:       cas,
		Package:         &pkg,
		PricePerUnit:    decimal.NewNullDecimal(decimal.NewFromInt(40)),
		Status:          status,
		UserID:          7,
	}
	require.NoError(t, ds.DBIns().Create(r).Error)
	return r
}

func statusOf(t *testing.T, ds *db.Datastore, id int64) model.RequestStatus {
	t.Helper()
	r := &model.ReagentRequest{}
	require.NoError(t, ds.DBIns().First(r, id).Error)
	return r.Status
}

func TestCreateFromFulfilledRequest(t *testing.T) {
	ds := dbtest.New(t)
	cas := "108-88-3"
	src := seed(t, ds, model.RequestFulfilled, &cas)

	created, err := New(ds).CreateFromRequest(context.Background(), &reagent.FromRequestReq{
		ReagentRequestID: src.ID,
		StorageID:        3,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(3), created.StorageID)
	assert.Equal(t, "Toluene", created.Name)
	assert.Equal(t, "108-88-3", created.CASNumber)
	assert.Equal(t, 2.5, created.TotalQuantity)
	assert.Equal(t, 2.5, created.QuantityLeft)
	assert.Equal(t, "created from reagent request", created.Description)
	assert.Equal(t, model.CategoryReagent, created.Category)
	assert.False(t, created.IsDeleted)
	require.NotNil(t, created.Package)
	assert.Equal(t, model.PackageSolventsBox, *created.Package)

	assert.Equal(t, model.RequestCompleted, statusOf(t, ds, src.ID))
}

func TestCreateFromRequestWithoutCAS(t *testing.T) {
	ds := dbtest.New(t)
	src := seed(t, ds, model.RequestFulfilled, nil)

	created, err := New(ds).CreateFromRequest(context.Background(), &reagent.FromRequestReq{ReagentRequestID: src.ID, StorageID: 1})
	require.NoError(t, err)
	assert.Equal(t, "", created.CASNumber)
}

func TestCreateFromRequestRejectsOtherStatuses(t *testing.T) {
	for _, status := range []model.RequestStatus{
		model.RequestPending, model.RequestOrdered, model.RequestDeclined, model.RequestCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			ds := dbtest.New(t)
			src := seed(t, ds, status, nil)

			_, err := New(ds).CreateFromRequest(context.Background(), &reagent.FromRequestReq{ReagentRequestID: src.ID, StorageID: 1})
			assert.ErrorIs(t, err, code.ReagentRequestNotFulfilled)
			_, msg, _ := code.Parse(err)
			assert.Equal(t, "Only from Fulfilled requests can be created reagents", msg)
			assert.Equal(t, status, statusOf(t, ds, src.ID))

			var n int64
			require.NoError(t, ds.DBIns().Model(&model.Reagent{}).Count(&n).Error)
			assert.Zero(t, n)
		})
	}
}

func TestCreateFromMissingRequest(t *testing.T) {
	_, err := New(dbtest.New(t)).CreateFromRequest(context.Background(), &reagent.FromRequestReq{ReagentRequestID: 99, StorageID: 1})
	assert.ErrorIs(t, err, code.ReagentRequestNotFound)
	_, msg, _ := code.Parse(err)
	assert.Equal(t, "Reagent request is not found", msg)
}

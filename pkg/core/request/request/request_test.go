package request

import (
	"context"
	"testing"

	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/core/request"
	"github.com/scienceol/lims/pkg/middleware/auth"
	"github.com/scienceol/lims/pkg/middleware/db/dbtest"
	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePubChem struct {
	calls int
	info  *repo.CompoundInfo
	err   error
}

func (f *fakePubChem) GetCompoundByCAS(_ context.Context, _ string) (*repo.CompoundInfo, error) {
	f.calls++
	return f.info, f.err
}

func as(id int64, role common.Role) context.Context {
	return auth.WithUser(context.Background(), &model.UserData{ID: id, Role: role})
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreate(t *testing.T) {
	svc := New(dbtest.New(t))

	price := decimal.RequireFromString("12.50")
	created, err := svc.Create(as(7, common.Researcher), &request.CreateReq{
		Name:            "Ethanol",
		DesiredQuantity: 500,
		QuantityUnit:    "ml",
		Package:         ptr(model.PackageBottle),
		PricePerUnit:    &price,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, model.RequestPending, created.Status)
	assert.Equal(t, int64(7), created.UserID)
	assert.True(t, created.PricePerUnit.Valid)
	assert.Equal(t, "12.5", created.PricePerUnit.Decimal.String())

	_, err = svc.Create(context.Background(), &request.CreateReq{Name: "x", DesiredQuantity: 1, QuantityUnit: "g"})
	assert.ErrorIs(t, err, code.UnLogin)
}

func TestCreateEnrichesStructure(t *testing.T) {
	pc := &fakePubChem{info: &repo.CompoundInfo{SMILES: "CCO"}}
	svc := New(dbtest.New(t), WithPubChem(pc, true))
	ctx := as(7, common.Researcher)

	created, err := svc.Create(ctx, &request.CreateReq{
		Name: "Ethanol", DesiredQuantity: 1, QuantityUnit: "l", CASNumber: ptr("64-17-5"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.StructureSmiles)
	assert.Equal(t, "CCO", *created.StructureSmiles)

	given, err := svc.Create(ctx, &request.CreateReq{
		Name: "Ethanol", DesiredQuantity: 1, QuantityUnit: "l", CASNumber: ptr("64-17-5"), StructureSmiles: ptr("OCC"),
	})
	require.NoError(t, err)
	assert.Equal(t, "OCC", *given.StructureSmiles)
	assert.Equal(t, 1, pc.calls)
}

func TestCreateEnrichFailureIgnored(t *testing.T) {
	pc := &fakePubChem{err: code.ReagentCASNotFindErr}
	svc := New(dbtest.New(t), WithPubChem(pc, true))

	created, err := svc.Create(as(7, common.Researcher), &request.CreateReq{
		Name: "Unknown", DesiredQuantity: 1, QuantityUnit: "g", CASNumber: ptr("000-00-0"),
	})
	require.NoError(t, err)
	assert.Nil(t, created.StructureSmiles)
}

func TestListScope(t *testing.T) {
	svc := New(dbtest.New(t))
	for _, owner := range []int64{7, 7, 8} {
		_, err := svc.Create(as(owner, common.Researcher), &request.CreateReq{Name: "r", DesiredQuantity: 1, QuantityUnit: "g"})
		require.NoError(t, err)
	}

	own, err := svc.List(as(7, common.Researcher), &request.ListReq{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), own.Size)
	for _, r := range own.Requests {
		assert.Equal(t, int64(7), r.UserID)
	}

	all, err := svc.List(as(1, common.ProcurementOfficer), &request.ListReq{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Size)
}

func TestGetVisibility(t *testing.T) {
	svc := New(dbtest.New(t))
	created, err := svc.Create(as(7, common.Researcher), &request.CreateReq{Name: "r", DesiredQuantity: 1, QuantityUnit: "g"})
	require.NoError(t, err)

	got, err := svc.Get(as(7, common.Researcher), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(as(1, common.ProcurementOfficer), created.ID)
	require.NoError(t, err)

	_, err = svc.Get(as(8, common.Researcher), created.ID)
	assert.ErrorIs(t, err, code.PermissionDenied)

	_, err = svc.Get(as(7, common.Researcher), created.ID+100)
	assert.ErrorIs(t, err, code.ReagentRequestNotFound)
}

func TestEditIsPermissive(t *testing.T) {
	svc := New(dbtest.New(t))
	created, err := svc.Create(as(7, common.Researcher), &request.CreateReq{Name: "r", DesiredQuantity: 1, QuantityUnit: "g"})
	require.NoError(t, err)

	edited, err := svc.Edit(as(1, common.ProcurementOfficer), &request.EditReq{
		ID:                  created.ID,
		Status:              ptr(model.RequestCompleted),
		ProcurementComments: ptr("bought"),
		DesiredQuantity:     ptr(3.0),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestCompleted, edited.Status)
	assert.Equal(t, "bought", *edited.ProcurementComments)
	assert.Equal(t, 3.0, edited.DesiredQuantity)

	_, err = svc.Edit(as(1, common.ProcurementOfficer), &request.EditReq{ID: created.ID, Status: ptr(model.RequestStatus("Lost"))})
	assert.ErrorIs(t, err, code.ParamErr)

	_, err = svc.Edit(as(1, common.ProcurementOfficer), &request.EditReq{ID: created.ID + 100})
	assert.ErrorIs(t, err, code.ReagentRequestNotFound)
}

func TestUpdateOwn(t *testing.T) {
	ds := dbtest.New(t)
	svc := New(ds)
	created, err := svc.Create(as(7, common.Researcher), &request.CreateReq{Name: "r", DesiredQuantity: 1, QuantityUnit: "g"})
	require.NoError(t, err)

	updated, err := svc.UpdateOwn(as(7, common.Researcher), &request.OwnEditReq{
		ID:           created.ID,
		Name:         ptr("renamed"),
		UserComments: ptr("urgent"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "urgent", *updated.UserComments)

	_, err = svc.UpdateOwn(as(8, common.Researcher), &request.OwnEditReq{ID: created.ID, Name: ptr("x")})
	assert.ErrorIs(t, err, code.ReagentRequestNotFound)

	require.NoError(t, ds.DBIns().Model(&model.ReagentRequest{}).
		Where("id = ?", created.ID).Update("status", model.RequestOrdered).Error)
	_, err = svc.UpdateOwn(as(7, common.Researcher), &request.OwnEditReq{ID: created.ID, Name: ptr("x")})
	assert.ErrorIs(t, err, code.ReagentRequestNotPending)
}

func TestOwnEditFieldsStayOnRequesterColumns(t *testing.T) {
	req := &request.OwnEditReq{
		Name:            ptr("n"),
		DesiredQuantity: ptr(2.0),
		QuantityUnit:    ptr("g"),
		StructureSmiles: ptr("C"),
		CASNumber:       ptr("64-17-5"),
		UserComments:    ptr("c"),
	}
	cols := make([]string, 0)
	for col := range req.Fields() {
		cols = append(cols, col)
	}
	assert.ElementsMatch(t, []string{
		"name", "desired_quantity", "quantity_unit", "structure_smiles", "cas_number", "user_comments",
	}, cols)
	assert.Empty(t, (&request.OwnEditReq{}).Fields())
}

func TestLookupCAS(t *testing.T) {
	_, err := New(dbtest.New(t)).LookupCAS(context.Background(), "64-17-5")
	assert.ErrorIs(t, err, code.ReagentCASQueryErr)

	pc := &fakePubChem{info: &repo.CompoundInfo{Name: "ethanol", SMILES: "CCO"}}
	svc := New(dbtest.New(t), WithPubChem(pc, false))
	_, err = svc.LookupCAS(context.Background(), " ")
	assert.ErrorIs(t, err, code.ParamErr)

	info, err := svc.LookupCAS(context.Background(), "64-17-5")
	require.NoError(t, err)
	assert.Equal(t, "CCO", info.SMILES)
}

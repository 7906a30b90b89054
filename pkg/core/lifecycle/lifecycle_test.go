package lifecycle

import (
	"testing"

	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/repo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func status(s model.OrderStatus) *model.OrderStatus {
	return &s
}

func TestCheckOrderUpdate(t *testing.T) {
	cases := []struct {
		name    string
		current model.OrderStatus
		patch   OrderPatch
		want    error
		msg     string
	}{
		{"declined is final", model.OrderDeclined, OrderPatch{Fields: 1}, code.OrderImmutableErr, "Declined orders can't be edited"},
		{"fulfilled is final", model.OrderFulfilled, OrderPatch{Status: status(model.OrderDeclined), Fields: 1}, code.OrderImmutableErr, "Fulfilled orders can't be edited"},
		{"pending to submitted", model.OrderPending, OrderPatch{Status: status(model.OrderSubmitted), Fields: 3}, nil, ""},
		{"pending without status", model.OrderPending, OrderPatch{Fields: 2}, nil, ""},
		{"pending to fulfilled", model.OrderPending, OrderPatch{Status: status(model.OrderFulfilled), Fields: 1}, code.OrderPendingTransitionErr,
			"Pending orders can be changed only to Submitted status"},
		{"pending to declined", model.OrderPending, OrderPatch{Status: status(model.OrderDeclined), Fields: 1}, code.OrderPendingTransitionErr, ""},
		{"submitted to fulfilled", model.OrderSubmitted, OrderPatch{Status: status(model.OrderFulfilled), Fields: 1}, nil, ""},
		{"submitted to declined", model.OrderSubmitted, OrderPatch{Status: status(model.OrderDeclined), Fields: 1}, nil, ""},
		{"submitted with extra field", model.OrderSubmitted, OrderPatch{Status: status(model.OrderFulfilled), Fields: 2}, code.OrderSubmittedTransitionErr,
			"Order with status Submitted cannot be modified. You can only change its status to Fulfilled or Declined."},
		{"submitted without status", model.OrderSubmitted, OrderPatch{Fields: 1}, code.OrderSubmittedTransitionErr, ""},
		{"submitted to submitted", model.OrderSubmitted, OrderPatch{Status: status(model.OrderSubmitted), Fields: 1}, code.OrderSubmittedTransitionErr, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := CheckOrderUpdate(c.current, c.patch)
			if c.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, c.want)
			assert.Equal(t, code.BadRequest, code.CategoryOf(err))
			if c.msg != "" {
				_, msg, _ := code.Parse(err)
				assert.Equal(t, c.msg, msg)
			}
		})
	}
}

func TestRequestCascade(t *testing.T) {
	next, ok := RequestCascade(model.OrderDeclined)
	assert.True(t, ok)
	assert.Equal(t, model.RequestPending, next)

	next, ok = RequestCascade(model.OrderFulfilled)
	assert.True(t, ok)
	assert.Equal(t, model.RequestFulfilled, next)

	_, ok = RequestCascade(model.OrderSubmitted)
	assert.False(t, ok)
}

func TestCheckConvert(t *testing.T) {
	require.NoError(t, CheckConvert(model.RequestFulfilled))
	for _, s := range []model.RequestStatus{
		model.RequestPending, model.RequestSubmitted, model.RequestOrdered,
		model.RequestDeclined, model.RequestCompleted,
	} {
		err := CheckConvert(s)
		require.ErrorIs(t, err, code.ReagentRequestNotFulfilled, s)
		_, msg, _ := code.Parse(err)
		assert.Equal(t, "Only from Fulfilled requests can be created reagents", msg)
	}
}

func TestCheckOwnerEdit(t *testing.T) {
	require.NoError(t, CheckOwnerEdit(model.RequestPending))
	require.ErrorIs(t, CheckOwnerEdit(model.RequestOrdered), code.ReagentRequestNotPending)
}

func TestCheckOverride(t *testing.T) {
	completed := model.RequestCompleted
	bottle := model.PackageBottle
	require.NoError(t, CheckOverride(&completed, &bottle))
	require.NoError(t, CheckOverride(nil, nil))

	bogus := model.RequestStatus("Lost")
	require.ErrorIs(t, CheckOverride(&bogus, nil), code.ParamErr)
	crate := model.Package("Crate")
	require.ErrorIs(t, CheckOverride(nil, &crate), code.ParamErr)
}

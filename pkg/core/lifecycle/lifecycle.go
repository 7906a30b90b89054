// Package lifecycle holds the status rules shared by orders and reagent
// requests.
//
//	request: Pending -> Submitted -> Ordered -> Declined | Fulfilled -> Completed
//	order:   Pending -> Submitted -> Declined | Fulfilled
package lifecycle

import (
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/repo/model"
)

// OrderPatch describes an order update for the status guard. Fields counts
// every supplied field, status included.
type OrderPatch struct {
	Status *model.OrderStatus
	Fields int
}

// CheckOrderUpdate validates patch against the order's current status.
func CheckOrderUpdate(current model.OrderStatus, patch OrderPatch) error {
	switch current {
	case model.OrderDeclined, model.OrderFulfilled:
		return code.OrderImmutableErr.WithMsgf("%s orders can't be edited", current)
	case model.OrderPending:
		if patch.Status != nil && *patch.Status != model.OrderSubmitted {
			return code.OrderPendingTransitionErr
		}
	case model.OrderSubmitted:
		if patch.Fields > 1 || patch.Status == nil || !patch.Status.Final() {
			return code.OrderSubmittedTransitionErr
		}
	}
	return nil
}

// RequestCascade returns the status attached requests take when their order
// moves to status.
func RequestCascade(status model.OrderStatus) (model.RequestStatus, bool) {
	switch status {
	case model.OrderDeclined:
		return model.RequestPending, true
	case model.OrderFulfilled:
		return model.RequestFulfilled, true
	}
	return "", false
}

func CheckConvert(status model.RequestStatus) error {
	if status != model.RequestFulfilled {
		return code.ReagentRequestNotFulfilled
	}
	return nil
}

func CheckOwnerEdit(status model.RequestStatus) error {
	if status != model.RequestPending {
		return code.ReagentRequestNotPending
	}
	return nil
}

// CheckOverride only checks enum validity, any transition is allowed.
func CheckOverride(status *model.RequestStatus, pkg *model.Package) error {
	if status != nil && !status.Valid() {
		return code.ParamErr.WithMsg("status must be one of Pending, Submitted, Ordered, Declined, Fulfilled, Completed")
	}
	if pkg != nil && !pkg.Valid() {
		return code.ParamErr.WithMsg("package must be one of Bottle, SolventsBox, PackageBox")
	}
	return nil
}

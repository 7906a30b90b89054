package repo

import (
	"context"

	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/repo/model"
)

// RequestScope limits which reagent requests a query may see.
type RequestScope struct {
	ownerID int64
	owned   bool
}

func ScopeAll() RequestScope {
	return RequestScope{}
}

func OwnedBy(userID int64) RequestScope {
	return RequestScope{ownerID: userID, owned: true}
}

// Owner reports the owner the scope is restricted to, if any.
func (s RequestScope) Owner() (int64, bool) {
	return s.ownerID, s.owned
}

type RequestQuery struct {
	Page
	Scope  RequestScope
	Status *model.RequestStatus
	Name   *string

	SortByCreatedDate *common.SortOrder
	SortByUpdatedDate *common.SortOrder
	SortByQuantity    *common.SortOrder
}

// RequestOverride is the procurement officer's direct edit. Only enum
// validity is checked.
type RequestOverride struct {
	Status              *model.RequestStatus
	ProcurementComments *string
	DesiredQuantity     *float64
	Package             *model.Package
}

func (o *RequestOverride) Fields() map[string]any {
	fields := map[string]any{}
	if o.Status != nil {
		fields["status"] = *o.Status
	}
	if o.ProcurementComments != nil {
		fields["procurement_comments"] = *o.ProcurementComments
	}
	if o.DesiredQuantity != nil {
		fields["desired_quantity"] = *o.DesiredQuantity
	}
	if o.Package != nil {
		fields["package"] = *o.Package
	}
	return fields
}

type ReagentRequestRepo interface {
	CreateRequest(ctx context.Context, req *model.ReagentRequest) error
	// GetRequest returns code.ReagentRequestNotFound when the row is
	// missing or outside scope.
	GetRequest(ctx context.Context, id int64, scope RequestScope) (*model.ReagentRequest, error)
	// GetRequestForUpdate locks the row inside the caller's transaction.
	GetRequestForUpdate(ctx context.Context, id int64) (*model.ReagentRequest, error)
	ListRequests(ctx context.Context, q *RequestQuery) ([]*model.ReagentRequest, int64, error)
	// UpdateFields writes a partial column set without cross-field checks.
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.ReagentRequest, error)
	OverrideFields(ctx context.Context, id int64, patch *RequestOverride) (*model.ReagentRequest, error)
}

package order

import (
	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/model"
)

type ReagentRef struct {
	ID int64 `json:"id" binding:"required,gt=0"`
}

func RefIDs(refs []ReagentRef) []int64 {
	if refs == nil {
		return nil
	}
	ids := make([]int64, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

type CreateReq struct {
	Title    string       `json:"title" binding:"required,max=200"`
	Seller   string       `json:"seller" binding:"required,max=200"`
	Reagents []ReagentRef `json:"reagents" binding:"required,min=1,dive"`
}

func (r *CreateReq) ReagentIDs() []int64 {
	return RefIDs(r.Reagents)
}

type UpdateReq struct {
	ID              int64              `json:"-"`
	Title           *string            `json:"title" binding:"omitempty,max=200"`
	Seller          *string            `json:"seller" binding:"omitempty,max=200"`
	Status          *model.OrderStatus `json:"status" binding:"omitempty,oneof=Submitted Fulfilled Declined"`
	IncludeReagents []ReagentRef       `json:"includeReagents" binding:"omitempty,min=1,dive"`
	ExcludeReagents []ReagentRef       `json:"excludeReagents" binding:"omitempty,min=1,dive"`
}

// FieldCount counts the supplied fields. A present but empty reagent list
// still counts.
func (r *UpdateReq) FieldCount() int {
	n := 0
	if r.Title != nil {
		n++
	}
	if r.Seller != nil {
		n++
	}
	if r.Status != nil {
		n++
	}
	if r.IncludeReagents != nil {
		n++
	}
	if r.ExcludeReagents != nil {
		n++
	}
	return n
}

type ListReq struct {
	common.PageReq
	Title  *string            `form:"title" binding:"omitempty,max=200"`
	Seller *string            `form:"seller" binding:"omitempty,max=200"`
	Status *model.OrderStatus `form:"status" binding:"omitempty,order_status"`

	UpdatedAt   *common.SortOrder `form:"updatedAt" binding:"omitempty,oneof=asc desc"`
	CreatedAt   *common.SortOrder `form:"createdAt" binding:"omitempty,oneof=asc desc"`
	TitleOrder  *common.SortOrder `form:"titleOrder" binding:"omitempty,oneof=asc desc"`
	SellerOrder *common.SortOrder `form:"sellerOrder" binding:"omitempty,oneof=asc desc"`
}

// Sort returns the single requested sort key, if any.
func (r *ListReq) Sort() (repo.OrderSortField, common.SortOrder, error) {
	var (
		field repo.OrderSortField
		order common.SortOrder
		n     int
	)
	for _, s := range []struct {
		field repo.OrderSortField
		order *common.SortOrder
	}{
		{repo.SortUpdatedAt, r.UpdatedAt},
		{repo.SortCreatedAt, r.CreatedAt},
		{repo.SortTitle, r.TitleOrder},
		{repo.SortSeller, r.SellerOrder},
	} {
		if s.order == nil {
			continue
		}
		n++
		field, order = s.field, *s.order
	}
	if n > 1 {
		return "", "", code.OrderSortParamErr
	}
	return field, order, nil
}

type ListResp struct {
	Orders []*repo.OrderWithCount `json:"orders"`
	Size   int64                  `json:"size"`
}

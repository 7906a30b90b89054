package request

import (
	"time"

	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/model"
	"github.com/shopspring/decimal"
)

type CreateReq struct {
	Name            string           `json:"name" binding:"required,max=255"`
	DesiredQuantity float64          `json:"desiredQuantity" binding:"required,gt=0"`
	QuantityUnit    string           `json:"quantityUnit" binding:"required,max=64"`
	StructureSmiles *string          `json:"structureSmiles"`
	CASNumber       *string          `json:"casNumber" binding:"omitempty,max=64"`
	UserComments    *string          `json:"userComments"`
	Package         *model.Package   `json:"package" binding:"omitempty,reagent_package"`
	Producer        *string          `json:"producer" binding:"omitempty,max=255"`
	CatalogID       *string          `json:"catalogId" binding:"omitempty,max=255"`
	CatalogLink     *string          `json:"catalogLink"`
	PricePerUnit    *decimal.Decimal `json:"pricePerUnit"`
	ExpirationDate  *time.Time       `json:"expirationDate"`
	Hide            bool             `json:"hide"`
}

func (r *CreateReq) ToModel(userID int64) *model.ReagentRequest {
	m := &model.ReagentRequest{
		Name:            r.Name,
		DesiredQuantity: r.DesiredQuantity,
		QuantityUnit:    r.QuantityUnit,
		StructureSmiles: r.StructureSmiles,
		CASNumber:       r.CASNumber,
		UserComments:    r.UserComments,
		Package:         r.Package,
		Producer:        r.Producer,
		CatalogID:       r.CatalogID,
		CatalogLink:     r.CatalogLink,
		ExpirationDate:  r.ExpirationDate,
		Hide:            r.Hide,
		Status:          model.RequestPending,
		UserID:          userID,
	}
	if r.PricePerUnit != nil {
		m.PricePerUnit = decimal.NewNullDecimal(*r.PricePerUnit)
	}
	return m
}

type ListReq struct {
	common.PageReq
	Status *model.RequestStatus `form:"status" binding:"omitempty,request_status"`
	Name   *string              `form:"name" binding:"omitempty,max=255"`

	SortByQuantity    *common.SortOrder `form:"sortByQuantity" binding:"omitempty,oneof=asc desc"`
	SortByCreatedDate *common.SortOrder `form:"sortByCreatedDate" binding:"omitempty,oneof=asc desc"`
	SortByUpdatedDate *common.SortOrder `form:"sortByUpdatedDate" binding:"omitempty,oneof=asc desc"`
}

func (r *ListReq) Query(scope repo.RequestScope) *repo.RequestQuery {
	return &repo.RequestQuery{
		Page:              repo.Page{Offset: r.Offset(), Limit: r.Limit()},
		Scope:             scope,
		Status:            r.Status,
		Name:              r.Name,
		SortByCreatedDate: r.SortByCreatedDate,
		SortByUpdatedDate: r.SortByUpdatedDate,
		SortByQuantity:    r.SortByQuantity,
	}
}

type ListResp struct {
	Requests []*model.ReagentRequest `json:"requests"`
	Size     int64                   `json:"size"`
}

// EditReq is the procurement officer's override. Any status may be set.
type EditReq struct {
	ID                  int64                `json:"-"`
	Status              *model.RequestStatus `json:"status" binding:"omitempty,request_status"`
	ProcurementComments *string              `json:"procurementComments"`
	DesiredQuantity     *float64             `json:"desiredQuantity" binding:"omitempty,gt=0"`
	Package             *model.Package       `json:"package" binding:"omitempty,reagent_package"`
}

// OwnEditReq is the creator's edit of a Pending request. Procurement
// fields stay with EditReq.
type OwnEditReq struct {
	ID              int64    `json:"-"`
	Name            *string  `json:"name" binding:"omitempty,min=1,max=255"`
	DesiredQuantity *float64 `json:"desiredQuantity" binding:"omitempty,gt=0"`
	QuantityUnit    *string  `json:"quantityUnit" binding:"omitempty,min=1,max=64"`
	StructureSmiles *string  `json:"structureSmiles"`
	CASNumber       *string  `json:"casNumber" binding:"omitempty,max=64"`
	UserComments    *string  `json:"userComments"`
}

func (r *OwnEditReq) Fields() map[string]any {
	fields := map[string]any{}
	set := func(col string, ok bool, v any) {
		if ok {
			fields[col] = v
		}
	}
	set("name", r.Name != nil, deref(r.Name))
	set("desired_quantity", r.DesiredQuantity != nil, deref(r.DesiredQuantity))
	set("quantity_unit", r.QuantityUnit != nil, deref(r.QuantityUnit))
	set("structure_smiles", r.StructureSmiles != nil, deref(r.StructureSmiles))
	set("cas_number", r.CASNumber != nil, deref(r.CASNumber))
	set("user_comments", r.UserComments != nil, deref(r.UserComments))
	return fields
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

type CASReq struct {
	CAS string `form:"cas" binding:"required,max=64"`
}

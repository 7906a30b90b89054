package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "Pending"
	RequestSubmitted RequestStatus = "Submitted"
	RequestOrdered   RequestStatus = "Ordered"
	RequestDeclined  RequestStatus = "Declined"
	RequestFulfilled RequestStatus = "Fulfilled"
	RequestCompleted RequestStatus = "Completed"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestSubmitted, RequestOrdered,
		RequestDeclined, RequestFulfilled, RequestCompleted:
		return true
	}
	return false
}

type Package string

const (
	PackageBottle      Package = "Bottle"
	PackageSolventsBox Package = "SolventsBox"
	PackagePackageBox  Package = "PackageBox"
)

func (p Package) Valid() bool {
	switch p {
	case PackageBottle, PackageSolventsBox, PackagePackageBox:
		return true
	}
	return false
}

type ReagentRequest struct {
	BaseModel
	Name                string              `gorm:"type:varchar(255);not null;index" json:"name"`
	DesiredQuantity     float64             `gorm:"not null" json:"desiredQuantity"`
	QuantityUnit        string              `gorm:"type:varchar(64);not null" json:"quantityUnit"`
	StructureSmiles     *string             `gorm:"type:text" json:"structureSmiles"`
	CASNumber           *string             `gorm:"type:varchar(64)" json:"casNumber"`
	UserComments        *string             `gorm:"type:text" json:"userComments"`
	ProcurementComments *string             `gorm:"type:text" json:"procurementComments"`
	Package             *Package            `gorm:"type:varchar(32)" json:"package"`
	Producer            *string             `gorm:"type:varchar(255)" json:"producer"`
	CatalogID           *string             `gorm:"type:varchar(255)" json:"catalogId"`
	CatalogLink         *string             `gorm:"type:text" json:"catalogLink"`
	PricePerUnit        decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"pricePerUnit"`
	ExpirationDate      *time.Time          `json:"expirationDate"`
	Hide                bool                `gorm:"not null;default:false" json:"hide"`
	Status              RequestStatus       `gorm:"type:varchar(32);not null;default:Pending;index" json:"status"`
	UserID              int64               `gorm:"not null;index" json:"userId"`
	OrderID             *int64              `gorm:"index" json:"orderId"`
}

func (*ReagentRequest) TableName() string {
	return "reagent_request"
}

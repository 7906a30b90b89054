package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReagentCategory string

const (
	CategoryReagent ReagentCategory = "Reagent"
	CategorySample  ReagentCategory = "Sample"
)

type Reagent struct {
	BaseModel
	StorageID      int64               `gorm:"not null;index" json:"storageId"`
	Name           string              `gorm:"type:varchar(255);not null" json:"name"`
	CASNumber      string              `gorm:"type:varchar(64)" json:"casNumber"`
	Producer       *string             `gorm:"type:varchar(255)" json:"producer"`
	CatalogID      *string             `gorm:"type:varchar(255)" json:"catalogId"`
	CatalogLink    *string             `gorm:"type:text" json:"catalogLink"`
	PricePerUnit   decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"pricePerUnit"`
	QuantityUnit   string              `gorm:"type:varchar(64);not null" json:"quantityUnit"`
	TotalQuantity  float64             `gorm:"not null" json:"totalQuantity"`
	QuantityLeft   float64             `gorm:"not null" json:"quantityLeft"`
	Description    string              `gorm:"type:text" json:"description"`
	ExpirationDate *time.Time          `json:"expirationDate"`
	Category       ReagentCategory     `gorm:"type:varchar(32);not null;default:Reagent" json:"category"`
	Package        *Package            `gorm:"type:varchar(32)" json:"package"`
	Structure      *string             `gorm:"type:text" json:"structure"`
	IsDeleted      bool                `gorm:"not null;default:false" json:"isDeleted"`
}

func (*Reagent) TableName() string {
	return "reagent"
}

package model

import "github.com/shopspring/decimal"

// ServiceItem is a catalog entry quotes are built from.
type ServiceItem struct {
	DTO
	Name        string          `gorm:"not null" validate:"required" json:"name"`
	Slug        string          `gorm:"uniqueIndex;not null" json:"slug"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"basePrice"`
	IsActive    bool            `gorm:"default:true" json:"isActive"`
}

type ServiceItems []ServiceItem

type CreateServiceInput struct {
	Name        string `validate:"required,min=2" json:"name"`
	Description string `json:"description"`
	BasePrice   string `validate:"required" json:"basePrice"`
}

type EditServiceInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	BasePrice   *string `json:"basePrice"`
	IsActive    *bool   `json:"isActive"`
}

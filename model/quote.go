package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteDeclined QuoteStatus = "declined"
)

type Quote struct {
	DTO
	QuoteNumber string          `gorm:"uniqueIndex;size:20" json:"quoteNumber"`
	ClientID    uint            `gorm:"not null" json:"clientId"`
	Client      *Client         `json:"client,omitempty"`
	Status      QuoteStatus     `gorm:"size:16;not null;default:draft" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"totalAmount"`
	Notes       string          `json:"notes"`
	SentAt      *time.Time      `json:"sentAt,omitempty"`
	DecidedAt   *time.Time      `json:"decidedAt,omitempty"`

	Items []QuoteItem `gorm:"foreignKey:QuoteId" json:"items,omitempty"`
}

type QuoteItem struct {
	DTO
	QuoteId       uint            `gorm:"not null;index" json:"quoteId"`
	ServiceItemId uint            `gorm:"not null" json:"serviceItemId"`
	ServiceItem   *ServiceItem    `json:"serviceItem,omitempty"`
	Quantity      int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
}

type CreateQuoteInput struct {
	ClientId uint                   `validate:"required,gt=0" json:"clientId"`
	Notes    string                 `json:"notes"`
	Items    []CreateQuoteItemInput `validate:"required,min=1,dive" json:"items"`
}

type CreateQuoteItemInput struct {
	ServiceItemId uint    `validate:"required,gt=0" json:"serviceItemId"`
	Quantity      int     `validate:"required,gt=0" json:"quantity"`
	UnitPrice     *string `json:"unitPrice"` // overrides the catalog base price when set
}

type FilterQuote struct {
	Pagination
	Status    *QuoteStatus `json:"status"`
	SearchKey string       `json:"searchKey"`
}

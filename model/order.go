package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	DTO
	OrderNumber string  `gorm:"uniqueIndex;size:20" json:"orderNumber"` // Public reference (ORD-XXXXXX)
	ClientID    uint    `json:"clientId"`
	Client      *Client `json:"client,omitempty"`
	QuoteID     *uint   `json:"quoteId,omitempty"`

	Status         OrderStatus    `gorm:"size:32;not null;default:pending" json:"status"`
	EngineerStatus EngineerStatus `gorm:"size:32;default:scheduled" json:"engineerStatus"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	AmountPaid  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amountPaid"`

	ScheduledInstallDate *time.Time `json:"scheduledInstallDate,omitempty"`
	AgreementSignedAt    *time.Time `json:"agreementSignedAt,omitempty"`
	InstallationNotes    *string    `json:"installationNotes,omitempty"`

	EngineerID *uint     `json:"engineerId,omitempty"` // Weak reference, engineer lifecycle is independent
	Engineer   *Engineer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"engineer,omitempty"`

	ManualStatusOverride bool   `gorm:"default:false" json:"manualStatusOverride"`
	ManualStatusNotes    string `json:"manualStatusNotes,omitempty"`

	Postcode  string   `json:"postcode"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Payments       []OrderPayment            `gorm:"foreignKey:OrderId" json:"payments,omitempty"`
	ChecklistItems []CompletionChecklistItem `gorm:"foreignKey:OrderId" json:"checklistItems,omitempty"`
	Activities     []OrderActivity           `gorm:"foreignKey:OrderId" json:"activities,omitempty"`
}

type Orders []Order

// FullyPaid holds exactly at the amount_paid == total_amount boundary too.
func (o *Order) FullyPaid() bool {
	return o.AmountPaid.GreaterThanOrEqual(o.TotalAmount)
}

// PaymentLabel reports the parallel payment-tracking state.
func (o *Order) PaymentLabel() string {
	if o.FullyPaid() {
		return StatusPaid
	}
	return "unpaid"
}

type TransitionInput struct {
	Target OrderStatus `json:"target" validate:"required"`
}

type OverrideInput struct {
	Target OrderStatus `json:"target" validate:"required"`
	Notes  string      `json:"notes" validate:"required,min=3"`
}

type ScheduleOrderInput struct {
	EngineerId  uint    `json:"engineerId" validate:"required,gt=0"`
	InstallDate string  `json:"installDate" validate:"required"` // 2006-01-02
	Notes       *string `json:"notes"`
}

type RevisitInput struct {
	Notes string `json:"notes" validate:"required,min=3"`
}

type FilterOrder struct {
	Pagination
	SearchKey  string       `json:"searchKey"`
	Status     *OrderStatus `json:"status"`
	EngineerId *uint        `json:"engineerId"`
}

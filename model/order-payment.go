package model

import "github.com/shopspring/decimal"

type PaymentType string

const (
	PaymentDeposit PaymentType = "deposit"
	PaymentBalance PaymentType = "balance"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type OrderPayment struct {
	DTO
	OrderId     uint            `gorm:"not null;index" json:"orderId"`
	PaymentType PaymentType     `gorm:"size:16;not null" json:"paymentType"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status      PaymentStatus   `gorm:"size:16;default:pending" json:"status"`
	SessionCode string          `gorm:"unique" json:"sessionCode"` // External checkout session id

	Order Order `gorm:"foreignKey:OrderId" json:"-"`
}

type CreateCheckoutInput struct {
	OrderId     uint        `json:"orderId" validate:"required,gt=0"`
	PaymentType PaymentType `json:"paymentType" validate:"required,oneof=deposit balance"`
}

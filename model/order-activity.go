package model

// OrderActivity is an append-only audit trail: every transition attempt and
// every notification outcome lands here. Rows are never updated or deleted
// outside the admin cascade delete of the whole order.
type OrderActivity struct {
	DTO
	OrderId    uint        `gorm:"not null;index" json:"orderId"`
	Action     string      `gorm:"not null" json:"action"` // transition, override, notification, payment
	FromStatus OrderStatus `gorm:"size:32" json:"fromStatus,omitempty"`
	ToStatus   OrderStatus `gorm:"size:32" json:"toStatus,omitempty"`
	ActorId    uint        `json:"actorId"`
	ActorRole  Role        `gorm:"size:16" json:"actorRole"`
	Override   bool        `gorm:"default:false" json:"override"`
	Notes      string      `json:"notes"`
}

const (
	ActivityTransition   = "transition"
	ActivityOverride     = "override"
	ActivityNotification = "notification"
	ActivityPayment      = "payment"
	ActivityAgreement    = "agreement"
	ActivityJobStatus    = "job_status"
	ActivityChecklist    = "checklist"
	ActivityRevisit      = "revisit"
)

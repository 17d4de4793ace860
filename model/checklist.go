package model

import "time"

// ChecklistCatalog is the fixed, ordered set of completion checks. Every
// order gets exactly these six items; all must be done before sign-off.
var ChecklistCatalog = []string{
	"unit_mounted",
	"pipework_connected",
	"electrics_tested",
	"system_commissioned",
	"area_cleaned",
	"client_walkthrough",
}

type CompletionChecklistItem struct {
	DTO
	OrderId     uint       `gorm:"not null;index:idx_order_item,unique" json:"orderId"`
	ItemKey     string     `gorm:"not null;index:idx_order_item,unique" json:"itemKey"`
	Done        bool       `gorm:"default:false" json:"done"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type ToggleChecklistInput struct {
	ItemKey string `json:"itemKey" validate:"required"`
	Done    bool   `json:"done"`
}

func ValidChecklistKey(key string) bool {
	for _, k := range ChecklistCatalog {
		if k == key {
			return true
		}
	}
	return false
}

package helper

import (
	"sync"
	"time"

	"install_manager/database"
	"install_manager/model"
)

// mirror is an ephemeral in-process copy of each order's completed-item set.
// It only serves reads when the store is unreachable; the persisted rows are
// always the source of truth.
var (
	mirrorMu sync.RWMutex
	mirror   = make(map[uint]map[string]bool)
)

// EnsureChecklist creates the fixed six-item checklist for an order. Existing
// rows are left untouched, so the call is safe to repeat.
func EnsureChecklist(orderId uint) error {
	for _, key := range model.ChecklistCatalog {
		item := model.CompletionChecklistItem{OrderId: orderId, ItemKey: key}
		if err := database.DB.
			Where(model.CompletionChecklistItem{OrderId: orderId, ItemKey: key}).
			FirstOrCreate(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// ToggleChecklistItem sets one item's done flag. Re-applying the same value
// is a no-op on the completed set; toggling off after on is allowed.
func ToggleChecklistItem(orderId uint, key string, done bool) (*model.CompletionChecklistItem, error) {
	var item model.CompletionChecklistItem
	if err := database.DB.
		Where("order_id = ? AND item_key = ?", orderId, key).
		First(&item).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"done": done}
	if done {
		updates["completed_at"] = time.Now()
	} else {
		updates["completed_at"] = nil
	}
	if err := database.DB.Model(&item).Updates(updates).Error; err != nil {
		return nil, err
	}
	item.Done = done

	mirrorMu.Lock()
	if mirror[orderId] == nil {
		mirror[orderId] = make(map[string]bool)
	}
	mirror[orderId][key] = done
	mirrorMu.Unlock()

	return &item, nil
}

// CountChecklistDone recomputes the gate condition from the persisted item
// set. No cached boolean is kept; the mirror is only a fallback.
func CountChecklistDone(orderId uint) (int, error) {
	var count int64
	err := database.DB.Model(&model.CompletionChecklistItem{}).
		Where("order_id = ? AND done = ?", orderId, true).
		Count(&count).Error
	if err != nil {
		mirrorMu.RLock()
		defer mirrorMu.RUnlock()
		if items, ok := mirror[orderId]; ok {
			n := 0
			for _, done := range items {
				if done {
					n++
				}
			}
			return n, nil
		}
		return 0, err
	}

	return int(count), nil
}

// GetChecklist returns the order's items in catalog order.
func GetChecklist(orderId uint) ([]model.CompletionChecklistItem, error) {
	var items []model.CompletionChecklistItem
	if err := database.DB.
		Where("order_id = ?", orderId).
		Find(&items).Error; err != nil {
		return nil, err
	}

	byKey := make(map[string]model.CompletionChecklistItem, len(items))
	for _, it := range items {
		byKey[it.ItemKey] = it
	}
	ordered := make([]model.CompletionChecklistItem, 0, len(model.ChecklistCatalog))
	for _, key := range model.ChecklistCatalog {
		if it, ok := byKey[key]; ok {
			ordered = append(ordered, it)
		}
	}
	return ordered, nil
}

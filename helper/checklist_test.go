package helper

import (
	"testing"

	"install_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureChecklistIsRepeatable(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db, model.StatusInProgress)

	require.NoError(t, EnsureChecklist(order.ID))
	require.NoError(t, EnsureChecklist(order.ID))

	var count int64
	db.Model(&model.CompletionChecklistItem{}).Where("order_id = ?", order.ID).Count(&count)
	assert.EqualValues(t, model.ChecklistSize, count)

	items, err := GetChecklist(order.ID)
	require.NoError(t, err)
	require.Len(t, items, model.ChecklistSize)
	for i, item := range items {
		assert.Equal(t, model.ChecklistCatalog[i], item.ItemKey)
		assert.False(t, item.Done)
	}
}

func TestToggleChecklistItemIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db, model.StatusInProgress)
	require.NoError(t, EnsureChecklist(order.ID))

	item, err := ToggleChecklistItem(order.ID, "unit_mounted", true)
	require.NoError(t, err)
	assert.True(t, item.Done)

	// Marking an already-done item done again changes nothing
	item, err = ToggleChecklistItem(order.ID, "unit_mounted", true)
	require.NoError(t, err)
	assert.True(t, item.Done)

	done, err := CountChecklistDone(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, done)

	// Un-checking is allowed
	item, err = ToggleChecklistItem(order.ID, "unit_mounted", false)
	require.NoError(t, err)
	assert.False(t, item.Done)
	assert.Nil(t, item.CompletedAt)

	done, err = CountChecklistDone(order.ID)
	require.NoError(t, err)
	assert.Zero(t, done)

}

func TestToggleUnknownItemFails(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db, model.StatusInProgress)
	require.NoError(t, EnsureChecklist(order.ID))

	_, err := ToggleChecklistItem(order.ID, "no_such_item", true)
	assert.Error(t, err)

}

func TestCountChecklistDoneGate(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db, model.StatusInProgress)
	require.NoError(t, EnsureChecklist(order.ID))

	for _, key := range model.ChecklistCatalog {
		_, err := ToggleChecklistItem(order.ID, key, true)
		require.NoError(t, err)
	}

	done, err := CountChecklistDone(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ChecklistSize, done)

}

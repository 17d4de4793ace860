package helper

import (
	"errors"
	"testing"

	"install_manager/database"
	"install_manager/model"
	"install_manager/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	database.Migrate(db)
	database.DB = db
	return db
}

func createTestOrder(t *testing.T, db *gorm.DB, status model.OrderStatus) *model.Order {
	client := model.Client{
		Email: "client@example.com",
		Name:  "Test Client",
	}
	require.NoError(t, db.Create(&client).Error)

	order := model.Order{
		OrderNumber: GenerateOrderNumber(db),
		ClientID:    client.ID,
		Status:      status,
		TotalAmount: decimal.NewFromInt(1000),
		AmountPaid:  decimal.Zero,
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func adminClaim() model.TokenClaim {
	return model.TokenClaim{AccountId: 1, Username: "administrator", Role: model.RoleAdmin}
}

func TestTransitionRejectedWithoutPayment(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db, model.StatusPending)

	_, err := ApplyTransition(order, model.StatusConfirmed, adminClaim())
	var guardErr *model.GuardError
	assert.True(t, errors.As(err, &guardErr))

	// Nothing persisted, nothing logged
	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusPending, reloaded.Status)

	var activities int64
	db.Model(&model.OrderActivity{}).Where("order_id = ?", order.ID).Count(&activities)
	assert.Zero(t, activities)
}

func TestTransitionAfterFullPayment(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db, model.StatusPending)

	var sentTo string
	origMailer := StatusMailer
	StatusMailer = func(to string, status model.OrderStatus, data utils.StatusEmailData) error {
		sentTo = to
		return nil
	}
	defer func() { StatusMailer = origMailer }()

	require.NoError(t, db.Model(order).Update("amount_paid", decimal.NewFromInt(1000)).Error)
	order.AmountPaid = decimal.NewFromInt(1000)

	result, err := ApplyTransition(order, model.StatusConfirmed, adminClaim())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, result.From)
	assert.Equal(t, model.StatusConfirmed, result.To)
	assert.False(t, result.Override)

	WaitForSideEffects()

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusConfirmed, reloaded.Status)

	var transition model.OrderActivity
	require.NoError(t, db.Where("order_id = ? AND action = ?", order.ID, model.ActivityTransition).First(&transition).Error)
	assert.Equal(t, model.StatusPending, transition.FromStatus)
	assert.Equal(t, model.StatusConfirmed, transition.ToStatus)
	assert.Equal(t, model.RoleAdmin, transition.ActorRole)

	var notification model.OrderActivity
	require.NoError(t, db.Where("order_id = ? AND action = ?", order.ID, model.ActivityNotification).First(&notification).Error)
	assert.Equal(t, "sent", notification.Notes)
	assert.Equal(t, "client@example.com", sentTo)
}

func TestMailerFailureDoesNotRollBack(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db, model.StatusPending)
	require.NoError(t, db.Model(order).Update("amount_paid", decimal.NewFromInt(1000)).Error)
	order.AmountPaid = decimal.NewFromInt(1000)

	origMailer := StatusMailer
	StatusMailer = func(to string, status model.OrderStatus, data utils.StatusEmailData) error {
		return errors.New("smtp down")
	}
	defer func() { StatusMailer = origMailer }()

	_, err := ApplyTransition(order, model.StatusConfirmed, adminClaim())
	require.NoError(t, err)

	WaitForSideEffects()

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusConfirmed, reloaded.Status)

	var notification model.OrderActivity
	require.NoError(t, db.Where("order_id = ? AND action = ?", order.ID, model.ActivityNotification).First(&notification).Error)
	assert.Contains(t, notification.Notes, "failed")
	assert.Contains(t, notification.Notes, "smtp down")
}

func TestOverrideBypassesGuardsButRequiresNotes(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db, model.StatusScheduled)

	origMailer := StatusMailer
	StatusMailer = func(string, model.OrderStatus, utils.StatusEmailData) error { return nil }
	defer func() { StatusMailer = origMailer }()

	engineerClaim := model.TokenClaim{AccountId: 2, Username: "eng", Role: model.RoleEngineer}
	_, err := ApplyOverride(order, model.StatusRevisitRequired, "customer rescheduled", engineerClaim)
	assert.ErrorIs(t, err, model.ErrNotPermitted)

	_, err = ApplyOverride(order, model.StatusRevisitRequired, "", adminClaim())
	var guardErr *model.GuardError
	assert.True(t, errors.As(err, &guardErr))

	// scheduled -> revisit_required is not a table edge; the override takes it anyway
	result, err := ApplyOverride(order, model.StatusRevisitRequired, "customer rescheduled", adminClaim())
	require.NoError(t, err)
	assert.True(t, result.Override)

	WaitForSideEffects()

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusRevisitRequired, reloaded.Status)
	assert.True(t, reloaded.ManualStatusOverride)
	assert.Equal(t, "customer rescheduled", reloaded.ManualStatusNotes)

	var override model.OrderActivity
	require.NoError(t, db.Where("order_id = ? AND action = ?", order.ID, model.ActivityOverride).First(&override).Error)
	assert.True(t, override.Override)
	assert.Equal(t, "customer rescheduled", override.Notes)
}

func TestCompletionNeedsFullChecklistAndJobSignOff(t *testing.T) {
	db := setupTestDB(t)
	order := createTestOrder(t, db, model.StatusInProgress)
	require.NoError(t, db.Model(order).Updates(map[string]interface{}{
		"amount_paid":     decimal.NewFromInt(1000),
		"engineer_status": model.JobCompleted,
	}).Error)
	order.AmountPaid = decimal.NewFromInt(1000)
	order.EngineerStatus = model.JobCompleted

	origMailer := StatusMailer
	StatusMailer = func(string, model.OrderStatus, utils.StatusEmailData) error { return nil }
	defer func() { StatusMailer = origMailer }()

	require.NoError(t, EnsureChecklist(order.ID))
	engineerClaim := model.TokenClaim{AccountId: 2, Username: "eng", Role: model.RoleEngineer}

	for i, key := range model.ChecklistCatalog[:5] {
		_, err := ToggleChecklistItem(order.ID, key, true)
		require.NoError(t, err, "toggle %d", i)
	}

	_, err := ApplyTransition(order, model.StatusCompleted, engineerClaim)
	var guardErr *model.GuardError
	assert.True(t, errors.As(err, &guardErr))
	assert.Contains(t, guardErr.Condition, "checklist incomplete")

	_, err = ToggleChecklistItem(order.ID, model.ChecklistCatalog[5], true)
	require.NoError(t, err)

	_, err = ApplyTransition(order, model.StatusCompleted, engineerClaim)
	require.NoError(t, err)

	WaitForSideEffects()

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusCompleted, reloaded.Status)
}

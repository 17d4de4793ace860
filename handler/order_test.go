package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"install_manager/database"
	"install_manager/helper"
	"install_manager/middleware"
	"install_manager/model"
	"install_manager/utils"
	"install_manager/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	database.Migrate(db)
	database.DB = db

	origMailer := helper.StatusMailer
	helper.StatusMailer = func(string, model.OrderStatus, utils.StatusEmailData) error { return nil }
	t.Cleanup(func() { helper.StatusMailer = origMailer })

	app := fiber.New()
	app.Post("/order/:orderId/transition", middleware.Protected(), validate.GetById("orderId"), validate.Transition(), RequestTransition)
	app.Post("/order/:orderId/override", middleware.Protected(), middleware.RequireCapability(model.CapOverrideStatus), validate.GetById("orderId"), validate.Override(), OverrideStatus)
	app.Post("/job/:orderId/status", middleware.Protected(), middleware.RequireCapability(model.CapAdvanceJobStatus), validate.GetById("orderId"), AdvanceJobStatus)
	app.Post("/order/:orderId/schedule", middleware.Protected(), middleware.RequireCapability(model.CapScheduleOrder), validate.GetById("orderId"), validate.ScheduleOrder(), ScheduleOrder)
	app.Post("/order/:orderId/revisit", middleware.Protected(), middleware.RequireCapability(model.CapFlagRevisit), validate.GetById("orderId"), validate.Revisit(), FlagRevisit)
	return app, db
}

func seedAccount(t *testing.T, db *gorm.DB, username string, role model.Role) (model.Account, string) {
	hash, err := helper.HashPassword("password123")
	require.NoError(t, err)

	account := model.Account{Username: username, Password: hash, Active: true, Role: role}
	require.NoError(t, db.Create(&account).Error)

	token, err := helper.GenerateAccessToken(model.TokenClaim{
		AccountId: account.ID, Username: account.Username, Role: account.Role,
	})
	require.NoError(t, err)
	return account, token
}

func seedOrder(t *testing.T, db *gorm.DB, status model.OrderStatus, paid int64) model.Order {
	client := model.Client{Email: "client@example.com", Name: "Client"}
	require.NoError(t, db.Create(&client).Error)

	order := model.Order{
		OrderNumber: helper.GenerateOrderNumber(db),
		ClientID:    client.ID,
		Status:      status,
		TotalAmount: decimal.NewFromInt(1000),
		AmountPaid:  decimal.NewFromInt(paid),
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body map[string]interface{}) *http.Response {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestTransitionEndpointRequiresAuth(t *testing.T) {
	app, db := setupOrderTestApp(t)
	order := seedOrder(t, db, model.StatusPending, 0)

	resp := postJSON(t, app, "/order/1/transition", "", map[string]interface{}{"target": "confirmed"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusPending, reloaded.Status)
}

func TestTransitionEndpointGuardFailure(t *testing.T) {
	app, db := setupOrderTestApp(t)
	_, token := seedAccount(t, db, "admin1", model.RoleAdmin)
	order := seedOrder(t, db, model.StatusPending, 400)

	resp := postJSON(t, app, "/order/1/transition", token, map[string]interface{}{"target": "confirmed"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["message"], "not allowed")

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusPending, reloaded.Status)
}

func TestTransitionEndpointSuccess(t *testing.T) {
	app, db := setupOrderTestApp(t)
	_, token := seedAccount(t, db, "admin2", model.RoleAdmin)
	order := seedOrder(t, db, model.StatusPending, 1000)

	resp := postJSON(t, app, "/order/1/transition", token, map[string]interface{}{"target": "confirmed"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	helper.WaitForSideEffects()

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusConfirmed, reloaded.Status)
	assert.False(t, reloaded.ManualStatusOverride)
}

func TestOverrideEndpointIsAdminOnly(t *testing.T) {
	app, db := setupOrderTestApp(t)
	_, engToken := seedAccount(t, db, "eng1", model.RoleEngineer)
	seedOrder(t, db, model.StatusScheduled, 1000)

	resp := postJSON(t, app, "/order/1/override", engToken, map[string]interface{}{
		"target": "revisit_required",
		"notes":  "customer rescheduled",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOverrideEndpointRejectsMissingNotes(t *testing.T) {
	app, db := setupOrderTestApp(t)
	_, token := seedAccount(t, db, "admin3", model.RoleAdmin)
	seedOrder(t, db, model.StatusScheduled, 1000)

	resp := postJSON(t, app, "/order/1/override", token, map[string]interface{}{
		"target": "revisit_required",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOverrideEndpointBypassesGuards(t *testing.T) {
	app, db := setupOrderTestApp(t)
	_, token := seedAccount(t, db, "admin4", model.RoleAdmin)
	order := seedOrder(t, db, model.StatusScheduled, 1000)

	resp := postJSON(t, app, "/order/1/override", token, map[string]interface{}{
		"target": "revisit_required",
		"notes":  "customer rescheduled",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	helper.WaitForSideEffects()

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusRevisitRequired, reloaded.Status)
	assert.True(t, reloaded.ManualStatusOverride)
	assert.Equal(t, "customer rescheduled", reloaded.ManualStatusNotes)
}

func TestScheduleRejectedOrderKeepsNoAssignment(t *testing.T) {
	app, db := setupOrderTestApp(t)
	_, token := seedAccount(t, db, "admin5", model.RoleAdmin)

	engineer := model.Engineer{FirstName: "Ola", LastName: "Brook", Postcode: "N1 1AA", PhoneNumber: "3", IsActive: true}
	require.NoError(t, db.Create(&engineer).Error)

	// still pending, so confirmed -> scheduled does not apply
	order := seedOrder(t, db, model.StatusPending, 0)

	resp := postJSON(t, app, "/order/1/schedule", token, map[string]interface{}{
		"engineerId":  engineer.ID,
		"installDate": "2026-10-01",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusPending, reloaded.Status)
	assert.Nil(t, reloaded.EngineerID, "engineer assignment must not persist on a rejected request")
	assert.Nil(t, reloaded.ScheduledInstallDate)
}

func TestScheduleSucceedsFromConfirmed(t *testing.T) {
	app, db := setupOrderTestApp(t)
	_, token := seedAccount(t, db, "admin6", model.RoleAdmin)

	engineer := model.Engineer{FirstName: "Rhys", LastName: "Cole", Postcode: "N1 1AA", PhoneNumber: "4", IsActive: true}
	require.NoError(t, db.Create(&engineer).Error)

	order := seedOrder(t, db, model.StatusConfirmed, 1000)

	resp := postJSON(t, app, "/order/1/schedule", token, map[string]interface{}{
		"engineerId":  engineer.ID,
		"installDate": "2026-10-01",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	helper.WaitForSideEffects()

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.StatusScheduled, reloaded.Status)
	require.NotNil(t, reloaded.EngineerID)
	assert.Equal(t, engineer.ID, *reloaded.EngineerID)
	require.NotNil(t, reloaded.ScheduledInstallDate)
	assert.Equal(t, model.JobScheduled, reloaded.EngineerStatus)
}

func TestRevisitWritesOneTransitionActivity(t *testing.T) {
	app, db := setupOrderTestApp(t)
	_, token := seedAccount(t, db, "admin7", model.RoleAdmin)
	order := seedOrder(t, db, model.StatusCompleted, 1000)

	resp := postJSON(t, app, "/order/1/revisit", token, map[string]interface{}{
		"notes": "boiler pressure dropped again",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	helper.WaitForSideEffects()

	var transitions int64
	require.NoError(t, db.Model(&model.OrderActivity{}).
		Where("order_id = ? AND action = ?", order.ID, model.ActivityTransition).
		Count(&transitions).Error)
	assert.EqualValues(t, 1, transitions)

	var revisit model.OrderActivity
	require.NoError(t, db.
		Where("order_id = ? AND action = ?", order.ID, model.ActivityRevisit).
		First(&revisit).Error)
	assert.Contains(t, revisit.Notes, "boiler pressure dropped again")
}

func TestJobStatusCannotSkipSteps(t *testing.T) {
	app, db := setupOrderTestApp(t)

	engineer := model.Engineer{FirstName: "Dana", LastName: "Field", Postcode: "N1 1AA", PhoneNumber: "1", IsActive: true}
	require.NoError(t, db.Create(&engineer).Error)

	account, token := seedAccount(t, db, "eng2", model.RoleEngineer)
	require.NoError(t, db.Model(&account).Update("engineer_id", engineer.ID).Error)

	order := seedOrder(t, db, model.StatusScheduled, 1000)
	require.NoError(t, db.Model(&order).Updates(map[string]interface{}{
		"engineer_id":     engineer.ID,
		"engineer_status": model.JobScheduled,
	}).Error)

	// scheduled -> in_progress skips on_way
	resp := postJSON(t, app, "/job/1/status", token, map[string]interface{}{"target": "in_progress"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// going backward is also rejected
	require.NoError(t, db.Model(&order).Update("engineer_status", model.JobInProgress).Error)
	resp = postJSON(t, app, "/job/1/status", token, map[string]interface{}{"target": "on_way"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestJobReachingInProgressAdvancesOrder(t *testing.T) {
	app, db := setupOrderTestApp(t)

	engineer := model.Engineer{FirstName: "Sam", LastName: "Rooke", Postcode: "N1 1AA", PhoneNumber: "2", IsActive: true}
	require.NoError(t, db.Create(&engineer).Error)

	account, token := seedAccount(t, db, "eng3", model.RoleEngineer)
	require.NoError(t, db.Model(&account).Update("engineer_id", engineer.ID).Error)

	order := seedOrder(t, db, model.StatusScheduled, 1000)
	require.NoError(t, db.Model(&order).Updates(map[string]interface{}{
		"engineer_id":     engineer.ID,
		"engineer_status": model.JobOnWay,
	}).Error)

	resp := postJSON(t, app, "/job/1/status", token, map[string]interface{}{"target": "in_progress"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	helper.WaitForSideEffects()

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.JobInProgress, reloaded.EngineerStatus)
	assert.Equal(t, model.StatusInProgress, reloaded.Status)
}

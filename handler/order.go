package handler

import (
	"encoding/base64"
	"errors"
	"log"
	"time"

	"install_manager/constants"
	"install_manager/database"
	"install_manager/helper"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
)

// progressSteps is the order detail stepper, derived purely from the
// persisted status field.
var progressSteps = []model.OrderStatus{
	model.StatusPending,
	model.StatusConfirmed,
	model.StatusScheduled,
	model.StatusInProgress,
	model.StatusCompleted,
}

func progressIndex(status model.OrderStatus) int {
	for i, s := range progressSteps {
		if s == status {
			return i
		}
	}
	// revisit_required sits alongside completed on the stepper
	if status == model.StatusRevisitRequired {
		return len(progressSteps) - 1
	}
	return 0
}

func GetOrders(c *fiber.Ctx) error {
	claim, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	var filter model.FilterOrder
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter", err)
	}

	query := database.DB.Model(&model.Order{}).Preload("Client").Preload("Engineer")

	switch claim.Role {
	case model.RoleAdmin:
		// sees everything
	case model.RoleEngineer:
		if account.EngineerId == nil {
			return utils.SuccessResponse(c, fiber.StatusOK, model.Orders{})
		}
		query = query.Where("engineer_id = ?", *account.EngineerId)
	case model.RoleClient:
		if account.ClientId == nil {
			return utils.SuccessResponse(c, fiber.StatusOK, model.Orders{})
		}
		query = query.Where("client_id = ?", *account.ClientId)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.EngineerId != nil && claim.Role == model.RoleAdmin {
		query = query.Where("engineer_id = ?", *filter.EngineerId)
	}
	if filter.SearchKey != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.SearchKey+"%")
	}

	var totalCount int64
	query.Count(&totalCount)

	var orders model.Orders
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Order("created_at desc").Find(&orders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       orders,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func GetOrderDetail(c *fiber.Ctx) error {
	claim, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	orderNumber := c.Params("orderNumber")

	var order model.Order
	if err := database.DB.
		Preload("Client").
		Preload("Engineer").
		Preload("Payments").
		Preload("Activities").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, err)
	}

	if !helper.OrderVisibleTo(&order, claim, account) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, errors.New("order not visible to this account"))
	}

	checklist, err := helper.GetChecklist(order.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	done := 0
	for _, item := range checklist {
		if item.Done {
			done++
		}
	}

	qrBase64 := ""
	qrBytes, err := utils.GenerateQRCode(order.OrderNumber, 400)
	if err != nil {
		log.Printf("QR generation failed for order %s: %v", order.OrderNumber, err)
	} else {
		qrBase64 = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes)
	}

	response := map[string]interface{}{
		"order":          order,
		"checklist":      checklist,
		"checklistDone":  done,
		"checklistTotal": model.ChecklistSize,
		"paymentState":   order.PaymentLabel(),
		"progressIndex":  progressIndex(order.Status),
		"progressSteps":  progressSteps,
		"allowedTargets": model.AllowedTargets(order.Status),
		"qrCode":         qrBase64,
	}

	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

// transitionError maps executor failures onto the error taxonomy.
func transitionError(c *fiber.Ctx, err error) error {
	var guardErr *model.GuardError
	switch {
	case errors.As(err, &guardErr):
		return utils.ErrorResponseHaveKey(c, fiber.StatusUnprocessableEntity,
			constants.TRANSITION_NOT_ALLOWED, err, "guard")
	case errors.Is(err, model.ErrNotPermitted):
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, err)
	case errors.Is(err, model.ErrUnknownTransition):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.TRANSITION_NOT_ALLOWED, err)
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
}

// RequestTransition runs a guarded transition to the requested target.
func RequestTransition(c *fiber.Ctx) error {
	claim, _, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	orderId := c.Locals("inputId").(int)
	input := c.Locals("inputTransition").(model.TransitionInput)

	order, err := helper.GetOrderById(uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if order == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
	}

	result, err := helper.ApplyTransition(order, input.Target, claim)
	if err != nil {
		return transitionError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

// OverrideStatus is the admin manual override: any target, guards bypassed,
// notes mandatory.
func OverrideStatus(c *fiber.Ctx) error {
	claim, _, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	orderId := c.Locals("inputId").(int)
	input := c.Locals("inputOverride").(model.OverrideInput)

	order, err := helper.GetOrderById(uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if order == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
	}

	result, err := helper.ApplyOverride(order, input.Target, input.Notes, claim)
	if err != nil {
		return transitionError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

// ScheduleOrder assigns engineer and install date, then drives the
// confirmed -> scheduled transition through the executor.
func ScheduleOrder(c *fiber.Ctx) error {
	claim, _, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	orderId := c.Locals("inputId").(int)
	input := c.Locals("inputSchedule").(model.ScheduleOrderInput)

	order, err := helper.GetOrderById(uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if order == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
	}

	var engineer model.Engineer
	if err := database.DB.First(&engineer, input.EngineerId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ENGINEER_NOT_FOUND, err)
	}

	installDate, err := utils.ParseDateOnly(input.InstallDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Install date must be YYYY-MM-DD", err)
	}

	available, reason, err := helper.EngineerAvailable(engineer.ID, installDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if !available {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, "Engineer is not available", errors.New(reason), "installDate")
	}

	if holder, _ := helper.SlotHeldBy(c.Context(), engineer.ID, input.InstallDate); holder != 0 && holder != claim.AccountId {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, "Slot is held by another admin",
			errors.New("slot hold active"), "installDate")
	}

	// rehearse the transition on a staged copy so a rejection leaves no
	// partial assignment behind
	staged := *order
	staged.EngineerID = &engineer.ID
	staged.ScheduledInstallDate = &installDate
	if err := model.CheckTransition(&staged, model.StatusScheduled, model.TransitionContext{Actor: claim.Role}); err != nil {
		return transitionError(c, err)
	}

	updates := map[string]interface{}{
		"engineer_id":            engineer.ID,
		"scheduled_install_date": installDate,
		"engineer_status":        model.JobScheduled,
	}
	if input.Notes != nil {
		updates["installation_notes"] = *input.Notes
	}
	if err := database.DB.Model(order).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	order.EngineerID = &engineer.ID
	order.ScheduledInstallDate = &installDate
	order.EngineerStatus = model.JobScheduled

	result, err := helper.ApplyTransition(order, model.StatusScheduled, claim)
	if err != nil {
		return transitionError(c, err)
	}

	// give the slot back once the booking is persisted
	helper.ReleaseSlot(c.Context(), engineer.ID, input.InstallDate)

	if engineer.Email != "" && order.Client != nil {
		go func(o model.Order, e model.Engineer) {
			qrPNG, qrErr := utils.GenerateQRCode(o.OrderNumber, 300)
			if qrErr != nil {
				qrPNG = nil
			}
			data := utils.JobSheetData{
				EngineerName: e.FullName(),
				OrderNumber:  o.OrderNumber,
				ClientName:   o.Client.Name,
				Address:      o.Address,
				Postcode:     o.Postcode,
				Phone:        o.Client.Phone,
				InstallDate:  installDate.Format("02/01/2006"),
			}
			if o.InstallationNotes != nil {
				data.Notes = *o.InstallationNotes
			}
			if err := utils.SendJobSheetEmail(e.Email, data, qrPNG); err != nil {
				log.Printf("order %s: job sheet email failed: %v", o.OrderNumber, err)
			}
		}(*order, engineer)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

// SignAgreement records the client's agreement signature timestamp.
func SignAgreement(c *fiber.Ctx) error {
	claim, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	orderId := c.Locals("inputId").(int)

	order, err := helper.GetOrderById(uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if order == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
	}

	if claim.Role == model.RoleClient {
		if account.ClientId == nil || *account.ClientId != order.ClientID {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, errors.New("not your order"))
		}
	} else if !claim.Role.Can(model.CapOverrideStatus) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, errors.New("only the client or an admin can sign"))
	}

	if order.AgreementSignedAt != nil {
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"agreementSignedAt": order.AgreementSignedAt})
	}

	now := time.Now()
	if err := database.DB.Model(order).Update("agreement_signed_at", now).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	helper.LogActivity(order.ID, model.ActivityAgreement, claim, "agreement signed")

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"agreementSignedAt": now})
}

// FlagRevisit moves a completed order into revisit_required.
func FlagRevisit(c *fiber.Ctx) error {
	claim, _, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	orderId := c.Locals("inputId").(int)
	input := c.Locals("inputRevisit").(model.RevisitInput)

	order, err := helper.GetOrderById(uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if order == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
	}

	result, err := helper.ApplyTransition(order, model.StatusRevisitRequired, claim)
	if err != nil {
		return transitionError(c, err)
	}

	helper.LogActivity(order.ID, model.ActivityRevisit, claim, "revisit requested: "+input.Notes)

	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

// DeleteOrder removes an order and its dependents. Referential integrity is
// the caller's job here: dependents go first, then the order row.
func DeleteOrder(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(int)

	order, err := helper.GetOrderById(uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if order == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
	}

	tx := database.DB.Begin()
	for _, dependent := range []interface{}{
		&model.OrderActivity{},
		&model.OrderPayment{},
		&model.CompletionChecklistItem{},
		&model.Message{},
		&model.CompletionPhoto{},
	} {
		if err := tx.Where("order_id = ?", order.ID).Delete(dependent).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete order dependents", err)
		}
	}
	if err := tx.Delete(order).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete order", err)
	}
	tx.Commit()

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": order.OrderNumber})
}

// HoldInstallSlot reserves an engineer/date pair while the scheduling form
// is open.
func HoldInstallSlot(c *fiber.Ctx) error {
	claim, _, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	type HoldInput struct {
		EngineerId uint   `json:"engineerId"`
		Date       string `json:"date"`
	}
	var input HoldInput
	if err := c.BodyParser(&input); err != nil || input.EngineerId == 0 || input.Date == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "engineerId and date are required", err)
	}

	held, err := helper.HoldSlot(c.Context(), input.EngineerId, input.Date, claim.AccountId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if !held {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, "Slot already held",
			errors.New("held by another admin"), "date")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"held": true})
}

// ReleaseInstallSlot frees a previously held slot.
func ReleaseInstallSlot(c *fiber.Ctx) error {
	type HoldInput struct {
		EngineerId uint   `json:"engineerId"`
		Date       string `json:"date"`
	}
	var input HoldInput
	if err := c.BodyParser(&input); err != nil || input.EngineerId == 0 || input.Date == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "engineerId and date are required", err)
	}

	if err := helper.ReleaseSlot(c.Context(), input.EngineerId, input.Date); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"released": true})
}

package handler

import (
	"errors"
	"fmt"

	"install_manager/constants"
	"install_manager/database"
	"install_manager/helper"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
)

// GetMyJobs lists the orders assigned to the calling engineer.
func GetMyJobs(c *fiber.Ctx) error {
	_, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}
	if account.EngineerId == nil {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, errors.New("account has no engineer profile"))
	}

	var orders model.Orders
	if err := database.DB.Preload("Client").
		Where("engineer_id = ? AND status IN ?", *account.EngineerId,
			[]model.OrderStatus{model.StatusScheduled, model.StatusInProgress, model.StatusRevisitRequired}).
		Order("scheduled_install_date asc").
		Find(&orders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, orders)
}

// AdvanceJobStatus moves the engineer sub-status one step forward. Skipping
// and moving backward are rejected.
func AdvanceJobStatus(c *fiber.Ctx) error {
	claim, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	orderId := c.Locals("inputId").(int)

	type JobStatusInput struct {
		Target model.EngineerStatus `json:"target"`
	}
	var input JobStatusInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
	}
	if !input.Target.Valid() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown job status", errors.New(string(input.Target)))
	}

	order, err := helper.GetOrderById(uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if order == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
	}

	if claim.Role != model.RoleEngineer ||
		account.EngineerId == nil || order.EngineerID == nil ||
		*account.EngineerId != *order.EngineerID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, errors.New("not the assigned engineer"))
	}

	if !model.CanAdvanceJob(order.EngineerStatus, input.Target) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusUnprocessableEntity,
			"Job status can only advance one step at a time",
			fmt.Errorf("%s -> %s", order.EngineerStatus, input.Target), "target")
	}

	if input.Target == order.EngineerStatus {
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"engineerStatus": order.EngineerStatus})
	}

	if err := database.DB.Model(order).Update("engineer_status", input.Target).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	order.EngineerStatus = input.Target

	helper.LogActivity(order.ID, model.ActivityJobStatus, claim, string(input.Target))

	// reaching in_progress on site also moves the order out of scheduled
	if input.Target == model.JobInProgress && order.Status == model.StatusScheduled {
		if _, err := helper.ApplyTransition(order, model.StatusInProgress, claim); err != nil {
			return transitionError(c, err)
		}
	}

	helper.PublishOrderUpdate(order.ID, map[string]interface{}{
		"orderId":        order.ID,
		"engineerStatus": input.Target,
	})

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"engineerStatus": input.Target,
		"status":         order.Status,
	})
}

// ToggleChecklist flips one completion item. The write is idempotent per
// value; the gate is recomputed from the persisted set when completion is
// requested.
func ToggleChecklist(c *fiber.Ctx) error {
	claim, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	orderId := c.Locals("inputId").(int)
	input := c.Locals("inputToggleChecklist").(model.ToggleChecklistInput)

	order, err := helper.GetOrderById(uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if order == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
	}

	assigned := account.EngineerId != nil && order.EngineerID != nil && *account.EngineerId == *order.EngineerID
	if claim.Role != model.RoleAdmin && !(claim.Role == model.RoleEngineer && assigned) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, errors.New("not the assigned engineer"))
	}

	item, err := helper.ToggleChecklistItem(order.ID, input.ItemKey, input.Done)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	helper.LogActivity(order.ID, model.ActivityChecklist, claim,
		fmt.Sprintf("%s=%t", input.ItemKey, input.Done))

	done, err := helper.CountChecklistDone(order.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"item":           item,
		"checklistDone":  done,
		"checklistTotal": model.ChecklistSize,
	})
}

// RequestCompletion is the engineer sign-off: checklist gate plus job
// sub-status feed the in_progress -> completed transition.
func RequestCompletion(c *fiber.Ctx) error {
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

	if claim.Role == model.RoleEngineer {
		assigned := account.EngineerId != nil && order.EngineerID != nil && *account.EngineerId == *order.EngineerID
		if !assigned {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, errors.New("not the assigned engineer"))
		}
	}

	result, err := helper.ApplyTransition(order, model.StatusCompleted, claim)
	if err != nil {
		return transitionError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

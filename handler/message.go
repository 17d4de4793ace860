package handler

import (
	"time"

	"install_manager/constants"
	"install_manager/database"
	"install_manager/helper"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
)

// loadVisibleOrder resolves the order in :id and enforces the role scope.
// When it returns false the response has already been written.
func loadVisibleOrder(c *fiber.Ctx) (*model.Order, model.TokenClaim, bool) {
	claim, account, ok := helper.RequireActor(c)
	if !ok {
		return nil, claim, false
	}

	orderId := c.Locals("inputId").(int)
	order, err := helper.GetOrderById(uint(orderId))
	if err != nil {
		utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		return nil, claim, false
	}
	if order == nil {
		utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
		return nil, claim, false
	}
	if !helper.OrderVisibleTo(order, claim, account) {
		utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, nil)
		return nil, claim, false
	}
	return order, claim, true
}

// GetMessages returns the order's message thread, oldest first.
func GetMessages(c *fiber.Ctx) error {
	order, _, ok := loadVisibleOrder(c)
	if !ok {
		return nil
	}

	var messages model.Messages
	if err := database.DB.Where("order_id = ?", order.ID).
		Order("created_at asc").Find(&messages).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, messages)
}

// CreateMessage appends to the thread and pushes a realtime event to anyone
// watching the order.
func CreateMessage(c *fiber.Ctx) error {
	order, claim, ok := loadVisibleOrder(c)
	if !ok {
		return nil
	}
	input := c.Locals("inputCreateMessage").(model.CreateMessageInput)

	message := model.Message{
		OrderId:    order.ID,
		SenderId:   claim.AccountId,
		SenderRole: claim.Role,
		Body:       input.Body,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	helper.PublishOrderUpdate(order.ID, map[string]interface{}{
		"orderId": order.ID,
		"event":   "message",
		"sender":  claim.Username,
		"body":    message.Body,
	})

	return utils.SuccessResponse(c, fiber.StatusCreated, message)
}

// MarkMessagesRead stamps every unread message not sent by the caller.
func MarkMessagesRead(c *fiber.Ctx) error {
	order, claim, ok := loadVisibleOrder(c)
	if !ok {
		return nil
	}

	now := time.Now()
	if err := database.DB.Model(&model.Message{}).
		Where("order_id = ? AND sender_id <> ? AND read_at IS NULL", order.ID, claim.AccountId).
		Update("read_at", now).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"readAt": now})
}

package handler

import (
	"fmt"
	"log"
	"net/url"

	"install_manager/constants"
	"install_manager/database"
	"install_manager/helper"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var depositRate = decimal.NewFromFloat(0.25)

// CreateCheckout opens a hosted checkout session for an order payment and
// returns the redirect URL. Deposits are a fixed share of the order total;
// a balance payment settles whatever remains.
func CreateCheckout(c *fiber.Ctx) error {
	claim, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}
	input := c.Locals("inputCreateCheckout").(model.CreateCheckoutInput)

	order, err := helper.GetOrderById(input.OrderId)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if order == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
	}
	if !helper.OrderVisibleTo(order, claim, account) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, nil)
	}

	var amount decimal.Decimal
	switch input.PaymentType {
	case model.PaymentDeposit:
		amount = order.TotalAmount.Mul(depositRate).Round(2)
	case model.PaymentBalance:
		amount = order.TotalAmount.Sub(order.AmountPaid)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Nothing left to pay on this order", nil)
	}

	payment := model.OrderPayment{
		OrderId:     order.ID,
		PaymentType: input.PaymentType,
		Amount:      amount,
		Status:      model.PaymentPending,
		SessionCode: uuid.NewString(),
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	gateway := NewCheckoutGateway()
	checkoutUrl, err := gateway.BuildCheckoutUrl(model.CheckoutRequest{
		Amount:      amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Description: fmt.Sprintf("%s %s payment", order.OrderNumber, input.PaymentType),
		SessionRef:  payment.SessionCode,
		IPAddr:      c.IP(),
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"sessionCode": payment.SessionCode,
		"amount":      amount,
		"paymentUrl":  checkoutUrl,
	})
}

// CheckoutReturn handles the browser redirect back from the gateway. The IPN
// is the source of truth; the return only settles the payment when the IPN
// has not arrived first.
func CheckoutReturn(c *fiber.Ctx) error {
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Malformed return parameters", err)
	}

	gateway := NewCheckoutGateway()
	result := gateway.VerifyReturn(query)
	if !result.IsSuccess {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, result.Message, nil)
	}

	payment, err := settlePayment(result.SessionRef)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.PAYMENT_SESSION_NOT_FOUND, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"sessionCode": payment.SessionCode,
		"status":      payment.Status,
	})
}

// CheckoutIPN handles the server-to-server settlement notification. Replays
// of an already-settled session are acknowledged without re-applying.
func CheckoutIPN(c *fiber.Ctx) error {
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"RspCode": "99", "Message": "Malformed"})
	}

	gateway := NewCheckoutGateway()
	result := gateway.VerifyIPN(query)
	if !result.IsSuccess {
		return c.JSON(fiber.Map{"RspCode": "97", "Message": result.Message})
	}

	if _, err := settlePayment(result.SessionRef); err != nil {
		return c.JSON(fiber.Map{"RspCode": "01", "Message": "Session not found"})
	}

	return c.JSON(fiber.Map{"RspCode": "00", "Message": "Confirmed"})
}

// settlePayment marks the session paid, adds its amount to the order, and
// tries the pending to confirmed transition. Idempotent on the session code.
func settlePayment(sessionCode string) (*model.OrderPayment, error) {
	var payment model.OrderPayment
	if err := database.DB.Where("session_code = ?", sessionCode).First(&payment).Error; err != nil {
		return nil, err
	}
	if payment.Status == model.PaymentPaid {
		return &payment, nil
	}

	tx := database.DB.Begin()
	if err := tx.Model(&payment).Update("status", model.PaymentPaid).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Model(&model.Order{}).Where("id = ?", payment.OrderId).
		Update("amount_paid", gorm.Expr("amount_paid + ?", payment.Amount)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	payment.Status = model.PaymentPaid

	systemClaim := model.TokenClaim{Username: "payment-gateway", Role: model.RoleAdmin}
	helper.LogActivity(payment.OrderId, model.ActivityPayment, systemClaim,
		fmt.Sprintf("%s payment of %s settled", payment.PaymentType, payment.Amount.StringFixed(2)))

	order, err := helper.GetOrderById(payment.OrderId)
	if err != nil || order == nil {
		return &payment, nil
	}
	if order.Status == model.StatusPending && order.FullyPaid() {
		if _, err := helper.ApplyTransition(order, model.StatusConfirmed, systemClaim); err != nil {
			log.Printf("order %s: auto-confirm after payment failed: %v", order.OrderNumber, err)
		}
	}
	helper.PublishOrderUpdate(order.ID, map[string]interface{}{
		"orderId":    order.ID,
		"event":      "payment",
		"amountPaid": order.AmountPaid,
	})

	return &payment, nil
}

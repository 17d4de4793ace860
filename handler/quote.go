package handler

import (
	"errors"
	"log"
	"time"

	"install_manager/constants"
	"install_manager/database"
	"install_manager/helper"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func GetQuotes(c *fiber.Ctx) error {
	var filter model.FilterQuote
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter", err)
	}

	query := database.DB.Model(&model.Quote{}).Preload("Client").Preload("Items.ServiceItem")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SearchKey != "" {
		query = query.Where("quote_number ILIKE ?", "%"+filter.SearchKey+"%")
	}

	var totalCount int64
	query.Count(&totalCount)

	var quotes []model.Quote
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Order("created_at desc").Find(&quotes).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       quotes,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func GetQuoteById(c *fiber.Ctx) error {
	quoteId := c.Locals("inputId").(int)

	var quote model.Quote
	if err := database.DB.Preload("Client").Preload("Items.ServiceItem").
		First(&quote, quoteId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUOTE_NOT_FOUND, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, quote)
}

func CreateQuote(c *fiber.Ctx) error {
	input := c.Locals("inputCreateQuote").(model.CreateQuoteInput)

	var client model.Client
	if err := database.DB.First(&client, input.ClientId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", err)
	}

	tx := database.DB.Begin()

	quote := model.Quote{
		QuoteNumber: helper.GenerateQuoteNumber(tx),
		ClientID:    client.ID,
		Status:      model.QuoteDraft,
		Notes:       input.Notes,
	}
	if err := tx.Create(&quote).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create quote", err)
	}

	total := decimal.Zero
	for _, itemInput := range input.Items {
		var service model.ServiceItem
		if err := tx.First(&service, itemInput.ServiceItemId).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Service item not found", err)
		}

		unitPrice := service.BasePrice
		if itemInput.UnitPrice != nil {
			parsed, err := decimal.NewFromString(*itemInput.UnitPrice)
			if err != nil {
				tx.Rollback()
				return utils.ErrorResponse(c, fiber.StatusBadRequest, "unitPrice must be a decimal number", err)
			}
			unitPrice = parsed
		}

		item := model.QuoteItem{
			QuoteId:       quote.ID,
			ServiceItemId: service.ID,
			Quantity:      itemInput.Quantity,
			UnitPrice:     unitPrice,
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create quote item", err)
		}

		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(itemInput.Quantity))))
	}

	if err := tx.Model(&quote).Update("total_amount", total).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	tx.Commit()

	quote.TotalAmount = total
	return utils.SuccessResponse(c, fiber.StatusCreated, quote)
}

// SendQuote marks a draft quote as sent and emails the client.
func SendQuote(c *fiber.Ctx) error {
	quoteId := c.Locals("inputId").(int)

	var quote model.Quote
	if err := database.DB.Preload("Client").First(&quote, quoteId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUOTE_NOT_FOUND, err)
	}
	if quote.Status != model.QuoteDraft {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only draft quotes can be sent", errors.New("status "+string(quote.Status)))
	}

	now := time.Now()
	updates := map[string]interface{}{"status": model.QuoteSent, "sent_at": now}
	if err := database.DB.Model(&quote).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if quote.Client != nil && quote.Client.Email != "" {
		go func(email, name, number, amount string) {
			body := "<p>Hi " + name + ",</p><p>Your quote " + number +
				" for " + amount + " is ready to review in the portal.</p>"
			if err := utils.SendHTMLEmail(email, "Your quote "+number, body); err != nil {
				log.Printf("quote %s: email failed: %v", number, err)
			}
		}(quote.Client.Email, quote.Client.Name, quote.QuoteNumber, quote.TotalAmount.StringFixed(2))
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"status": model.QuoteSent})
}

// AcceptQuote converts a sent quote into a pending order with its fixed
// completion checklist, and notifies the client.
func AcceptQuote(c *fiber.Ctx) error {
	quoteId := c.Locals("inputId").(int)

	claim, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	var quote model.Quote
	if err := database.DB.Preload("Client").First(&quote, quoteId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUOTE_NOT_FOUND, err)
	}

	if claim.Role == model.RoleClient {
		if account.ClientId == nil || *account.ClientId != quote.ClientID {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, errors.New("not your quote"))
		}
	} else if claim.Role != model.RoleAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("engineers cannot accept quotes"))
	}

	if quote.Status != model.QuoteSent {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only sent quotes can be accepted", errors.New("status "+string(quote.Status)))
	}

	tx := database.DB.Begin()

	now := time.Now()
	if err := tx.Model(&quote).Updates(map[string]interface{}{
		"status":     model.QuoteAccepted,
		"decided_at": now,
	}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	order := model.Order{
		OrderNumber: helper.GenerateOrderNumber(tx),
		ClientID:    quote.ClientID,
		QuoteID:     &quote.ID,
		Status:      model.StatusPending,
		TotalAmount: quote.TotalAmount,
		AmountPaid:  decimal.Zero,
	}
	if quote.Client != nil {
		order.Postcode = quote.Client.Postcode
		order.Address = quote.Client.Address
		order.Latitude = quote.Client.Latitude
		order.Longitude = quote.Client.Longitude
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create order", err)
	}
	tx.Commit()

	if err := helper.EnsureChecklist(order.ID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create checklist", err)
	}

	helper.LogActivity(order.ID, model.ActivityTransition, claim, "order created from quote "+quote.QuoteNumber)

	if quote.Client != nil && quote.Client.Email != "" {
		go utils.SendStatusEmail(quote.Client.Email, model.StatusPending, utils.StatusEmailData{
			ClientName:  quote.Client.Name,
			OrderNumber: order.OrderNumber,
			TotalAmount: order.TotalAmount.StringFixed(2),
		})
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, order)
}

func DeclineQuote(c *fiber.Ctx) error {
	quoteId := c.Locals("inputId").(int)

	claim, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	var quote model.Quote
	if err := database.DB.First(&quote, quoteId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUOTE_NOT_FOUND, err)
	}
	if claim.Role == model.RoleClient {
		if account.ClientId == nil || *account.ClientId != quote.ClientID {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMITTED, errors.New("not your quote"))
		}
	} else if claim.Role != model.RoleAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("engineers cannot decline quotes"))
	}
	if quote.Status != model.QuoteSent {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only sent quotes can be declined", errors.New("status "+string(quote.Status)))
	}

	now := time.Now()
	if err := database.DB.Model(&quote).Updates(map[string]interface{}{
		"status":     model.QuoteDeclined,
		"decided_at": now,
	}).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"status": model.QuoteDeclined})
}

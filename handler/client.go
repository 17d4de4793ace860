package handler

import (
	"install_manager/constants"
	"install_manager/database"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func GetClients(c *fiber.Ctx) error {
	var filter model.FilterClient
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter", err)
	}

	query := database.DB.Model(&model.Client{})
	if filter.SearchKey != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ? OR postcode ILIKE ?",
			"%"+filter.SearchKey+"%", "%"+filter.SearchKey+"%", "%"+filter.SearchKey+"%")
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}

	var totalCount int64
	query.Count(&totalCount)

	var clients model.Clients
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Order("created_at desc").Find(&clients).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       clients,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func GetClientById(c *fiber.Ctx) error {
	clientId := c.Locals("inputId").(int)

	var client model.Client
	if err := database.DB.First(&client, clientId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.RECORD_NOT_FOUND, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, client)
}

func EditClient(c *fiber.Ctx) error {
	clientId := c.Locals("inputId").(int)
	input := c.Locals("inputEditClient").(model.EditClientInput)

	var client model.Client
	if err := database.DB.First(&client, clientId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.RECORD_NOT_FOUND, err)
	}

	copier.CopyWithOption(&client, &input, copier.Option{IgnoreEmpty: true})

	if err := database.DB.Save(&client).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, client)
}

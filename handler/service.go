package handler

import (
	"install_manager/constants"
	"install_manager/database"
	"install_manager/helper"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func GetServices(c *fiber.Ctx) error {
	var services model.ServiceItems
	if err := database.DB.Order("name asc").Find(&services).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, services)
}

func GetServiceBySlug(c *fiber.Ctx) error {
	slugParam := c.Params("slug")

	var service model.ServiceItem
	if err := database.DB.Where("slug = ?", slugParam).First(&service).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.RECORD_NOT_FOUND, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, service)
}

func CreateService(c *fiber.Ctx) error {
	input := c.Locals("inputCreateService").(model.CreateServiceInput)

	price, err := decimal.NewFromString(input.BasePrice)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "basePrice must be a decimal number", err)
	}

	service := model.ServiceItem{
		Name:        input.Name,
		Slug:        helper.GenerateUniqueServiceSlug(database.DB, input.Name),
		Description: input.Description,
		BasePrice:   price,
		IsActive:    true,
	}
	if err := database.DB.Create(&service).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create service", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, service)
}

func EditService(c *fiber.Ctx) error {
	serviceId := c.Locals("inputId").(int)
	input := c.Locals("inputEditService").(model.EditServiceInput)

	var service model.ServiceItem
	if err := database.DB.First(&service, serviceId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.RECORD_NOT_FOUND, err)
	}

	if input.Name != nil && *input.Name != service.Name {
		service.Name = *input.Name
		service.Slug = helper.GenerateUniqueServiceSlug(database.DB, *input.Name)
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.BasePrice != nil {
		price, err := decimal.NewFromString(*input.BasePrice)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "basePrice must be a decimal number", err)
		}
		service.BasePrice = price
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := database.DB.Save(&service).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, service)
}

func DeleteService(c *fiber.Ctx) error {
	input := c.Locals("deleteIds").(model.ArrayId)

	if err := database.DB.Delete(&model.ServiceItem{}, input.IDs).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": len(input.IDs)})
}

package handler

import (
	"errors"

	"install_manager/constants"
	"install_manager/database"
	"install_manager/helper"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func GetEngineers(c *fiber.Ctx) error {
	var engineers model.Engineers
	if err := database.DB.Order("last_name asc").Find(&engineers).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, engineers)
}

func GetEngineerById(c *fiber.Ctx) error {
	engineerId := c.Locals("inputId").(int)

	var engineer model.Engineer
	if err := database.DB.First(&engineer, engineerId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ENGINEER_NOT_FOUND, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, engineer)
}

func CreateEngineer(c *fiber.Ctx) error {
	input := c.Locals("inputCreateEngineer").(model.CreateEngineerInput)

	var newEngineer model.Engineer
	copier.Copy(&newEngineer, &input)
	newEngineer.IsActive = true

	if err := database.DB.Create(&newEngineer).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create engineer", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, newEngineer)
}

func EditEngineer(c *fiber.Ctx) error {
	engineerId := c.Locals("inputId").(int)
	input := c.Locals("inputEditEngineer").(model.EditEngineerInput)

	var engineer model.Engineer
	if err := database.DB.First(&engineer, engineerId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ENGINEER_NOT_FOUND, err)
	}

	copier.CopyWithOption(&engineer, &input, copier.Option{IgnoreEmpty: true})

	if err := database.DB.Save(&engineer).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, engineer)
}

func CreateTimeOff(c *fiber.Ctx) error {
	input := c.Locals("inputCreateTimeOff").(model.CreateTimeOffInput)

	start, err := utils.ParseDateOnly(input.StartDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Start date must be YYYY-MM-DD", err)
	}
	end, err := utils.ParseDateOnly(input.EndDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "End date must be YYYY-MM-DD", err)
	}
	if end.Before(start) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "End date before start date", errors.New("invalid range"))
	}

	var engineer model.Engineer
	if err := database.DB.First(&engineer, input.EngineerId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ENGINEER_NOT_FOUND, err)
	}

	timeOff := model.EngineerTimeOff{
		EngineerId: input.EngineerId,
		StartDate:  start,
		EndDate:    end,
		Reason:     input.Reason,
	}
	if err := database.DB.Create(&timeOff).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, timeOff)
}

func GetTimeOff(c *fiber.Ctx) error {
	engineerId := c.Locals("inputId").(int)

	var entries []model.EngineerTimeOff
	if err := database.DB.Where("engineer_id = ?", engineerId).
		Order("start_date asc").Find(&entries).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, entries)
}

// GetEngineerAvailability answers whether an engineer is free on a date.
func GetEngineerAvailability(c *fiber.Ctx) error {
	engineerId := c.Locals("inputId").(int)

	dateStr := c.Query("date")
	date, err := utils.ParseDateOnly(dateStr)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "date query must be YYYY-MM-DD", err)
	}

	available, reason, err := helper.EngineerAvailable(uint(engineerId), date)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"engineerId": engineerId,
		"date":       dateStr,
		"available":  available,
		"reason":     reason,
	})
}

// GetNearestEngineers ranks active engineers by distance from a coordinate,
// for the scheduling screen.
func GetNearestEngineers(c *fiber.Ctx) error {
	lat := c.QueryFloat("lat")
	lng := c.QueryFloat("lng")
	if lat == 0 && lng == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "lat and lng query parameters required", errors.New("missing coordinates"))
	}

	ranked, err := helper.RankEngineersByDistance(lat, lng)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, ranked)
}

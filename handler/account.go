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

func GetAccounts(c *fiber.Ctx) error {
	var filter model.FilterAccount
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter", err)
	}

	query := database.DB.Model(&model.Account{}).Preload("Engineer").Preload("ClientRef")
	if filter.SearchKey != "" {
		query = query.Where("username ILIKE ? OR email ILIKE ?", "%"+filter.SearchKey+"%", "%"+filter.SearchKey+"%")
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}

	var totalCount int64
	query.Count(&totalCount)

	var accounts model.Accounts
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Order("created_at desc").Find(&accounts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       accounts,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func CreateAccount(c *fiber.Ctx) error {
	accountInput := c.Locals("inputCreateAccount").(model.CreateAccountInput)

	var count int64
	database.DB.Model(&model.Account{}).Where("username = ?", accountInput.Username).Count(&count)
	if count > 0 {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, "Username already exists", nil, "username")
	}

	hashed, err := helper.HashPassword(accountInput.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var newAccount model.Account
	copier.Copy(&newAccount, &accountInput)
	newAccount.Password = hashed
	newAccount.Role = model.Role(accountInput.Role)
	newAccount.Active = true

	if err := database.DB.Create(&newAccount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create account", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, newAccount)
}

func AdminChangePassword(c *fiber.Ctx) error {
	input := c.Locals("inputAdminChangePassword").(model.AdminChangePassword)

	if input.NewPassword != input.RepeatPassword {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
			constants.NEW_PASSWORD_NOT_SAME_REPEAT_PASSWORD,
			errors.New("newPassword not same repeatPassword"), "repeatPassword")
	}

	var account model.Account
	if err := database.DB.First(&account, input.AccountId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.RECORD_NOT_FOUND, err)
	}

	hashed, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if err := database.DB.Model(&account).Update("password", hashed).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"changed": true})
}

func ActiveAccount(c *fiber.Ctx) error {
	accountId := c.Locals("inputId").(int)

	type ActiveInput struct {
		Active bool `json:"active"`
	}
	var input ActiveInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
	}

	var account model.Account
	if err := database.DB.First(&account, accountId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.RECORD_NOT_FOUND, err)
	}

	if err := database.DB.Model(&account).Update("active", input.Active).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, account)
}

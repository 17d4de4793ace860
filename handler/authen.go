package handler

import (
	"errors"

	"install_manager/constants"
	"install_manager/database"
	"install_manager/helper"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func setAuthCookies(c *fiber.Ctx, token, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		SameSite: "None",
		Secure:   false,
		Path:     "/",
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		SameSite: "None",
		Secure:   false,
		Path:     "/",
	})
}

func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		UserName string `json:"username"`
		Password string `json:"password"`
	}

	loginInput := new(LoginInput)

	if err := c.BodyParser(loginInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, err)
	}

	if loginInput.UserName == "" || loginInput.Password == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, errors.New("username and password are required"))
	}

	accountModel, err := helper.GetUserByUsername(loginInput.UserName)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if accountModel == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.INVALID_USERNAME, errors.New("username not exists"))
	}

	if !helper.CheckPasswordHash(loginInput.Password, accountModel.Password) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.INVALID_PASSWORD, errors.New("password does not match username"))
	}

	if !accountModel.Active {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, errors.New("active false"))
	}

	tokenClaim := model.TokenClaim{
		AccountId: accountModel.ID,
		Username:  accountModel.Username,
		Role:      accountModel.Role,
	}
	token, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	refreshToken, err := helper.GenerateRefreshToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	setAuthCookies(c, token, refreshToken)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"accessToken":  token,
		"refreshToken": refreshToken,
		"role":         accountModel.Role,
		"username":     accountModel.Username,
	})
}

func RefreshToken(c *fiber.Ctx) error {
	refresh := c.Cookies("refresh_token")
	if refresh == "" {
		type RefreshInput struct {
			RefreshToken string `json:"refreshToken"`
		}
		input := new(RefreshInput)
		if err := c.BodyParser(input); err == nil {
			refresh = input.RefreshToken
		}
	}
	if refresh == "" {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Missing refresh token", errors.New("no refresh token"))
	}

	token, err := helper.ParseToken(refresh)
	if err != nil || !token.Valid {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	accountId := uint(claims["accountId"].(float64))

	var account model.Account
	if err := database.DB.First(&account, accountId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Account no longer exists", err)
	}
	if !account.Active {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_NOT_ACTIVE, errors.New("active false"))
	}

	tokenClaim := model.TokenClaim{
		AccountId: account.ID,
		Username:  account.Username,
		Role:      account.Role,
	}
	newToken, err := helper.GenerateAccessToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	newRefresh, err := helper.GenerateRefreshToken(tokenClaim)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	setAuthCookies(c, newToken, newRefresh)

	return utils.SuccessResponse(c, fiber.StatusOK, model.TokenData{
		AccessToken:  newToken,
		RefreshToken: newRefresh,
	})
}

func Me(c *fiber.Ctx) error {
	claim, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"accountId": claim.AccountId,
		"username":  claim.Username,
		"role":      claim.Role,
		"engineer":  account.Engineer,
		"client":    account.ClientRef,
	})
}

// RegisterClient creates the client profile and its portal account together.
func RegisterClient(c *fiber.Ctx) error {
	input := c.Locals("inputRegisterClient").(model.RegisterClientInput)

	existing, err := helper.GetAccountByEmail(input.Email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if existing != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, "Email already registered", nil, "email")
	}

	hashed, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	tx := database.DB.Begin()

	client := model.Client{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Postcode: input.Postcode,
		Address:  input.Address,
		IsActive: true,
	}
	if err := tx.Create(&client).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create client", err)
	}

	account := model.Account{
		Username: input.Email,
		Email:    input.Email,
		Password: hashed,
		Role:     model.RoleClient,
		Active:   true,
		ClientId: &client.ID,
	}
	if err := tx.Create(&account).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create account", err)
	}

	tx.Commit()

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"accountId": account.ID,
		"clientId":  client.ID,
	})
}

func SelfChangePassword(c *fiber.Ctx) error {
	_, account, ok := helper.RequireActor(c)
	if !ok {
		return nil
	}

	input := c.Locals("inputSelfChangePassword").(model.SelfChangePassword)

	if input.NewPassword != input.RepeatPassword {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
			constants.NEW_PASSWORD_NOT_SAME_REPEAT_PASSWORD,
			errors.New("newPassword not same repeatPassword"), "repeatPassword")
	}
	if !helper.CheckPasswordHash(input.CurrentPassword, account.Password) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_PASSWORD, errors.New("current password wrong"))
	}

	hashed, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if err := database.DB.Model(account).Update("password", hashed).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"changed": true})
}

package validate

import (
	"install_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateAccount() fiber.Handler {
	return body[model.CreateAccountInput]("inputCreateAccount")
}

func UpdateAccount() fiber.Handler {
	return body[model.UpdateAccountInput]("inputUpdateAccount")
}

func AdminChangePassword() fiber.Handler {
	return body[model.AdminChangePassword]("inputAdminChangePassword")
}

func SelfChangePassword() fiber.Handler {
	return body[model.SelfChangePassword]("inputSelfChangePassword")
}

func RegisterClient() fiber.Handler {
	return body[model.RegisterClientInput]("inputRegisterClient")
}

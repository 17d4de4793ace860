package validate

import (
	"install_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateMessage() fiber.Handler {
	return body[model.CreateMessageInput]("inputCreateMessage")
}

func RegisterPhoto() fiber.Handler {
	return body[model.RegisterPhotoInput]("inputRegisterPhoto")
}

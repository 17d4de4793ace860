package validate

import (
	"install_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateService() fiber.Handler {
	return body[model.CreateServiceInput]("inputCreateService")
}

func EditService() fiber.Handler {
	return body[model.EditServiceInput]("inputEditService")
}

package validate

import (
	"install_manager/model"

	"github.com/gofiber/fiber/v2"
)

func EditClient() fiber.Handler {
	return body[model.EditClientInput]("inputEditClient")
}

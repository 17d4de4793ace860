package validate

import (
	"install_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateCheckout() fiber.Handler {
	return body[model.CreateCheckoutInput]("inputCreateCheckout")
}

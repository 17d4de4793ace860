package validate

import (
	"install_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateQuote() fiber.Handler {
	return body[model.CreateQuoteInput]("inputCreateQuote")
}

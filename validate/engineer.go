package validate

import (
	"install_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateEngineer() fiber.Handler {
	return body[model.CreateEngineerInput]("inputCreateEngineer")
}

func EditEngineer() fiber.Handler {
	return body[model.EditEngineerInput]("inputEditEngineer")
}

func CreateTimeOff() fiber.Handler {
	return body[model.CreateTimeOffInput]("inputCreateTimeOff")
}

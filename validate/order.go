package validate

import (
	"errors"

	"install_manager/constants"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func Transition() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.TransitionInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
		}

		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if !input.Target.Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown target status", errors.New("invalid status value"))
		}

		c.Locals("inputTransition", input)
		return c.Next()
	}
}

func Override() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.OverrideInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
		}

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
				constants.OVERRIDE_NOTES_REQUIRED, err, "notes")
		}

		if !input.Target.Valid() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown target status", errors.New("invalid status value"))
		}

		c.Locals("inputOverride", input)
		return c.Next()
	}
}

func ScheduleOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ScheduleOrderInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
		}

		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if _, err := utils.ParseDateOnly(input.InstallDate); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Install date must be YYYY-MM-DD", err)
		}

		c.Locals("inputSchedule", input)
		return c.Next()
	}
}

func Revisit() fiber.Handler {
	return body[model.RevisitInput]("inputRevisit")
}

func ToggleChecklist() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ToggleChecklistInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err)
		}

		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if !model.ValidChecklistKey(input.ItemKey) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown checklist item", errors.New(input.ItemKey))
		}

		c.Locals("inputToggleChecklist", input)
		return c.Next()
	}
}

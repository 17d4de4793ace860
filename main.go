package main

import (
	"install_manager/config"
	"install_manager/database"
	"install_manager/helper"
	"install_manager/router"
	"install_manager/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigDefault("CORS_ORIGIN", "http://localhost:5173"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	database.ConnectDB()

	helper.StartOrderSweeper()
	defer helper.StopOrderSweeper()
	helper.StartReminderScheduler()
	defer helper.StopReminderScheduler()
	defer helper.WaitForSideEffects()

	router.SetupRoutes(app)
	utils.SetupGeocodeRoutes(app)

	// no log.Fatal here: the deferred scheduler stops and the side-effect
	// drain must still run when the listener dies
	if err := app.Listen(":" + config.ConfigDefault("PORT", "8002")); err != nil {
		log.Printf("server stopped: %v", err)
	}
}

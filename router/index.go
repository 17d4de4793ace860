package router

import (
	"install_manager/handler"
	"install_manager/middleware"
	"install_manager/model"
	"install_manager/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)
	auth.Post("/register", validate.RegisterClient(), handler.RegisterClient)

	account := v1.Group("/account", logger.New())
	account.Get("/me", middleware.Protected(), handler.Me)
	account.Post("/self-change-password", middleware.Protected(), validate.SelfChangePassword(), handler.SelfChangePassword)
	account.Get("/", middleware.Protected(), middleware.RequireCapability(model.CapManageAccounts), handler.GetAccounts)
	account.Post("/", middleware.Protected(), middleware.RequireCapability(model.CapManageAccounts), validate.CreateAccount(), handler.CreateAccount)
	account.Post("/change-password", middleware.Protected(), middleware.RequireCapability(model.CapManageAccounts), validate.AdminChangePassword(), handler.AdminChangePassword)
	account.Patch("/:accountId/active", middleware.Protected(), middleware.RequireCapability(model.CapManageAccounts), validate.GetById("accountId"), handler.ActiveAccount)

	client := v1.Group("/client", logger.New())
	client.Get("/", middleware.Protected(), middleware.RequireCapability(model.CapManageClients), handler.GetClients)
	client.Get("/:clientId", middleware.Protected(), validate.GetById("clientId"), handler.GetClientById)
	client.Put("/:clientId", middleware.Protected(), middleware.RequireCapability(model.CapManageClients), validate.GetById("clientId"), validate.EditClient(), handler.EditClient)

	engineer := v1.Group("/engineer", logger.New())
	engineer.Get("/", middleware.Protected(), handler.GetEngineers)
	engineer.Get("/nearest", middleware.Protected(), middleware.RequireCapability(model.CapScheduleOrder), handler.GetNearestEngineers)
	engineer.Get("/workload", middleware.Protected(), middleware.RequireCapability(model.CapViewStatistics), handler.GetEngineerWorkload)
	engineer.Get("/:engineerId", middleware.Protected(), validate.GetById("engineerId"), handler.GetEngineerById)
	engineer.Post("/", middleware.Protected(), middleware.RequireCapability(model.CapManageEngineers), validate.CreateEngineer(), handler.CreateEngineer)
	engineer.Put("/:engineerId", middleware.Protected(), middleware.RequireCapability(model.CapManageEngineers), validate.GetById("engineerId"), validate.EditEngineer(), handler.EditEngineer)
	engineer.Get("/:engineerId/availability", middleware.Protected(), middleware.RequireCapability(model.CapScheduleOrder), validate.GetById("engineerId"), handler.GetEngineerAvailability)
	engineer.Get("/:engineerId/time-off", middleware.Protected(), validate.GetById("engineerId"), handler.GetTimeOff)
	engineer.Post("/time-off", middleware.Protected(), middleware.RequireCapability(model.CapManageEngineers), validate.CreateTimeOff(), handler.CreateTimeOff)

	service := v1.Group("/service", logger.New())
	service.Get("/", handler.GetServices)
	service.Get("/:slug", handler.GetServiceBySlug)
	service.Post("/", middleware.Protected(), middleware.RequireCapability(model.CapManageServices), validate.CreateService(), handler.CreateService)
	service.Put("/:serviceId", middleware.Protected(), middleware.RequireCapability(model.CapManageServices), validate.GetById("serviceId"), validate.EditService(), handler.EditService)
	service.Delete("/", middleware.Protected(), middleware.RequireCapability(model.CapManageServices), validate.Delete(), handler.DeleteService)

	quote := v1.Group("/quote", logger.New())
	quote.Get("/", middleware.Protected(), handler.GetQuotes)
	quote.Get("/:quoteId", middleware.Protected(), validate.GetById("quoteId"), handler.GetQuoteById)
	quote.Post("/", middleware.Protected(), middleware.RequireCapability(model.CapManageQuotes), validate.CreateQuote(), handler.CreateQuote)
	quote.Post("/:quoteId/send", middleware.Protected(), middleware.RequireCapability(model.CapManageQuotes), validate.GetById("quoteId"), handler.SendQuote)
	quote.Post("/:quoteId/accept", middleware.Protected(), validate.GetById("quoteId"), handler.AcceptQuote)
	quote.Post("/:quoteId/decline", middleware.Protected(), validate.GetById("quoteId"), handler.DeclineQuote)

	order := v1.Group("/order", logger.New())
	order.Get("/", middleware.Protected(), handler.GetOrders)
	order.Get("/number/:orderNumber", middleware.Protected(), handler.GetOrderDetail)
	order.Post("/:orderId/transition", middleware.Protected(), validate.GetById("orderId"), validate.Transition(), handler.RequestTransition)
	order.Post("/:orderId/override", middleware.Protected(), middleware.RequireCapability(model.CapOverrideStatus), validate.GetById("orderId"), validate.Override(), handler.OverrideStatus)
	order.Post("/:orderId/schedule", middleware.Protected(), middleware.RequireCapability(model.CapScheduleOrder), validate.GetById("orderId"), validate.ScheduleOrder(), handler.ScheduleOrder)
	order.Post("/:orderId/agreement", middleware.Protected(), middleware.RequireCapability(model.CapSignAgreement), validate.GetById("orderId"), handler.SignAgreement)
	order.Post("/:orderId/revisit", middleware.Protected(), middleware.RequireCapability(model.CapFlagRevisit), validate.GetById("orderId"), validate.Revisit(), handler.FlagRevisit)
	order.Delete("/:orderId", middleware.Protected(), middleware.RequireCapability(model.CapDeleteOrder), validate.GetById("orderId"), handler.DeleteOrder)
	order.Post("/slot/hold", middleware.Protected(), middleware.RequireCapability(model.CapScheduleOrder), handler.HoldInstallSlot)
	order.Post("/slot/release", middleware.Protected(), middleware.RequireCapability(model.CapScheduleOrder), handler.ReleaseInstallSlot)

	order.Get("/:orderId/messages", middleware.Protected(), validate.GetById("orderId"), handler.GetMessages)
	order.Post("/:orderId/messages", middleware.Protected(), middleware.RequireCapability(model.CapSendMessage), validate.GetById("orderId"), validate.CreateMessage(), handler.CreateMessage)
	order.Post("/:orderId/messages/read", middleware.Protected(), validate.GetById("orderId"), handler.MarkMessagesRead)

	order.Get("/:orderId/photos", middleware.Protected(), validate.GetById("orderId"), handler.GetPhotos)
	order.Post("/:orderId/photos", middleware.Protected(), middleware.RequireCapability(model.CapUploadPhoto), validate.GetById("orderId"), validate.RegisterPhoto(), handler.RegisterPhoto)

	job := v1.Group("/job", logger.New())
	job.Get("/", middleware.Protected(), middleware.RequireCapability(model.CapAdvanceJobStatus), handler.GetMyJobs)
	job.Post("/:orderId/status", middleware.Protected(), middleware.RequireCapability(model.CapAdvanceJobStatus), validate.GetById("orderId"), handler.AdvanceJobStatus)
	job.Post("/:orderId/checklist", middleware.Protected(), middleware.RequireCapability(model.CapToggleChecklist), validate.GetById("orderId"), validate.ToggleChecklist(), handler.ToggleChecklist)
	job.Post("/:orderId/complete", middleware.Protected(), middleware.RequireCapability(model.CapAdvanceJobStatus), validate.GetById("orderId"), handler.RequestCompletion)

	payment := v1.Group("/payment", logger.New())
	payment.Post("/checkout", middleware.Protected(), middleware.RequireCapability(model.CapPayOrder), validate.CreateCheckout(), handler.CreateCheckout)
	payment.Get("/return", handler.CheckoutReturn)
	payment.Get("/ipn", handler.CheckoutIPN)

	upload := v1.Group("/upload", logger.New())
	upload.Post("/signature", middleware.Protected(), middleware.RequireCapability(model.CapUploadPhoto), handler.GenerateUploadSignature)
	upload.Delete("/photo/:photoId", middleware.Protected(), middleware.RequireCapability(model.CapDeleteOrder), validate.GetById("photoId"), handler.DeletePhoto)

	stats := v1.Group("/stats", logger.New())
	stats.Get("/admin", middleware.Protected(), middleware.RequireCapability(model.CapViewStatistics), handler.GetAdminStats)

	ws := v1.Group("/ws")
	ws.Get("/order/:id", middleware.OptionalJWT(), websocket.New(handler.OrderWebsocket))
}

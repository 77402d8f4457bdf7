package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Merenda-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Billing     BillingService
	Consumption ConsumptionService
	Removal     ModalityRemovalService
	Log         *logger.Logger
	JWTSecret   string
	AppName     string

	// Metrics se monta en MetricsPath si no es nil.
	Metrics     fiber.Handler
	MetricsPath string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, deps.Metrics)
	}

	h := NewBillingHandler(deps.Billing, deps.Consumption, deps.Removal, deps.Log)
	read := RequireRole(RoleAdmin, RoleGestor, RoleConsulta)
	write := RequireRole(RoleAdmin, RoleGestor)

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	orders := api.Group("/orders")
	orders.Get("/:id/billing-preview", read, h.Preview)
	orders.Post("/:id/billing", write, h.Generate)

	billings := api.Group("/billings")
	billings.Get("/:id", read, h.GetByID)
	billings.Post("/:id/consumption", write, h.RegisterAll)
	billings.Delete("/:id/consumption", write, h.ReverseAll)
	billings.Post("/:id/items/:itemId/consumption", write, h.RegisterItem)
	billings.Delete("/:id/items/:itemId/consumption", write, h.ReverseItem)
	billings.Post("/:id/remove-modality", write, h.RemoveModality)

	balances := api.Group("/balances")
	balances.Get("/:id/movements", read, h.ListMovements)
}

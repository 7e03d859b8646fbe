package routes

import (
	"github.com/gofiber/fiber/v2"

	"invoicing-backend/controllers"
	"invoicing-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/register", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Reads carry optional auth: an anonymous request is scoped to no
	// owner and sees an empty set rather than a 401.
	reads := api.Group("", middlewares.OptionalAuth())
	reads.Get("/clients", controllers.GetClients)
	reads.Get("/client/:id", controllers.GetClient)
	reads.Get("/invoices", controllers.GetInvoices)
	reads.Get("/invoice/:id", controllers.GetInvoice)
	reads.Get("/invoice/:id/pdf", controllers.GenerateInvoicePDF)

	// Mutations require auth. Idempotency guard FIRST (not tied to the
	// request TX), then the per-request transaction.
	protected := api.Group("",
		middlewares.RequireAuth(),
		middlewares.Idempotency(),
		middlewares.RequestTx(),
	)

	// Clients
	protected.Post("/client", controllers.CreateClient)
	protected.Put("/client/:id", controllers.UpdateClient)
	protected.Delete("/client/:id", controllers.DeleteClient)

	// Invoices (header + item batch edited as one unit)
	protected.Post("/invoice", controllers.CreateInvoice)
	protected.Put("/invoice/:id", controllers.UpdateInvoice)
	protected.Delete("/invoice/:id", controllers.DeleteInvoice)
}

// handlers/routes.go
package handlers

import (
	"broker-intake-system/middleware"
	"broker-intake-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupPortalRoutes wires the public route surface:
//
//	GET  /                       landing (broker list)
//	GET  /submissions/:key       workflow state / success payload
//	GET  /:brokerId              broker profile
//	GET  /:brokerId/:action      intake bootstrap (deposit|withdraw|register)
//	POST /:brokerId/:action      submit attempt
//
// Specific routes are registered before the :brokerId wildcards so they
// are matched first.
func SetupPortalRoutes(app *fiber.App, portal *services.PortalService, historyGuard bool) {
	app.Get("/", portal.ListBrokers)
	app.Get("/submissions/:key", portal.GetSubmission)

	app.Get("/:brokerId", middleware.HistoryGuardMiddleware(historyGuard), portal.GetBroker)
	app.Get("/:brokerId/:action", portal.GetAction)
	app.Post("/:brokerId/:action", portal.SubmitAction)
}

package routes

import (
	"makers/app/controllers"
	"makers/pkg/metrics"
	"makers/pkg/middleware"
	"makers/pkg/router"
)

// Controllers bundles the handlers RegisterAPI mounts.
type Controllers struct {
	Catalog  *controllers.CatalogController
	Orders   *controllers.OrderController
	Accounts *controllers.AccountController
}

// RegisterAPI mounts every route. Only catalog writes sit behind the
// bearer-token and admin-role gates; the listings and the purchase flow are
// deliberately open.
func RegisterAPI(r *router.Router, c Controllers, roles middleware.RoleLookup) {
	r.Get("/", "home", controllers.Banner)

	r.Get("/tools", "tools.index", c.Catalog.List)
	r.Get("/tools/{id}", "tools.show", c.Catalog.Get)
	r.Put("/tool/{id}", "tools.update", c.Catalog.Update)

	admin := r.Group("", middleware.Auth, middleware.RequireAdmin(roles))
	admin.Post("/tool", "tools.create", c.Catalog.Create)
	admin.Post("/tool/{id}/image", "tools.image", c.Catalog.UploadImage)

	r.Post("/purchase", "orders.purchase", c.Orders.Purchase)
	r.Get("/allorders", "orders.index", c.Orders.All)
	r.Get("/myorders/{email}", "orders.mine", c.Orders.ByUser)
	r.Put("/myorders/{id}", "orders.update", c.Orders.Update)
	r.Delete("/myorders/{id}", "orders.delete", c.Orders.Delete)

	r.Put("/user/{email}", "users.register", c.Accounts.Register)
	r.Get("/admin/{email}", "users.admin", c.Accounts.IsAdmin)

	r.Get("/metrics", "metrics", metrics.Handler())
}

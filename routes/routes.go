package routes

import (
	"net/http"

	"velora/audit"
	"velora/cart"
	"velora/catalog"
	"velora/deals"
	"velora/delivery"
	"velora/discounts"
	"velora/medialib"
	"velora/middleware"
	"velora/notifications"
	"velora/orders"
	"velora/payments"
	"velora/ratelim"
	"velora/reviews"
	"velora/settings"
	"velora/taxes"
	"velora/updates"
	"velora/wishlist"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddCatalogRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/products", rl.Limit(catalog.GetProducts))
	router.GET("/api/products/:productid", rl.Limit(catalog.GetProduct))
	router.GET("/api/categories", rl.Limit(catalog.GetCategories))
	router.GET("/api/brands", rl.Limit(catalog.GetBrands))
	router.GET("/api/deals", rl.Limit(deals.GetActiveDeals))

	router.POST("/api/admin/products", middleware.RequireAdmin(catalog.CreateProduct))
	router.PUT("/api/admin/products/:productid", middleware.RequireAdmin(catalog.UpdateProduct))
	router.DELETE("/api/admin/products/:productid", middleware.RequireAdmin(catalog.DeleteProduct))

	router.POST("/api/admin/categories", middleware.RequireAdmin(catalog.CreateCategory))
	router.PUT("/api/admin/categories/:categoryid", middleware.RequireAdmin(catalog.UpdateCategory))
	router.DELETE("/api/admin/categories/:categoryid", middleware.RequireAdmin(catalog.DeleteCategory))

	router.POST("/api/admin/brands", middleware.RequireAdmin(catalog.CreateBrand))
	router.PUT("/api/admin/brands/:brandid", middleware.RequireAdmin(catalog.UpdateBrand))
	router.DELETE("/api/admin/brands/:brandid", middleware.RequireAdmin(catalog.DeleteBrand))
}

func AddDealRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.GET("/api/admin/deals", middleware.RequireAdmin(deals.ListDeals))
	router.POST("/api/admin/deals", middleware.RequireAdmin(deals.CreateDeal))
	router.PUT("/api/admin/deals/:dealid", middleware.RequireAdmin(deals.UpdateDeal))
	router.DELETE("/api/admin/deals/:dealid", middleware.RequireAdmin(deals.DeleteDeal))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.PUT("/api/cart", rl.Limit(middleware.Authenticate(cart.ReplaceCart)))
	router.DELETE("/api/cart", middleware.Authenticate(cart.ClearCart))
}

func AddDiscountRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/discounts/apply", rl.Limit(middleware.OptionalAuth(discounts.ApplyDiscount)))

	router.GET("/api/admin/discounts", middleware.RequireAdmin(discounts.ListDiscounts))
	router.POST("/api/admin/discounts", middleware.RequireAdmin(discounts.CreateDiscount))
	router.PUT("/api/admin/discounts/:discountid", middleware.RequireAdmin(discounts.UpdateDiscount))
	router.DELETE("/api/admin/discounts/:discountid", middleware.RequireAdmin(discounts.DeleteDiscount))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, hub *updates.Hub) {
	router.POST("/api/orders", rl.Limit(middleware.Authenticate(middleware.Idempotent(orders.CreateOrder(hub)))))
	router.GET("/api/orders", middleware.Authenticate(orders.GetMyOrders))
	router.GET("/api/orders/:orderid", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/orders/:orderid/invoice", rl.Limit(middleware.Authenticate(orders.PrintInvoice)))

	router.GET("/api/admin/orders", middleware.RequireAdmin(orders.AdminListOrders))
	router.PATCH("/api/admin/orders/:orderid/status", middleware.RequireAdmin(orders.UpdateOrderStatus(hub)))

	router.GET("/ws/updates/:topic", updates.ServeWS(hub))
}

func AddPaymentRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/orders/:orderid/payment-session", rl.Limit(middleware.Authenticate(payments.CreateSession)))
	router.POST("/api/payments/callback", rl.Limit(payments.PaymentCallback))
}

func AddCheckoutSupportRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/delivery-options", rl.Limit(delivery.GetDeliveryOptions))
	router.GET("/api/taxes", rl.Limit(taxes.GetActiveTaxes))

	router.GET("/api/admin/delivery-options", middleware.RequireAdmin(delivery.AdminListDeliveryOptions))
	router.POST("/api/admin/delivery-options", middleware.RequireAdmin(delivery.CreateDeliveryOption))
	router.PUT("/api/admin/delivery-options/:optionid", middleware.RequireAdmin(delivery.UpdateDeliveryOption))
	router.DELETE("/api/admin/delivery-options/:optionid", middleware.RequireAdmin(delivery.DeleteDeliveryOption))

	router.GET("/api/admin/taxes", middleware.RequireAdmin(taxes.ListTaxes))
	router.POST("/api/admin/taxes", middleware.RequireAdmin(taxes.CreateTax))
	router.PUT("/api/admin/taxes/:taxid", middleware.RequireAdmin(taxes.UpdateTax))
	router.DELETE("/api/admin/taxes/:taxid", middleware.RequireAdmin(taxes.DeleteTax))
}

func AddEngagementRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/wishlist", middleware.Authenticate(wishlist.GetWishlist))
	router.POST("/api/wishlist", rl.Limit(middleware.Authenticate(wishlist.AddToWishlist)))
	router.DELETE("/api/wishlist/:productid", middleware.Authenticate(wishlist.RemoveFromWishlist))

	router.GET("/api/reviews/:productid", rl.Limit(reviews.GetReviews))
	router.POST("/api/reviews/:productid", rl.Limit(middleware.Authenticate(reviews.AddReview)))
	router.DELETE("/api/reviews/:productid/:reviewid", middleware.Authenticate(reviews.DeleteReview))

	router.GET("/api/notifications", middleware.Authenticate(notifications.GetNotifications))
	router.PUT("/api/notifications/:notificationid/read", middleware.Authenticate(notifications.MarkNotificationRead))
}

func AddSettingsRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/settings", rl.Limit(settings.GetSettings))
	router.GET("/api/check-maintenance", settings.CheckMaintenance)

	router.PUT("/api/admin/settings/:key", middleware.RequireAdmin(settings.UpsertSetting))
	router.DELETE("/api/admin/settings/:key", middleware.RequireAdmin(settings.DeleteSetting))

	router.GET("/api/admin/auditlogs", middleware.RequireAdmin(audit.ListAuditLogs))
}

func AddMediaRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.GET("/api/admin/media", middleware.RequireAdmin(medialib.ListMedia))
	router.POST("/api/admin/media", middleware.RequireAdmin(medialib.UploadMedia))
	router.DELETE("/api/admin/media/:assetid", middleware.RequireAdmin(medialib.DeleteMedia))
}

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, hub *updates.Hub) {
	AddStaticRoutes(router)
	AddCatalogRoutes(router, rateLimiter)
	AddDealRoutes(router, rateLimiter)
	AddCartRoutes(router, rateLimiter)
	AddDiscountRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter, hub)
	AddPaymentRoutes(router, rateLimiter)
	AddCheckoutSupportRoutes(router, rateLimiter)
	AddEngagementRoutes(router, rateLimiter)
	AddSettingsRoutes(router, rateLimiter)
	AddMediaRoutes(router, rateLimiter)
}

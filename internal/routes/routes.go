package routes

import (
	checkouthandlers "velora_back_end/internal/handlers/checkout"
	"velora_back_end/internal/handlers/user"
	"velora_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.Engine,
	checkout *checkouthandlers.Handler,
	carts *user.CartHandler,
	orders *user.OrderHandler,
	addresses *user.AddressHandler,
) {
	api := r.Group("/api", middleware.APIRateLimit())

	// Entrées asynchrones — pas de JWT, les callbacks viennent des prestataires
	api.POST("/webhook/stripe", checkout.StripeWebhook)
	api.POST("/payment/callback", checkout.CompleteCallback)

	auth := api.Group("", middleware.AuthRequired())

	// Checkout
	auth.POST("/checkout", checkout.CreateCheckout)
	auth.POST("/checkout/:id/payment-token", middleware.PaymentRateLimit(), checkout.CreatePaymentToken)
	auth.POST("/checkout/:id/complete-card", middleware.PaymentRateLimit(), checkout.CompleteWithCard)

	// Panier
	auth.GET("/cart", carts.GetCart)
	auth.POST("/cart/add", carts.AddToCart)
	auth.DELETE("/cart/:productId", carts.RemoveFromCart)

	// Commandes
	auth.GET("/orders/mine", orders.GetMyOrders)
	auth.GET("/orders/:id", orders.GetOrderByID)

	// Adresses
	auth.GET("/addresses/mine", addresses.ListMyAddresses)
}

package main

import (
	"context"
	"log"
	"os"

	"velora_back_end/internal/cart"
	"velora_back_end/internal/checkout"
	"velora_back_end/internal/config"
	"velora_back_end/internal/database"
	"velora_back_end/internal/gateway"
	checkouthandlers "velora_back_end/internal/handlers/checkout"
	"velora_back_end/internal/handlers/user"
	"velora_back_end/internal/repository"
	"velora_back_end/internal/routes"
	"velora_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
	}
	log.Println("✅ Stripe initialisé")

	database.ConnectDatabases()

	// ✅ Pré-chauffer le cache Redis
	warmupRedisCache()

	// --- Assemblage des services ---
	users := repository.NewUserRepo()
	checkouts := repository.NewCheckoutRepo(database.MongoOrdersDB)
	orders := repository.NewOrderRepo(database.MongoOrdersDB)
	rates := repository.NewExchangeRateRepo(database.MongoOrdersDB, database.Redis)
	catalog := repository.NewProductCatalog()

	cartSvc := cart.NewService(database.Redis, catalog)
	checkoutSvc := checkout.NewService(users, checkouts, orders, rates, cartSvc,
		gateway.NewStripeGateway(), utils.NewEmailNotifier())

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.Getenv("FRONTEND_URL", "http://localhost:3000")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(r,
		checkouthandlers.NewHandler(checkoutSvc),
		user.NewCartHandler(cartSvc),
		user.NewOrderHandler(orders),
		user.NewAddressHandler(users),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Velora lancé sur le port", port)
	r.Run(":" + port)
}

// warmupRedisCache pré-chauffe le cache Redis pour éviter la latence du premier appel
func warmupRedisCache() {
	ctx := context.Background()
	// Faire un ping pour établir la connexion
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}

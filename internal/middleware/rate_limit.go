package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"velora_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	// Limites par endpoint
	PaymentMaxAttempts = 10 // tentatives de paiement par utilisateur
	APIMaxRequests     = 100 // Par minute pour les endpoints généraux

	// Durées de cooldown
	PaymentCooldown = 15 * time.Minute
	APICooldown     = 1 * time.Minute
)

// PaymentRateLimit limite les tentatives de paiement par utilisateur :
// au-delà du seuil, l'utilisateur est mis en cooldown
func PaymentRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString("email")
		if email == "" {
			c.Next()
			return
		}

		ctx := context.Background()
		key := "payment_attempts:" + email
		cooldownKey := "payment_cooldown:" + email

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives de paiement. Réessayez dans %d minutes", int(ttl.Minutes())),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		attempts := database.Redis.Incr(ctx, key).Val()
		if attempts == 1 {
			database.Redis.Expire(ctx, key, PaymentCooldown)
		}
		if attempts > PaymentMaxAttempts {
			database.Redis.Set(ctx, cooldownKey, "1", PaymentCooldown)
			database.Redis.Del(ctx, key)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Trop de tentatives de paiement. Réessayez plus tard",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// APIRateLimit limite le débit général par IP
func APIRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		key := "api_requests:" + c.ClientIP()

		requests := database.Redis.Incr(ctx, key).Val()
		if requests == 1 {
			database.Redis.Expire(ctx, key, APICooldown)
		}
		if requests > APIMaxRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Trop de requêtes. Réessayez dans une minute",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

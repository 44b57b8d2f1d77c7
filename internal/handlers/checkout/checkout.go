package checkout

import (
	"net/http"

	checkoutsvc "velora_back_end/internal/checkout"
	"velora_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// Handler relaie les requêtes HTTP vers l'orchestrateur et renvoie
// l'enveloppe telle quelle
type Handler struct {
	svc *checkoutsvc.Service
}

func NewHandler(svc *checkoutsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func respond(c *gin.Context, res checkoutsvc.Result) {
	c.JSON(res.Code, res)
}

// userFromContext reconstruit le contexte utilisateur posé par le middleware JWT
func userFromContext(c *gin.Context) (models.User, bool) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" || email == "" {
		return models.User{}, false
	}
	return models.User{
		ID:    userID,
		Email: email,
		Name:  c.GetString("name"),
	}, true
}

// POST /api/checkout
func (h *Handler) CreateCheckout(c *gin.Context) {
	var req struct {
		AddressID      string `json:"address_id" binding:"required"`
		ShippingMethod string `json:"shipping_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	user, authed := userFromContext(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	respond(c, h.svc.CreateCheckout(c.Request.Context(), req.AddressID, req.ShippingMethod, user))
}

// POST /api/checkout/:id/payment-token
func (h *Handler) CreatePaymentToken(c *gin.Context) {
	var req struct {
		PaymentSource string `json:"payment_source" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	user, authed := userFromContext(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	respond(c, h.svc.CreatePaymentToken(c.Request.Context(), c.Param("id"),
		models.PaymentSource(req.PaymentSource), user))
}

// POST /api/checkout/:id/complete-card
func (h *Handler) CompleteWithCard(c *gin.Context) {
	var req struct {
		PaymentToken string `json:"payment_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	user, authed := userFromContext(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	respond(c, h.svc.CompleteCheckoutUsingCard(c.Request.Context(), c.Param("id"), req.PaymentToken, user))
}

// POST /api/payment/callback — callback de confirmation de paiement
// (bKash IPN) : pas de contexte utilisateur
func (h *Handler) CompleteCallback(c *gin.Context) {
	var req struct {
		PaymentSource string `json:"payment_source" binding:"required"`
		PaymentID     string `json:"payment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	respond(c, h.svc.CompleteCheckout(c.Request.Context(),
		models.PaymentSource(req.PaymentSource), req.PaymentID))
}

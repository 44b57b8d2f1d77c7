package user

import (
	"log"
	"net/http"

	"velora_back_end/internal/repository"

	"github.com/gin-gonic/gin"
)

// AddressHandler expose les adresses du profil (sélection d'adresse de
// livraison au checkout)
type AddressHandler struct {
	users *repository.UserRepo
}

func NewAddressHandler(users *repository.UserRepo) *AddressHandler {
	return &AddressHandler{users: users}
}

// 🟢 GET /api/addresses/mine
func (h *AddressHandler) ListMyAddresses(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	addresses, err := h.users.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Erreur lecture adresses de %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

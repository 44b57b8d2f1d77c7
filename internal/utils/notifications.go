package utils

import (
	"log"

	"velora_back_end/internal/models"
)

// EmailNotifier envoie les confirmations de commande : HTML + facture PDF
// en pièce jointe. La génération du PDF est best-effort
type EmailNotifier struct{}

func NewEmailNotifier() *EmailNotifier {
	return &EmailNotifier{}
}

func (n *EmailNotifier) SendOrderConfirmation(order models.Order) error {
	html := GenerateOrderConfirmationHTML(order)

	pdf, err := GenerateInvoicePDF(order)
	if err != nil {
		log.Println("❌ Erreur génération PDF :", err)
		pdf = nil
	}

	return SendConfirmationEmail(order.UserEmail, "Confirmation de votre commande Velora", html, pdf)
}

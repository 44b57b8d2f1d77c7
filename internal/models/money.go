package models

import "math"

// Money représente un montant dans une devise donnée.
// Tous les montants stockés côté checkout/commande sont en USD.
type Money struct {
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`
}

const CurrencyUSD = "USD"

// Round2 arrondit à 2 décimales (centimes)
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// USD construit un Money en dollars, arrondi au centime
func USD(amount float64) Money {
	return Money{Amount: Round2(amount), Currency: CurrencyUSD}
}

package models

import "time"

// ExchangeRate est le taux USD → devise locale (collection `exchange_rates`)
type ExchangeRate struct {
	Currency  string    `bson:"currency" json:"currency"`
	Rate      float64   `bson:"rate" json:"rate"` // 1 USD = Rate × devise
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

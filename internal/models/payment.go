package models

// PaymentSource identifie le moyen de paiement d'une tentative
type PaymentSource string

const (
	SourceBkash PaymentSource = "BKASH"
	SourceCard  PaymentSource = "CARD"
)

// PaymentType est l'état d'une tentative de paiement
type PaymentType string

const (
	PaymentPending       PaymentType = "PENDING"
	PaymentAuthorization PaymentType = "AUTHORIZATION"
)

// PaymentInfo est une tentative de paiement attachée à un checkout / une commande.
// Un checkout ne garde qu'une seule tentative active au moment de la complétion :
// la liste est remise à zéro avant chaque tentative de débit.
type PaymentInfo struct {
	Source                  PaymentSource `bson:"source" json:"source"`
	Type                    PaymentType   `bson:"type" json:"type"`
	PaymentID               string        `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	TransactionID           string        `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	AmountInUSD             float64       `bson:"amount_in_usd" json:"amountInUSD"`
	ExchangeRate            *float64      `bson:"exchange_rate,omitempty" json:"exchangeRate,omitempty"`
	AmountInPaymentCurrency *Money        `bson:"amount_in_payment_currency,omitempty" json:"amountInPaymentCurrency,omitempty"`
}

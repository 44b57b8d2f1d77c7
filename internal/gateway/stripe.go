package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// ErrCardDeclined : la carte a été refusée par l'émetteur (par opposition
// à une erreur du prestataire)
var ErrCardDeclined = errors.New("carte refusée")

type AuthorizeParams struct {
	AmountUSD  float64
	Token      string // moyen de paiement tokenisé côté front
	CheckoutID string
	Email      string
	Descriptor string
}

type Authorization struct {
	ChargeID      string
	TransactionID string
}

// StripeGateway pose des autorisations carte via PaymentIntent, capture
// différée (la capture est faite à l'expédition)
type StripeGateway struct{}

func NewStripeGateway() *StripeGateway {
	return &StripeGateway{}
}

func (g *StripeGateway) Authorize(ctx context.Context, p AuthorizeParams) (*Authorization, error) {
	params := &stripe.PaymentIntentParams{
		Amount:                    stripe.Int64(int64(math.Round(p.AmountUSD * 100))),
		Currency:                  stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethod:             stripe.String(p.Token),
		Confirm:                   stripe.Bool(true),
		CaptureMethod:             stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		StatementDescriptorSuffix: stripe.String(p.Descriptor),
		Metadata: map[string]string{
			"checkout_id": p.CheckoutID,
			"email":       p.Email,
		},
	}
	params.Context = ctx
	params.AddExpand("latest_charge")

	intent, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return nil, fmt.Errorf("%w: %s", ErrCardDeclined, stripeErr.Msg)
		}
		return nil, err
	}

	if intent.Status != stripe.PaymentIntentStatusRequiresCapture {
		return nil, fmt.Errorf("autorisation non aboutie (statut %s)", intent.Status)
	}

	auth := &Authorization{ChargeID: intent.ID}
	if intent.LatestCharge != nil {
		auth.TransactionID = intent.LatestCharge.ID
	}
	return auth, nil
}

package checkout

import (
	"context"
	"fmt"

	"velora_back_end/internal/models"
)

// tokenIssuer fabrique l'entrée payment_info d'une source donnée
type tokenIssuer func(ctx context.Context, s *Service, totalUSD float64) (*models.PaymentInfo, error)

// tokenIssuers est la table fermée source → handler. Une source absente de
// la table est rejetée explicitement, jamais devinée
var tokenIssuers = map[models.PaymentSource]tokenIssuer{
	models.SourceBkash: issueBkashToken,
}

// issueBkashToken résout le taux USD→BDT et attache une tentative en
// attente avec le montant converti en devise locale
func issueBkashToken(ctx context.Context, s *Service, totalUSD float64) (*models.PaymentInfo, error) {
	rate, err := s.rates.GetRate(ctx, "BDT")
	if err != nil {
		return nil, fmt.Errorf("taux de change BDT indisponible: %w", err)
	}

	local := models.Money{
		Amount:   models.Round2(totalUSD * rate.Rate),
		Currency: rate.Currency,
	}

	return &models.PaymentInfo{
		Source:                  models.SourceBkash,
		Type:                    models.PaymentPending,
		PaymentID:               s.newPaymentID(),
		AmountInUSD:             totalUSD,
		ExchangeRate:            &rate.Rate,
		AmountInPaymentCurrency: &local,
	}, nil
}

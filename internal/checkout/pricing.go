package checkout

import (
	"context"
	"strings"

	"velora_back_end/internal/models"
)

const (
	// Forfait expédition en USD
	flatShippingUSD = 15.00
	// Frais de service : pourcentage du sous-total
	serviceChargePct = 5.0
)

// CalculatePrice dérive l'instantané de panier chiffré : sous-total du
// sous-service panier, droits de douane par ligne, expédition, frais de
// service. Aucune persistance sauf demande explicite du caller (relayée au
// sous-service panier)
func (s *Service) CalculatePrice(ctx context.Context, email string, allowRecalc, persist bool) (*models.PricedCart, error) {
	cart, err := s.cart.GetCart(ctx, email, allowRecalc, persist)
	if err != nil {
		return nil, err
	}

	priced := models.PricedCart{
		Items: make([]models.CheckoutItem, 0, len(cart.Items)),
	}

	var tariffTotal float64
	for _, item := range cart.Items {
		line := models.CheckoutItem{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			AggregatedPrice: item.AggregatedPrice,
			WeightKg:        item.WeightKg,
		}
		// Forme de stockage : tarif et catégorie réduits à leurs ids
		if item.Tariff != nil {
			line.TariffID = item.Tariff.ID
			tariffTotal += models.Round2(item.Tariff.Rate / 100 * item.AggregatedPrice.Amount)
		}
		if item.Category != nil {
			line.CategoryID = item.Category.ID
		}
		priced.Items = append(priced.Items, line)
	}

	subTotal := cart.SubTotalPrice.Amount
	shipping := shippingPrice(priced.Items)
	service := models.Round2(subTotal * serviceChargePct / 100)

	priced.SubTotalPrice = models.USD(subTotal)
	priced.TariffPrice = models.USD(tariffTotal)
	priced.ShippingPrice = models.USD(shipping)
	priced.ServiceCharge = models.USD(service)
	priced.TotalPrice = models.USD(subTotal + tariffTotal + service + shipping)

	return &priced, nil
}

// shippingPrice calcule les paliers par poids mais rend toujours le
// forfait : la grille tarifaire n'a jamais été branchée, la vraie règle
// reste à trancher côté produit
func shippingPrice(items []models.CheckoutItem) float64 {
	var totalWeight float64
	for _, it := range items {
		totalWeight += it.WeightKg * float64(it.Quantity)
	}

	tiered := flatShippingUSD
	switch {
	case totalWeight > 20:
		tiered = 45.00
	case totalWeight > 10:
		tiered = 30.00
	case totalWeight > 5:
		tiered = 22.50
	}
	_ = tiered

	return flatShippingUSD
}

// cartsEqual compare l'instantané stocké à un recalcul frais, après
// normalisation des identifiants (les ids relus depuis le store peuvent
// différer en forme, jamais en valeur)
func cartsEqual(stored, fresh models.PricedCart) bool {
	if len(stored.Items) != len(fresh.Items) {
		return false
	}
	for i := range stored.Items {
		if !itemsEqual(stored.Items[i], fresh.Items[i]) {
			return false
		}
	}
	return moneyEqual(stored.SubTotalPrice, fresh.SubTotalPrice) &&
		moneyEqual(stored.TariffPrice, fresh.TariffPrice) &&
		moneyEqual(stored.ShippingPrice, fresh.ShippingPrice) &&
		moneyEqual(stored.ServiceCharge, fresh.ServiceCharge) &&
		moneyEqual(stored.TotalPrice, fresh.TotalPrice)
}

func itemsEqual(a, b models.CheckoutItem) bool {
	return normalizeID(a.ProductID) == normalizeID(b.ProductID) &&
		a.Name == b.Name &&
		a.Quantity == b.Quantity &&
		models.Round2(a.UnitPrice) == models.Round2(b.UnitPrice) &&
		moneyEqual(a.AggregatedPrice, b.AggregatedPrice) &&
		normalizeID(a.TariffID) == normalizeID(b.TariffID) &&
		normalizeID(a.CategoryID) == normalizeID(b.CategoryID)
}

func moneyEqual(a, b models.Money) bool {
	return models.Round2(a.Amount) == models.Round2(b.Amount) && a.Currency == b.Currency
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

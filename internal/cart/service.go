package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"velora_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrEmptyCart : aucun panier (ou panier vide) pour cet utilisateur
var ErrEmptyCart = errors.New("panier vide ou introuvable")

// ProductCatalog re-résout un produit au moment du recalcul
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}

// Service est le sous-service panier : stockage Redis par email
// (`cart:<email>`), recalcul des lignes contre le catalogue produits
type Service struct {
	rdb     *redis.Client
	catalog ProductCatalog
}

func NewService(rdb *redis.Client, catalog ProductCatalog) *Service {
	return &Service{rdb: rdb, catalog: catalog}
}

func cartKey(email string) string {
	return "cart:" + email
}

// GetCart retourne le panier de l'utilisateur. allowRecalc re-résout
// chaque ligne contre le catalogue (prix, poids, tarif, catégorie) et
// recalcule les agrégats ; persist réécrit le résultat dans Redis
func (s *Service) GetCart(ctx context.Context, email string, allowRecalc, persist bool) (*models.Cart, error) {
	data, err := s.rdb.Get(ctx, cartKey(email)).Result()
	if errors.Is(err, redis.Nil) || data == "" {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("erreur décodage panier: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if allowRecalc {
		if err := s.recalc(ctx, items); err != nil {
			return nil, err
		}
		if persist {
			if err := s.save(ctx, email, items); err != nil {
				return nil, err
			}
		}
	}

	var subTotal float64
	for _, it := range items {
		subTotal += it.AggregatedPrice.Amount
	}

	return &models.Cart{
		UserEmail:     email,
		Items:         items,
		SubTotalPrice: models.USD(subTotal),
	}, nil
}

// recalc rafraîchit chaque ligne avec les données produit actuelles
func (s *Service) recalc(ctx context.Context, items []models.CartItem) error {
	for i := range items {
		product, err := s.catalog.GetProduct(ctx, items[i].ProductID)
		if err != nil {
			return fmt.Errorf("produit %s introuvable: %w", items[i].ProductID, err)
		}

		items[i].Name = product.Name
		items[i].UnitPrice = product.Price
		items[i].WeightKg = product.Weight
		items[i].AggregatedPrice = models.USD(product.Price * float64(items[i].Quantity))
		items[i].Tariff = &models.Tariff{
			ID:   product.TariffID.String(),
			Name: product.TariffName,
			Rate: product.TariffRate,
		}
		items[i].Category = &models.Category{
			ID:   product.CategoryID.String(),
			Name: product.CategoryName,
		}
		if len(product.ImageURLs) > 0 {
			items[i].ImageURL = product.ImageURLs[0]
		}
	}
	return nil
}

// AddItem ajoute (ou incrémente) une ligne, résolue depuis le catalogue
func (s *Service) AddItem(ctx context.Context, email, productID string, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return nil, errors.New("quantité invalide")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	items, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			items[i].AggregatedPrice = models.USD(items[i].UnitPrice * float64(items[i].Quantity))
			found = true
			break
		}
	}
	if !found {
		item := models.CartItem{
			ProductID:       productID,
			Name:            product.Name,
			Quantity:        quantity,
			UnitPrice:       product.Price,
			AggregatedPrice: models.USD(product.Price * float64(quantity)),
			WeightKg:        product.Weight,
			Tariff: &models.Tariff{
				ID:   product.TariffID.String(),
				Name: product.TariffName,
				Rate: product.TariffRate,
			},
			Category: &models.Category{
				ID:   product.CategoryID.String(),
				Name: product.CategoryName,
			},
		}
		if len(product.ImageURLs) > 0 {
			item.ImageURL = product.ImageURLs[0]
		}
		items = append(items, item)
	}

	if err := s.save(ctx, email, items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveItem retire une ligne du panier
func (s *Service) RemoveItem(ctx context.Context, email, productID string) ([]models.CartItem, error) {
	items, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}

	if err := s.save(ctx, email, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (s *Service) load(ctx context.Context, email string) ([]models.CartItem, error) {
	data, err := s.rdb.Get(ctx, cartKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("erreur décodage panier: %w", err)
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, email string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(email), data, 0).Err()
}

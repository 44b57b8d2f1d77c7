package repository

import (
	"context"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// ProductCatalog re-résout les produits (prix, poids, tarif douanier,
// catégorie) depuis le keyspace products — utilisé par le recalcul de panier
type ProductCatalog struct{}

func NewProductCatalog() *ProductCatalog {
	return &ProductCatalog{}
}

func (c *ProductCatalog) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrNotFound
	}

	var p models.Product
	var tariffName, categoryName string
	err = session.Query(`SELECT product_id, name, price, stock, weight, tariff_id, tariff_name, tariff_rate, category_id, category_name
		FROM products WHERE product_id = ?`, gocql.UUID(pid)).
		WithContext(ctx).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Weight,
		&p.TariffID, &tariffName, &p.TariffRate, &p.CategoryID, &categoryName)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.TariffName = tariffName
	p.CategoryName = categoryName
	return &p, nil
}

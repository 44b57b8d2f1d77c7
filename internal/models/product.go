package models

import (
	"github.com/gocql/gocql"
)

// Product tel que stocké dans le keyspace produits (ScyllaDB), avec les
// références tarif/catégorie nécessaires au calcul de prix
type Product struct {
	ID           gocql.UUID `json:"id" db:"product_id"`
	Name         string     `json:"name" db:"name"`
	Price        float64    `json:"price" db:"price"`
	Stock        int        `json:"stock" db:"stock"`
	Weight       float64    `json:"weight" db:"weight"` // en kg
	TariffID     gocql.UUID `json:"tariff_id" db:"tariff_id"`
	TariffName   string     `json:"tariff_name" db:"tariff_name"`
	TariffRate   float64    `json:"tariff_rate" db:"tariff_rate"`
	CategoryID   gocql.UUID `json:"category_id" db:"category_id"`
	CategoryName string     `json:"category_name" db:"category_name"`
	ImageURLs    []string   `json:"image_urls" db:"image_urls"`
	IsActive     bool       `json:"is_active" db:"is_active"`
}

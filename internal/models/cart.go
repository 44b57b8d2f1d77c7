package models

// Tariff est le taux de douane appliqué à un produit (par pays d'origine)
type Tariff struct {
	ID   string  `bson:"id" json:"id"`
	Name string  `bson:"name,omitempty" json:"name,omitempty"`
	Rate float64 `bson:"rate" json:"rate"` // en pourcentage (ex: 10 pour 10%)
}

type Category struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name,omitempty" json:"name,omitempty"`
}

// CartItem est une ligne de panier telle que servie par le sous-service panier :
// les sous-objets tarif/catégorie sont encore complets
type CartItem struct {
	ProductID       string    `bson:"product_id" json:"productId"`
	Name            string    `bson:"name" json:"name"`
	Quantity        int       `bson:"quantity" json:"quantity"`
	UnitPrice       float64   `bson:"unit_price" json:"unitPrice"`
	AggregatedPrice Money     `bson:"aggregated_price" json:"aggregatedPrice"`
	WeightKg        float64   `bson:"weight_kg" json:"weightKg"`
	Tariff          *Tariff   `bson:"tariff,omitempty" json:"tariff,omitempty"`
	Category        *Category `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL        string    `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
}

// CheckoutItem est la forme de stockage d'une ligne : tarif et catégorie
// réduits à leurs identifiants
type CheckoutItem struct {
	ProductID       string  `bson:"product_id" json:"productId"`
	Name            string  `bson:"name" json:"name"`
	Quantity        int     `bson:"quantity" json:"quantity"`
	UnitPrice       float64 `bson:"unit_price" json:"unitPrice"`
	AggregatedPrice Money   `bson:"aggregated_price" json:"aggregatedPrice"`
	WeightKg        float64 `bson:"weight_kg" json:"weightKg"`
	TariffID        string  `bson:"tariff_id,omitempty" json:"tariffId,omitempty"`
	CategoryID      string  `bson:"category_id,omitempty" json:"categoryId,omitempty"`
}

// Cart est le panier brut retourné par le sous-service panier
type Cart struct {
	UserEmail     string     `bson:"user_email" json:"userEmail"`
	Items         []CartItem `bson:"items" json:"items"`
	SubTotalPrice Money      `bson:"sub_total_price" json:"subTotalPrice"`
}

// PricedCart est l'instantané de panier embarqué dans Checkout/Order,
// avec les totaux agrégés calculés
type PricedCart struct {
	Items         []CheckoutItem `bson:"items" json:"items"`
	SubTotalPrice Money          `bson:"sub_total_price" json:"subTotalPrice"`
	TariffPrice   Money          `bson:"tariff_price" json:"tariffPrice"`
	ShippingPrice Money          `bson:"shipping_price" json:"shippingPrice"`
	ServiceCharge Money          `bson:"service_charge" json:"serviceCharge"`
	TotalPrice    Money          `bson:"total_price" json:"totalPrice"`
}

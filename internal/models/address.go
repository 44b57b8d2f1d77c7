package models

// Address est une adresse du profil utilisateur (table ScyllaDB `addresses`),
// embarquée telle quelle comme adresse de livraison dans Checkout/Order
type Address struct {
	ID         string `json:"id" bson:"id"`
	UserID     string `json:"userId" bson:"user_id"`
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
	IsDefault  bool   `json:"isDefault" bson:"is_default"`
}

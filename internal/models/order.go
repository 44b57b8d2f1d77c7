package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order est l'enregistrement durable : instantané structurel du Checkout
// au moment de la complétion, jamais re-fusionné dans un checkout
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OverallStatus  string             `bson:"overall_status" json:"overallStatus"`
	UserEmail      string             `bson:"user_email" json:"userEmail"`
	MailingAddress Address            `bson:"mailing_address" json:"mailingAddress"`
	ShippingMethod string             `bson:"shipping_method" json:"shippingMethod"`
	Cart           PricedCart         `bson:"cart" json:"cart"`
	PaymentInfo    []PaymentInfo      `bson:"payment_info" json:"paymentInfo"`
	Audit          AuditLog           `bson:"audit_log" json:"auditLog"`
}

// OrderFromCheckout clone un checkout en commande (statut RECEIVED, nouvel id)
func OrderFromCheckout(ck Checkout) Order {
	return Order{
		ID:             primitive.NewObjectID(),
		OverallStatus:  StatusReceived,
		UserEmail:      ck.UserEmail,
		MailingAddress: ck.MailingAddress,
		ShippingMethod: ck.ShippingMethod,
		Cart:           ck.Cart,
		PaymentInfo:    append([]PaymentInfo(nil), ck.PaymentInfo...),
		Audit:          ck.Audit,
	}
}

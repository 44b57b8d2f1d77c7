package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const StatusReceived = "RECEIVED"

// AuditLog trace qui a créé/modifié l'enregistrement et quand
type AuditLog struct {
	CreatedBy string    `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedBy string    `bson:"updated_by" json:"updatedBy"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Checkout est un achat en cours : enregistrement transitoire, au plus un
// actif par utilisateur. Supprimé une fois converti en Order
type Checkout struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OverallStatus  string             `bson:"overall_status" json:"overallStatus"`
	UserEmail      string             `bson:"user_email" json:"userEmail"`
	MailingAddress Address            `bson:"mailing_address" json:"mailingAddress"`
	ShippingMethod string             `bson:"shipping_method" json:"shippingMethod"`
	Cart           PricedCart         `bson:"cart" json:"cart"`
	PaymentInfo    []PaymentInfo      `bson:"payment_info" json:"paymentInfo"`
	Audit          AuditLog           `bson:"audit_log" json:"auditLog"`
}

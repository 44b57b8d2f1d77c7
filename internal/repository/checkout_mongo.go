package repository

import (
	"context"
	"errors"

	"velora_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CheckoutRepo persiste les checkouts (collection `checkouts`)
type CheckoutRepo struct {
	col *mongo.Collection
}

func NewCheckoutRepo(db *mongo.Database) *CheckoutRepo {
	return &CheckoutRepo{col: db.Collection("checkouts")}
}

func (r *CheckoutRepo) Insert(ctx context.Context, ck *models.Checkout) error {
	if ck.ID.IsZero() {
		ck.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, ck)
	return err
}

func (r *CheckoutRepo) FindByIDAndEmail(ctx context.Context, id, email string) (*models.Checkout, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var ck models.Checkout
	err = r.col.FindOne(ctx, bson.M{"_id": oid, "user_email": email}).Decode(&ck)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ck, nil
}

// FindByPayment retrouve un checkout par (source, payment_id) d'une de ses
// tentatives de paiement — chemin des callbacks asynchrones
func (r *CheckoutRepo) FindByPayment(ctx context.Context, source models.PaymentSource, paymentID string) (*models.Checkout, error) {
	filter := bson.M{
		"payment_info": bson.M{
			"$elemMatch": bson.M{
				"source":     source,
				"payment_id": paymentID,
			},
		},
	}

	var ck models.Checkout
	err := r.col.FindOne(ctx, filter).Decode(&ck)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ck, nil
}

func (r *CheckoutRepo) Update(ctx context.Context, ck *models.Checkout) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": ck.ID}, ck)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByEmail purge tous les checkouts d'un utilisateur (invariant : au
// plus un actif, garanti par purge-puis-insertion)
func (r *CheckoutRepo) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"user_email": email})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *CheckoutRepo) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

package repository

import (
	"context"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// UserRepo lit les utilisateurs et leurs adresses depuis le keyspace users
// (ScyllaDB)
type UserRepo struct{}

func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	var (
		userID              gocql.UUID
		emailDB, name, role string
	)
	err = session.Query(`SELECT user_id, email, name, role FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx).Scan(&userID, &emailDB, &name, &role)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:    userID.String(),
		Email: emailDB,
		Name:  name,
		Role:  role,
	}, nil
}

func (r *UserRepo) GetAddress(ctx context.Context, addressID string) (*models.Address, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	addrUUID, err := uuid.Parse(addressID)
	if err != nil {
		return nil, ErrNotFound
	}

	var (
		id, userID                        gocql.UUID
		street, city, postalCode, country string
		isDefault                         bool
	)
	err = session.Query(`SELECT address_id, user_id, street, city, postal_code, country, is_default
		FROM addresses WHERE address_id = ?`, gocql.UUID(addrUUID)).
		WithContext(ctx).Scan(&id, &userID, &street, &city, &postalCode, &country, &isDefault)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &models.Address{
		ID:         id.String(),
		UserID:     userID.String(),
		Street:     street,
		City:       city,
		PostalCode: postalCode,
		Country:    country,
		IsDefault:  isDefault,
	}, nil
}

// ListAddresses retourne les adresses du profil d'un utilisateur
func (r *UserRepo) ListAddresses(ctx context.Context, ownerID string) ([]models.Address, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT address_id, user_id, street, city, postal_code, country, is_default
		FROM addresses WHERE user_id = ? ALLOW FILTERING`, ownerID).
		WithContext(ctx).Iter()

	var results []models.Address
	var (
		id, userID                        gocql.UUID
		street, city, postalCode, country string
		isDefault                         bool
	)
	for iter.Scan(&id, &userID, &street, &city, &postalCode, &country, &isDefault) {
		results = append(results, models.Address{
			ID:         id.String(),
			UserID:     userID.String(),
			Street:     street,
			City:       city,
			PostalCode: postalCode,
			Country:    country,
			IsDefault:  isDefault,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

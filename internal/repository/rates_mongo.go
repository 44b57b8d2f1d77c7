package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"velora_back_end/internal/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const rateCacheTTL = 10 * time.Minute

// ExchangeRateRepo sert les taux USD → devise locale depuis la collection
// `exchange_rates`, avec un cache Redis court devant
type ExchangeRateRepo struct {
	col *mongo.Collection
	rdb *redis.Client
}

func NewExchangeRateRepo(db *mongo.Database, rdb *redis.Client) *ExchangeRateRepo {
	return &ExchangeRateRepo{col: db.Collection("exchange_rates"), rdb: rdb}
}

func (r *ExchangeRateRepo) GetRate(ctx context.Context, currency string) (*models.ExchangeRate, error) {
	key := "rate:" + currency

	// 1. Essayer le cache Redis
	if r.rdb != nil {
		if data, err := r.rdb.Get(ctx, key).Result(); err == nil {
			var rate models.ExchangeRate
			if json.Unmarshal([]byte(data), &rate) == nil {
				return &rate, nil
			}
		}
	}

	// 2. Lire depuis MongoDB
	var rate models.ExchangeRate
	err := r.col.FindOne(ctx, bson.M{"currency": currency}).Decode(&rate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// 3. Remettre en cache (best-effort)
	if r.rdb != nil {
		if data, err := json.Marshal(rate); err == nil {
			if err := r.rdb.Set(ctx, key, data, rateCacheTTL).Err(); err != nil {
				log.Printf("⚠️ Cache taux %s non écrit: %v", currency, err)
			}
		}
	}

	return &rate, nil
}

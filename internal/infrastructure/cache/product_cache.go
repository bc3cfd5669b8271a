package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/pkg/config"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// ProductCache caché read-through de productos sobre Redis, indexado por ID.
// Es estrictamente opcional: un *ProductCache nil es seguro y se comporta
// como caché vacío, así que la aplicación funciona igual sin Redis.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewProductCache conecta a Redis y verifica con PING. Devuelve error si la
// conexión falla; el caller decide si seguir sin caché.
func NewProductCache(cfg config.RedisConfig, log *logger.Logger) (*ProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ProductCache{client: client, ttl: cfg.TTL, log: log}, nil
}

func (c *ProductCache) key(productID string) string {
	return "product:" + productID
}

// Get busca el producto en caché. (nil, false) en miss o error: los fallos
// de Redis nunca rompen una lectura, solo la degradan a la DB.
func (c *ProductCache) Get(ctx context.Context, productID string) (*entity.Product, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.key(productID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("product_id", productID).Msg("caché: fallo en GET")
		}
		return nil, false
	}
	var p entity.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warn().Err(err).Str("product_id", productID).Msg("caché: entrada corrupta, se descarta")
		c.Invalidate(ctx, productID)
		return nil, false
	}
	return &p, true
}

// Set guarda el producto con TTL. Best effort.
func (c *ProductCache) Set(ctx context.Context, product *entity.Product) {
	if c == nil || product == nil {
		return
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(product.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("product_id", product.ID).Msg("caché: fallo en SET")
	}
}

// Invalidate elimina la entrada del producto. Se llama tras cada escritura
// que toca el producto (update, delete, movimientos de stock).
func (c *ProductCache) Invalidate(ctx context.Context, productID string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(productID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("product_id", productID).Msg("caché: fallo en DEL")
	}
}

// Close cierra la conexión a Redis.
func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

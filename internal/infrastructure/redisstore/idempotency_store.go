// Package redisstore guarda en Redis el estado de las claves de idempotencia.
//
// Cada clave vive en {prefix}:{scope}:{key} como JSON. Mientras la petición
// original está en curso el registro queda en estado pending; al terminar con
// éxito se reemplaza por la respuesta completa, que se reenvía en los reintentos.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/fluxa-api/pkg/config"
)

// Estados de un registro.
const (
	StatePending   = "pending"
	StateCompleted = "completed"
)

const (
	defaultKeyPrefix = "fluxa:idempotency"
	defaultTTL       = 24 * time.Hour
)

// Record respuesta asociada a una clave de idempotencia.
type Record struct {
	State       string `json:"state"`
	Fingerprint string `json:"fingerprint"` // hash del cuerpo de la petición original
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// IdempotencyStore claves de idempotencia sobre Redis.
type IdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewClient crea el cliente a partir de la configuración.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewIdempotencyStore ttl <= 0 usa 24h; keyPrefix vacío usa "fluxa:idempotency".
func NewIdempotencyStore(client *redis.Client, keyPrefix string, ttl time.Duration) *IdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &IdempotencyStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *IdempotencyStore) key(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.keyPrefix, scope, key)
}

// Begin reserva la clave con SETNX. Si ya existía devuelve (registro existente, false).
// acquired=true significa que quien llama debe procesar la petición y luego llamar Complete o Release.
func (s *IdempotencyStore) Begin(ctx context.Context, scope, key, fingerprint string) (existing *Record, acquired bool, err error) {
	pending, err := json.Marshal(Record{State: StatePending, Fingerprint: fingerprint, CreatedAt: time.Now().Unix()})
	if err != nil {
		return nil, false, fmt.Errorf("serializar registro: %w", err)
	}
	k := s.key(scope, key)

	// Dos intentos: la clave puede expirar entre SETNX y GET.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, pending, s.ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("reservar clave de idempotencia: %w", err)
		}
		if ok {
			return nil, true, nil
		}
		raw, err := s.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("leer clave de idempotencia: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, false, fmt.Errorf("deserializar registro: %w", err)
		}
		return &rec, false, nil
	}
	return nil, false, fmt.Errorf("reservar clave de idempotencia: clave inestable %q", key)
}

// Complete guarda la respuesta final para reenviarla a los reintentos.
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key string, rec Record) error {
	rec.State = StateCompleted
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("serializar registro: %w", err)
	}
	if err := s.client.Set(ctx, s.key(scope, key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("completar clave de idempotencia: %w", err)
	}
	return nil
}

// Release libera la clave para que un reintento vuelva a procesarse.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, s.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("liberar clave de idempotencia: %w", err)
	}
	return nil
}

// Ping comprueba la conexión.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

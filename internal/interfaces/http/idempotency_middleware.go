package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	"github.com/jhoicas/fluxa-api/internal/infrastructure/redisstore"
)

// Cabeceras de idempotencia.
const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 255
)

// IdempotencyStore contrato que necesita el middleware; lo implementa *redisstore.IdempotencyStore.
type IdempotencyStore interface {
	Begin(ctx context.Context, scope, key, fingerprint string) (*redisstore.Record, bool, error)
	Complete(ctx context.Context, scope, key string, rec redisstore.Record) error
	Release(ctx context.Context, scope, key string) error
}

// Idempotency reenvía la respuesta original cuando un cliente repite una petición
// con la misma Idempotency-Key. Debe usarse DESPUÉS de AuthMiddleware: la clave
// se aísla por usuario y ruta.
//
// Comportamiento:
//   - Sin cabecera, o store nil → la petición pasa sin cambios.
//   - Clave completada con 2xx → se reenvía con Idempotent-Replayed: true.
//   - Clave en curso → 409 IDEMPOTENCY_IN_PROGRESS.
//   - Misma clave con otro cuerpo → 422 IDEMPOTENCY_KEY_MISMATCH.
//   - Respuesta no 2xx → la clave se libera para permitir el reintento.
//   - Redis caído → se registra y la petición sigue sin protección.
func Idempotency(store IdempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil {
			return c.Next()
		}
		key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLength {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: HeaderIdempotencyKey + " admite como máximo 255 caracteres",
			})
		}

		log := requestLogger(c)
		ctx := c.UserContext()
		scope := strconv.FormatInt(GetUserID(c), 10) + ":" + c.Method() + ":" + c.Path()
		sum := sha256.Sum256(c.Body())
		fingerprint := hex.EncodeToString(sum[:])

		existing, acquired, err := store.Begin(ctx, scope, key, fingerprint)
		if err != nil {
			log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotencia no disponible, se procesa sin protección")
			return c.Next()
		}
		if !acquired {
			switch {
			case existing.Fingerprint != fingerprint:
				return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
					Code:    "IDEMPOTENCY_KEY_MISMATCH",
					Message: "la clave de idempotencia ya se usó con otro cuerpo",
				})
			case existing.State != redisstore.StateCompleted:
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
					Code:    "IDEMPOTENCY_IN_PROGRESS",
					Message: "hay una petición en curso con esta clave de idempotencia",
				})
			}
			c.Set(HeaderIdempotentReplayed, "true")
			if existing.ContentType != "" {
				c.Set(fiber.HeaderContentType, existing.ContentType)
			}
			return c.Status(existing.Status).Send(existing.Body)
		}

		if chainErr := c.Next(); chainErr != nil {
			release(ctx, store, scope, key, c)
			return chainErr
		}

		status := c.Response().StatusCode()
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			release(ctx, store, scope, key, c)
			return nil
		}
		rec := redisstore.Record{
			Fingerprint: fingerprint,
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Complete(ctx, scope, key, rec); err != nil {
			log.Warn().Err(err).Str("idempotency_key", key).Msg("no se pudo guardar la respuesta idempotente")
		}
		return nil
	}
}

func release(ctx context.Context, store IdempotencyStore, scope, key string, c *fiber.Ctx) {
	if err := store.Release(ctx, scope, key); err != nil {
		requestLogger(c).Warn().Err(err).Str("idempotency_key", key).Msg("no se pudo liberar la clave de idempotencia")
	}
}

package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultKeyPrefix  = "inventario:lock:"
	defaultRetryEvery = 25 * time.Millisecond
	releaseTimeout    = 2 * time.Second
)

// Solo borra la llave si sigue siendo del dueño del token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker bloqueo por llave compartido entre instancias (SET NX PX). El TTL acota cuánto
// puede quedar tomada una llave si el proceso muere con el bloqueo.
type RedisLocker struct {
	client     redis.UniversalClient
	ttl        time.Duration
	retryEvery time.Duration
	prefix     string
	log        zerolog.Logger
}

// NewRedisLocker construye el locker. ttl debe cubrir la duración de una transacción de inventario.
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *RedisLocker {
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		retryEvery: defaultRetryEvery,
		prefix:     defaultKeyPrefix,
		log:        log.With().Str("component", "redis_locker").Logger(),
	}
}

// Lock bloquea todas las llaves o ninguna, reintentando hasta que ctx termine.
func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	token := uuid.NewString()
	keys = normalize(keys)
	held := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := l.acquire(ctx, l.prefix+k, token); err != nil {
			l.release(held, token)
			return nil, err
		}
		held = append(held, l.prefix+k)
	}
	var once sync.Once
	return func() {
		once.Do(func() { l.release(held, token) })
	}, nil
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.retryEvery)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("redis setnx %s: %w", key, err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// release usa un contexto propio: el del request puede estar cancelado.
func (l *RedisLocker) release(keys []string, token string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	for _, k := range keys {
		err := releaseScript.Run(ctx, l.client, []string{k}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			l.log.Error().Err(err).Str("key", k).Msg("no se pudo liberar el bloqueo")
		}
	}
}

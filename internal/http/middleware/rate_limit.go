package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/ignatzorin/projexnest-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
)

const rateLimitPrefix = "projexnest:ratelimit"

// NewRateLimitStore возвращает redis хранилище счётчиков, если задан redisURL,
// иначе хранилище в памяти процесса.
func NewRateLimitStore(ctx context.Context, redisURL string) (limiter.Store, func() error, error) {
	if redisURL == "" {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix}), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("middleware: некорректный REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("middleware: redis недоступен: %w", err)
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitPrefix})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("middleware: не удалось создать redis store: %w", err)
	}
	return store, client.Close, nil
}

// RateLimitMiddleware ограничивает количество запросов с одного IP.
// При ошибке хранилища запрос пропускается.
func RateLimitMiddleware(store limiter.Store, limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = time.Minute
	}

	instance := limiter.New(store, limiter.Rate{Period: period, Limit: limit})
	log := logger.Component("rate_limit")

	return func(c *gin.Context) {
		lctx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Недоступное хранилище счётчиков не блокирует подписание.
			log.WithError(err).Warn("не удалось проверить лимит запросов")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", lctx.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", lctx.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", lctx.Reset))

		if lctx.Reached {
			response.TooManyRequests(c, "слишком много запросов, попробуйте позже")
			return
		}

		c.Next()
	}
}

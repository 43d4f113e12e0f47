package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/erp/clerkfeed/internal/domain/commerce"
	"github.com/erp/clerkfeed/internal/domain/shared/valueobject"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultChannelKeyPrefix = "clerkfeed:channel:"
	defaultChannelTTL       = 5 * time.Minute
)

// cachedChannel is the stored form of a channel
type cachedChannel struct {
	ID            uint64 `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Hostname      string `json:"hostname"`
	DefaultLocale string `json:"default_locale"`
	BaseCurrency  string `json:"base_currency"`
	Enabled       bool   `json:"enabled"`
}

// CachedChannelRepository serves channel lookups from Redis in front of another repository.
// Every crawl of every entity type resolves the channel first, so hits save a query per request.
// Redis failures degrade to the wrapped repository; unknown channels are never cached.
type CachedChannelRepository struct {
	next      commerce.ChannelRepository
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// ChannelCacheOption configures a CachedChannelRepository
type ChannelCacheOption func(*CachedChannelRepository)

// WithTTL sets how long a channel stays cached
func WithTTL(ttl time.Duration) ChannelCacheOption {
	return func(r *CachedChannelRepository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithKeyPrefix sets the Redis key prefix
func WithKeyPrefix(prefix string) ChannelCacheOption {
	return func(r *CachedChannelRepository) {
		if prefix != "" {
			r.keyPrefix = prefix
		}
	}
}

// WithLogger sets the logger used for cache failures
func WithLogger(logger *zap.Logger) ChannelCacheOption {
	return func(r *CachedChannelRepository) {
		r.logger = logger
	}
}

// NewCachedChannelRepository wraps next with a Redis cache.
// A nil client disables caching.
func NewCachedChannelRepository(next commerce.ChannelRepository, client *redis.Client, opts ...ChannelCacheOption) *CachedChannelRepository {
	r := &CachedChannelRepository{
		next:      next,
		client:    client,
		ttl:       defaultChannelTTL,
		keyPrefix: defaultChannelKeyPrefix,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindByID implements commerce.ChannelRepository
func (r *CachedChannelRepository) FindByID(ctx context.Context, id uint64) (*commerce.Channel, error) {
	if r.client == nil {
		return r.next.FindByID(ctx, id)
	}

	key := r.key(id)
	if ch, ok := r.get(ctx, key); ok {
		return ch, nil
	}

	ch, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, key, ch)
	return ch, nil
}

// Invalidate drops a cached channel
func (r *CachedChannelRepository) Invalidate(ctx context.Context, id uint64) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, r.key(id)).Err()
}

func (r *CachedChannelRepository) key(id uint64) string {
	return r.keyPrefix + strconv.FormatUint(id, 10)
}

func (r *CachedChannelRepository) get(ctx context.Context, key string) (*commerce.Channel, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("channel cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var cached cachedChannel
	if err := json.Unmarshal(data, &cached); err != nil {
		r.logger.Warn("discarding malformed cached channel", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &commerce.Channel{
		ID:            cached.ID,
		Code:          cached.Code,
		Name:          cached.Name,
		Hostname:      cached.Hostname,
		DefaultLocale: cached.DefaultLocale,
		BaseCurrency:  valueobject.Currency(cached.BaseCurrency),
		Enabled:       cached.Enabled,
	}, true
}

func (r *CachedChannelRepository) set(ctx context.Context, key string, ch *commerce.Channel) {
	data, err := json.Marshal(cachedChannel{
		ID:            ch.ID,
		Code:          ch.Code,
		Name:          ch.Name,
		Hostname:      ch.Hostname,
		DefaultLocale: ch.DefaultLocale,
		BaseCurrency:  string(ch.BaseCurrency),
		Enabled:       ch.Enabled,
	})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("channel cache write failed", zap.String("key", key), zap.Error(err))
	}
}

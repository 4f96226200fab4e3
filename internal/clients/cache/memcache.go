package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/logger"
)

const (
	defaultBase = 10
	keyPrefix   = "session:"

	// memcached reads larger expirations as absolute unix times.
	maxRelativeExpiration = 30 * 24 * time.Hour
)

var ErrTTLTooLong = errors.New("session ttl exceeds memcached's 30 day relative expiration")

type itemStore interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Delete(key string) error
}

// SessionCache keeps conversation sessions in memcached so that every bot
// instance behind the webhook sees the same selection.
type SessionCache struct {
	client itemStore
	ttl    time.Duration
}

type config interface {
	Hosts() []string
}

func NewSessionCache(config config, ttl time.Duration) (*SessionCache, error) {
	if len(config.Hosts()) == 0 {
		return nil, errors.New("no memcached hosts configured")
	}
	if ttl > maxRelativeExpiration {
		return nil, errors.Wrapf(ErrTTLTooLong, "ttl %s", ttl)
	}
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	if err := mc.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping memcached")
	}
	return &SessionCache{client: mc, ttl: ttl}, nil
}

// expirationSeconds rounds partial seconds up, since 0 means no expiry.
func expirationSeconds(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl > maxRelativeExpiration {
		ttl = maxRelativeExpiration
	}
	return int32((ttl + time.Second - 1) / time.Second)
}

func formatKey(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, defaultBase)
}

func (c *SessionCache) SetCategory(_ context.Context, chatID int64, key string) error {
	logger.Debug("cache session", zap.Int64("chatID", chatID), zap.String("category", key))
	err := c.client.Set(&memcache.Item{
		Key:        formatKey(chatID),
		Value:      []byte(key),
		Expiration: expirationSeconds(c.ttl),
	})
	return errors.Wrap(err, "set session")
}

func (c *SessionCache) GetCategory(_ context.Context, chatID int64) (string, bool, error) {
	item, err := c.client.Get(formatKey(chatID))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "get session")
	}
	return string(item.Value), true, nil
}

func (c *SessionCache) Clear(_ context.Context, chatID int64) error {
	logger.Debug("invalidate session", zap.Int64("chatID", chatID))
	err := c.client.Delete(formatKey(chatID))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return errors.Wrap(err, "clear session")
	}
	return nil
}

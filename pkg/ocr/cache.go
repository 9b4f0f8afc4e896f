package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

type Cache interface {
	SetCache(ctx context.Context, key string, value string, expiration time.Duration) error
	GetCache(ctx context.Context, key string) (string, bool, error)
}

// CachedEngine memoises results by content hash. Cache failures are logged
// and fall through to the wrapped engine.
type CachedEngine struct {
	engine Engine
	cache  Cache
	ttl    time.Duration
	log    *logrus.Logger
}

func NewCachedEngine(engine Engine, cache Cache, ttl time.Duration, log *logrus.Logger) *CachedEngine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CachedEngine{engine: engine, cache: cache, ttl: ttl, log: log}
}

func (c *CachedEngine) Name() string {
	return c.engine.Name()
}

func (c *CachedEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	key := CacheKey(c.engine.Name(), input.Data)

	if raw, ok, err := c.cache.GetCache(ctx, key); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("ocr cache lookup failed")
	} else if ok {
		var cached Result
		if err := jsoniter.UnmarshalFromString(raw, &cached); err == nil {
			return cached, nil
		}
		c.log.WithField("key", key).Warn("discarding unreadable ocr cache entry")
	}

	result, err := c.engine.Recognize(ctx, input)
	if err != nil {
		return Result{}, err
	}

	if raw, err := jsoniter.MarshalToString(result); err == nil {
		if err := c.cache.SetCache(ctx, key, raw, c.ttl); err != nil {
			c.log.WithError(err).WithField("key", key).Warn("ocr cache store failed")
		}
	}

	return result, nil
}

func CacheKey(engine string, data []byte) string {
	sum := sha256.Sum256(data)
	return "ocr:" + engine + ":" + hex.EncodeToString(sum[:])
}

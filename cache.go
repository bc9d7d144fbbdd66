package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	tweetCacheKey = "tweets:all"
	tweetCacheTTL = 30 * time.Second
)

// TweetCache is an optional Redis-backed cache for the tweet list. A nil
// *TweetCache is valid and behaves as a permanent miss, so the server runs
// unchanged when no Redis address is configured.
type TweetCache struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewTweetCache(addr, password string, log *logrus.Logger) *TweetCache {
	if addr == "" {
		return nil
	}
	return &TweetCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		log: log,
	}
}

func (c *TweetCache) Connect(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *TweetCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func (c *TweetCache) Get(ctx context.Context) ([]TweetView, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, tweetCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warn("tweet cache read failed")
		}
		return nil, false
	}
	var tweets []TweetView
	if err := json.Unmarshal([]byte(raw), &tweets); err != nil {
		return nil, false
	}
	return tweets, true
}

func (c *TweetCache) Set(ctx context.Context, tweets []TweetView) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(tweets)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, tweetCacheKey, raw, tweetCacheTTL).Err(); err != nil {
		c.log.WithError(err).Warn("tweet cache write failed")
	}
}

func (c *TweetCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, tweetCacheKey).Err(); err != nil {
		c.log.WithError(err).Warn("tweet cache invalidation failed")
	}
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/port/cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	postKeyPrefix  = "post:"
	defaultPostTTL = 5 * time.Minute
)

// cachedPost is the stored form. It is kept apart from entity.Post so the
// API's JSON tags can change without invalidating what is already cached.
type cachedPost struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Source         string    `json:"source"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PostCache stores posts under "post:<id>" with a fixed TTL.
type PostCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

var _ cache.PostCache = (*PostCache)(nil)

func NewPostCache(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *PostCache {
	if ttl <= 0 {
		ttl = defaultPostTTL
	}
	return &PostCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("PostCache"),
	}
}

func postKey(postID string) string {
	return postKeyPrefix + postID
}

func (c *PostCache) Get(ctx context.Context, postID string) (*entity.Post, error) {
	key := postKey(postID)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrNotFound
		}
		return nil, fmt.Errorf("PostCache.Get %s: %w", key, err)
	}

	var cp cachedPost
	if err := json.Unmarshal(raw, &cp); err != nil || cp.ID != postID {
		c.logger.Warn("Dropping unreadable cache entry", zap.String("key", key), zap.Error(err))
		if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
			c.logger.Warn("Failed to delete unreadable cache entry", zap.String("key", key), zap.Error(delErr))
		}
		return nil, cache.ErrNotFound
	}

	return &entity.Post{
		ID:             cp.ID,
		Title:          cp.Title,
		Body:           cp.Body,
		Source:         cp.Source,
		AuthorID:       cp.AuthorID,
		AuthorUsername: cp.AuthorUsername,
		CreatedAt:      cp.CreatedAt,
		UpdatedAt:      cp.UpdatedAt,
	}, nil
}

func (c *PostCache) Set(ctx context.Context, post *entity.Post) error {
	data, err := json.Marshal(cachedPost{
		ID:             post.ID,
		Title:          post.Title,
		Body:           post.Body,
		Source:         post.Source,
		AuthorID:       post.AuthorID,
		AuthorUsername: post.AuthorUsername,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("PostCache.Set: failed to encode post %s: %w", post.ID, err)
	}
	key := postKey(post.ID)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("PostCache.Set %s: %w", key, err)
	}
	c.logger.Debug("Post cached", zap.String("key", key), zap.Duration("ttl", c.ttl))
	return nil
}

func (c *PostCache) Delete(ctx context.Context, postID string) error {
	key := postKey(postID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("PostCache.Delete %s: %w", key, err)
	}
	return nil
}

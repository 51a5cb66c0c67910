package cache

import (
	"context"
	"errors"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
)

// ErrNotFound reports a cache miss. Unreadable entries are misses too.
var ErrNotFound = errors.New("post not found in cache")

// PostCache holds single posts, author name included, for read-through GetPost.
type PostCache interface {
	Get(ctx context.Context, postID string) (*entity.Post, error)
	Set(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, postID string) error
}

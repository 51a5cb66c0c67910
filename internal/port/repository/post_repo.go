package repository

import (
	"context"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id string) error
	// List returns one page ordered by created_at descending. Every keyword must
	// match the title, body or source (case-insensitive).
	List(ctx context.Context, page, pageSize int, keywords []string) ([]*entity.Post, int, error)
	BackfillSource(ctx context.Context, source string) (int64, error)
}

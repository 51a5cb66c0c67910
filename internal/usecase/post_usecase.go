package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/platform/metrics"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/port/cache"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	DefaultPage  = 1
	DefaultLimit = 9
	maxLimit     = 100
	// maxPage keeps (page-1)*limit far from integer overflow.
	maxPage = 1_000_000
)

type PostEventPublisher interface {
	PublishPostCreated(ctx context.Context, post *entity.Post) error
	PublishPostUpdated(ctx context.Context, post *entity.Post) error
	PublishPostDeleted(ctx context.Context, postID string) error
}

type PostUseCase struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	cache     cache.PostCache
	publisher PostEventPublisher
	metrics   *metrics.MetricsManager
	logger    *zap.Logger
	now       func() time.Time
}

func NewPostUseCase(
	pr repository.PostRepository,
	ur repository.UserRepository,
	pc cache.PostCache,
	pub PostEventPublisher,
	mm *metrics.MetricsManager,
	log *zap.Logger,
) *PostUseCase {
	return &PostUseCase{
		postRepo:  pr,
		userRepo:  ur,
		cache:     pc,
		publisher: pub,
		metrics:   mm,
		logger:    log.Named("PostUseCase"),
		now:       time.Now,
	}
}

type CreatePostInput struct {
	Title  string
	Body   string
	Source string
}

// UpdatePostInput fields left empty keep their stored value.
type UpdatePostInput struct {
	Title  string
	Body   string
	Source string
}

type ListPostsInput struct {
	Page  int
	Limit int
	Query string
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type ListPostsOutput struct {
	Posts      []*entity.Post
	Pagination Pagination
}

func (uc *PostUseCase) CreatePost(ctx context.Context, author *entity.User, in CreatePostInput) (*entity.Post, error) {
	ctx, span := tracer.Start(ctx, "PostUseCase.CreatePost")
	defer span.End()

	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" || body == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrInvalidInput)
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = entity.DefaultPostSource
	}

	now := uc.now()
	post := &entity.Post{
		Title:          title,
		Body:           body,
		Source:         source,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	createdID, err := uc.postRepo.Create(ctx, post)
	if err != nil {
		uc.logger.Error("Failed to create post in repository", zap.Error(err), zap.String("author_id", author.ID))
		failSpan(span, err)
		return nil, fmt.Errorf("PostUseCase.CreatePost: failed to create post in repo: %w", err)
	}
	post.ID = createdID
	uc.metrics.IncPostsCreated()

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishPostCreated(ctx, post); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for post created",
				zap.Error(errPub),
				zap.String("post_id", post.ID),
			)
		}
	}
	return post, nil
}

func (uc *PostUseCase) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	ctx, span := tracer.Start(ctx, "PostUseCase.GetPost")
	defer span.End()

	if !primitive.IsValidObjectID(id) {
		return nil, ErrInvalidID
	}

	if post := uc.getCached(ctx, id); post != nil {
		return post, nil
	}

	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		uc.logger.Error("Failed to get post by ID from repository", zap.Error(err), zap.String("post_id", id))
		failSpan(span, err)
		return nil, fmt.Errorf("PostUseCase.GetPost: failed to get post from repo: %w", err)
	}
	uc.attachAuthors(ctx, []*entity.Post{post})
	uc.setCached(ctx, post)
	return post, nil
}

// ListPosts returns one page of posts, newest first. A non-empty Query keeps
// only posts that match every whitespace-separated keyword.
func (uc *PostUseCase) ListPosts(ctx context.Context, in ListPostsInput) (*ListPostsOutput, error) {
	ctx, span := tracer.Start(ctx, "PostUseCase.ListPosts")
	defer span.End()

	page, limit := in.Page, in.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page > maxPage {
		page = maxPage
	}
	keywords := strings.Fields(in.Query)

	posts, total, err := uc.postRepo.List(ctx, page, limit, keywords)
	if err != nil {
		uc.logger.Error("Failed to list posts from repository", zap.Error(err), zap.Strings("keywords", keywords))
		failSpan(span, err)
		return nil, fmt.Errorf("PostUseCase.ListPosts: failed to list posts from repo: %w", err)
	}
	uc.attachAuthors(ctx, posts)

	totalPages := (total + limit - 1) / limit
	return &ListPostsOutput{
		Posts: posts,
		Pagination: Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalPosts:  total,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
	}, nil
}

func (uc *PostUseCase) SearchPosts(ctx context.Context, query string, page, limit int) (*ListPostsOutput, error) {
	return uc.ListPosts(ctx, ListPostsInput{Page: page, Limit: limit, Query: query})
}

func (uc *PostUseCase) loadOwned(ctx context.Context, user *entity.User, id string) (*entity.Post, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, ErrInvalidID
	}
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post from repo: %w", err)
	}
	if !post.IsAuthoredBy(user.ID) {
		return nil, ErrForbidden
	}
	return post, nil
}

func (uc *PostUseCase) UpdatePost(ctx context.Context, user *entity.User, id string, in UpdatePostInput) (*entity.Post, error) {
	ctx, span := tracer.Start(ctx, "PostUseCase.UpdatePost")
	defer span.End()

	post, err := uc.loadOwned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.Title); v != "" {
		post.Title = v
	}
	if v := strings.TrimSpace(in.Body); v != "" {
		post.Body = v
	}
	if v := strings.TrimSpace(in.Source); v != "" {
		post.Source = v
	}
	post.UpdatedAt = uc.now()

	if err := uc.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		uc.logger.Error("Failed to update post in repository", zap.Error(err), zap.String("post_id", id))
		failSpan(span, err)
		return nil, fmt.Errorf("PostUseCase.UpdatePost: failed to update post in repo: %w", err)
	}
	post.AuthorUsername = user.Username
	uc.invalidate(ctx, id)
	uc.metrics.IncPostUpdates()

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishPostUpdated(ctx, post); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for post updated",
				zap.Error(errPub),
				zap.String("post_id", post.ID),
			)
		}
	}
	return post, nil
}

func (uc *PostUseCase) DeletePost(ctx context.Context, user *entity.User, id string) error {
	ctx, span := tracer.Start(ctx, "PostUseCase.DeletePost")
	defer span.End()

	if _, err := uc.loadOwned(ctx, user, id); err != nil {
		return err
	}

	if err := uc.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		uc.logger.Error("Failed to delete post from repository", zap.Error(err), zap.String("post_id", id))
		failSpan(span, err)
		return fmt.Errorf("PostUseCase.DeletePost: failed to delete post from repo: %w", err)
	}
	uc.invalidate(ctx, id)
	uc.metrics.IncPostDeletes()

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishPostDeleted(ctx, id); errPub != nil {
			uc.logger.Warn("Failed to publish NATS event for post deleted",
				zap.Error(errPub),
				zap.String("post_id", id),
			)
		}
	}
	return nil
}

// BackfillSource sets the default source on posts stored without one.
func (uc *PostUseCase) BackfillSource(ctx context.Context) (int64, error) {
	n, err := uc.postRepo.BackfillSource(ctx, entity.DefaultPostSource)
	if err != nil {
		return 0, fmt.Errorf("PostUseCase.BackfillSource: %w", err)
	}
	uc.logger.Info("Backfilled post source", zap.Int64("modified", n))
	return n, nil
}

// attachAuthors fills AuthorUsername. A lookup failure leaves names empty.
func (uc *PostUseCase) attachAuthors(ctx context.Context, posts []*entity.Post) {
	if len(posts) == 0 || uc.userRepo == nil {
		return
	}
	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}

	names, err := uc.userRepo.GetUsernames(ctx, ids)
	if err != nil {
		uc.logger.Warn("Failed to resolve post authors", zap.Error(err))
		return
	}
	for _, p := range posts {
		p.AuthorUsername = names[p.AuthorID]
	}
}

func (uc *PostUseCase) getCached(ctx context.Context, id string) *entity.Post {
	if uc.cache == nil {
		return nil
	}
	post, err := uc.cache.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("Failed to get post from cache (not a cache miss)", zap.Error(err), zap.String("post_id", id))
		}
		return nil
	}
	uc.logger.Debug("Post fetched from cache", zap.String("post_id", id))
	return post
}

func (uc *PostUseCase) setCached(ctx context.Context, post *entity.Post) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, post); err != nil {
		uc.logger.Warn("Failed to set post in cache", zap.Error(err), zap.String("post_id", post.ID))
	}
}

func (uc *PostUseCase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, id); err != nil {
		uc.logger.Warn("Failed to invalidate post cache", zap.Error(err), zap.String("post_id", id))
	}
}

package handler

import (
	"context"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/usecase"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) RequestSignupOTP(ctx context.Context, in usecase.SignupInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}
func (m *MockAuthService) VerifySignupOTP(ctx context.Context, email, code string) (*usecase.AuthResult, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*usecase.AuthResult, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}

type MockPostService struct{ mock.Mock }

func (m *MockPostService) CreatePost(ctx context.Context, author *entity.User, in usecase.CreatePostInput) (*entity.Post, error) {
	args := m.Called(ctx, author, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}
func (m *MockPostService) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}
func (m *MockPostService) ListPosts(ctx context.Context, in usecase.ListPostsInput) (*usecase.ListPostsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListPostsOutput), args.Error(1)
}
func (m *MockPostService) SearchPosts(ctx context.Context, query string, page, limit int) (*usecase.ListPostsOutput, error) {
	args := m.Called(ctx, query, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListPostsOutput), args.Error(1)
}
func (m *MockPostService) UpdatePost(ctx context.Context, user *entity.User, id string, in usecase.UpdatePostInput) (*entity.Post, error) {
	args := m.Called(ctx, user, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}
func (m *MockPostService) DeletePost(ctx context.Context, user *entity.User, id string) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/port/cache"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/port/repository"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) UpsertPending(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) MarkVerified(ctx context.Context, id, code string, at time.Time) error {
	args := m.Called(ctx, id, code, at)
	return args.Error(0)
}
func (m *MockUserRepository) GetUsernames(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockPostRepository struct{ mock.Mock }

func (m *MockPostRepository) Create(ctx context.Context, post *entity.Post) (string, error) {
	args := m.Called(ctx, post)
	return args.String(0), args.Error(1)
}
func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}
func (m *MockPostRepository) Update(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}
func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPostRepository) List(ctx context.Context, page, pageSize int, keywords []string) ([]*entity.Post, int, error) {
	args := m.Called(ctx, page, pageSize, keywords)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.Post), args.Int(1), args.Error(2)
}
func (m *MockPostRepository) BackfillSource(ctx context.Context, source string) (int64, error) {
	args := m.Called(ctx, source)
	return args.Get(0).(int64), args.Error(1)
}

type MockPostCache struct{ mock.Mock }

func (m *MockPostCache) Get(ctx context.Context, postID string) (*entity.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}
func (m *MockPostCache) Set(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}
func (m *MockPostCache) Delete(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

type MockOTPSender struct{ mock.Mock }

func (m *MockOTPSender) SendOTP(ctx context.Context, to, code string) error {
	args := m.Called(ctx, to, code)
	return args.Error(0)
}

type MockTokenManager struct{ mock.Mock }

func (m *MockTokenManager) Issue(userID string) (string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenManager) Parse(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type MockUserEventPublisher struct{ mock.Mock }

func (m *MockUserEventPublisher) PublishUserOTPRequested(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserEventPublisher) PublishUserVerified(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockPostEventPublisher struct{ mock.Mock }

func (m *MockPostEventPublisher) PublishPostCreated(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}
func (m *MockPostEventPublisher) PublishPostUpdated(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}
func (m *MockPostEventPublisher) PublishPostDeleted(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// memUserRepo mimics the Mongo upsert semantics closely enough for
// multi-step registration flows.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // by id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) find(match func(u *entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}
func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}
func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}
func (r *memUserRepo) GetByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == identifier || u.Username == identifier })
}

func (r *memUserRepo) UpsertPending(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email != user.Email {
			continue
		}
		if u.IsVerified {
			return repository.ErrDuplicateEmail
		}
		u.Username = user.Username
		u.Password = user.Password
		u.OTP = user.OTP
		u.OTPExpires = user.OTPExpires
		u.UpdatedAt = user.UpdatedAt
		user.ID = u.ID
		user.CreatedAt = u.CreatedAt
		return nil
	}
	cp := *user
	cp.ID = primitive.NewObjectID().Hex()
	r.users[cp.ID] = &cp
	user.ID = cp.ID
	return nil
}

func (r *memUserRepo) MarkVerified(_ context.Context, id, code string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if code != "" && (u.OTP != code || u.OTPExpires == nil || at.After(*u.OTPExpires)) {
		return repository.ErrNotFound
	}
	u.IsVerified = true
	u.OTP = ""
	u.OTPExpires = nil
	u.UpdatedAt = at
	return nil
}

func (r *memUserRepo) GetUsernames(_ context.Context, ids []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u.Username
		}
	}
	return out, nil
}

// interleavingUserRepo runs beforeRead ahead of every GetByEmail, which lets
// tests slip a concurrent write between a read and the following update.
type interleavingUserRepo struct {
	*memUserRepo
	beforeRead func()
}

func (r *interleavingUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := r.memUserRepo.GetByEmail(ctx, email)
	if r.beforeRead != nil {
		hook := r.beforeRead
		r.beforeRead = nil
		hook()
	}
	return user, err
}

// recordingSender remembers the last code sent to each address.
type recordingSender struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (s *recordingSender) SendOTP(_ context.Context, to, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.codes == nil {
		s.codes = make(map[string]string)
	}
	s.codes[to] = code
	return nil
}

func (s *recordingSender) last(to string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[to]
}

var _ cache.PostCache = (*MockPostCache)(nil)
var _ repository.UserRepository = (*memUserRepo)(nil)

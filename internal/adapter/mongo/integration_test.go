//go:build integration

package mongo

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/port/repository"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const integrationDBName = "test_blog_db"

var testDB *mongo.Database

// TestMain starts a throwaway MongoDB container for the repository tests.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))

	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return client.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	testDB = client.Database(integrationDBName)
	if err := EnsureIndexes(context.Background(), testDB); err != nil {
		log.Fatalf("Could not create indexes: %s", err)
	}

	code := m.Run()

	_ = client.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func clearCollections(t *testing.T) {
	for _, name := range []string{usersCollectionName, postsCollectionName} {
		_, err := testDB.Collection(name).DeleteMany(context.Background(), bson.M{})
		require.NoError(t, err, "Failed to clear %s collection", name)
	}
}

func pendingUser(email, otp string, now time.Time) *entity.User {
	expires := now.Add(10 * time.Minute)
	return &entity.User{
		Username:   "alice",
		Email:      email,
		Password:   "$2a$10$hash-" + otp,
		OTP:        otp,
		OTPExpires: &expires,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestIntegration_PendingRegistrationLifecycle(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()
	repo := NewUserMongoRepository(testDB, zap.NewNop())
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := pendingUser("a@x.io", "111111", now)
	require.NoError(t, repo.UpsertPending(ctx, first))

	second := pendingUser("a@x.io", "222222", now.Add(time.Minute))
	require.NoError(t, repo.UpsertPending(ctx, second))
	assert.Equal(t, first.ID, second.ID, "resend must reuse the pending record")

	stored, err := repo.GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "222222", stored.OTP)
	assert.Equal(t, second.Password, stored.Password)
	assert.True(t, now.Equal(stored.CreatedAt))

	err = repo.MarkVerified(ctx, stored.ID, "111111", now.Add(2*time.Minute))
	assert.ErrorIs(t, err, repository.ErrNotFound, "a superseded code must not verify")

	require.NoError(t, repo.MarkVerified(ctx, stored.ID, "222222", now.Add(2*time.Minute)))

	verified, err := repo.GetByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Empty(t, verified.OTP)
	assert.Nil(t, verified.OTPExpires)

	err = repo.UpsertPending(ctx, pendingUser("a@x.io", "333333", now.Add(3*time.Minute)))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	count, err := testDB.Collection(usersCollectionName).CountDocuments(ctx, bson.M{"email": "a@x.io"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestIntegration_PostSearchAndPagination(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()
	users := NewUserMongoRepository(testDB, zap.NewNop())
	posts := NewPostMongoRepository(testDB)

	author := pendingUser("w@x.io", "000000", time.Now())
	require.NoError(t, users.UpsertPending(ctx, author))

	base := time.Now().UTC().Truncate(time.Millisecond)
	titles := []string{"Go Concurrency", "Rust ownership", "go modules in C++ land", "Cooking"}
	for i, title := range titles {
		_, err := posts.Create(ctx, &entity.Post{
			Title:     title,
			Body:      "body",
			Source:    entity.DefaultPostSource,
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	page, total, err := posts.List(ctx, 1, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Cooking", page[0].Title)

	found, total, err := posts.List(ctx, 1, 9, []string{"GO", "c++"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, "go modules in C++ land", found[0].Title)

	_, err = testDB.Collection(postsCollectionName).UpdateMany(ctx, bson.M{}, bson.M{"$unset": bson.M{"source": ""}})
	require.NoError(t, err)
	n, err := posts.BackfillSource(ctx, entity.DefaultPostSource)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

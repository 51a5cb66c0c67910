package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/entity"
	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	got  string
	user *entity.User
	err  error
}

func (f *fakeVerifier) ForceVerify(_ context.Context, username string) (*entity.User, error) {
	f.got = username
	return f.user, f.err
}

type fakeBackfiller struct {
	n   int64
	err error
}

func (f *fakeBackfiller) BackfillSource(context.Context) (int64, error) {
	return f.n, f.err
}

type fixture struct {
	users      *fakeVerifier
	posts      *fakeBackfiller
	configPath string
	connects   int
	released   int
}

func (f *fixture) connect(configPath string) (*services, func(), error) {
	f.connects++
	f.configPath = configPath
	return &services{users: f.users, posts: f.posts}, func() { f.released++ }, nil
}

func run(t *testing.T, f *fixture, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	var out bytes.Buffer
	cmd := newRootCmd(f.connect)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVerifyUser(t *testing.T) {
	f := &fixture{users: &fakeVerifier{user: &entity.User{ID: "u1", Username: "alice"}}}

	out, err := run(t, f, "--config", "prod.yaml", "verify-user", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", f.users.got)
	assert.Equal(t, "prod.yaml", f.configPath)
	assert.Equal(t, 1, f.released)
	assert.Contains(t, out, "User alice (u1) is verified")
}

func TestVerifyUser_UnknownUser(t *testing.T) {
	f := &fixture{users: &fakeVerifier{err: usecase.ErrNotFound}}

	_, err := run(t, f, "verify-user", "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
	assert.Equal(t, "config.yaml", f.configPath)
	assert.Equal(t, 1, f.released)
}

func TestVerifyUser_RequiresUsername(t *testing.T) {
	f := &fixture{users: &fakeVerifier{}}

	_, err := run(t, f, "verify-user")
	require.Error(t, err)
	assert.Zero(t, f.connects)
}

func TestBackfillSource(t *testing.T) {
	f := &fixture{posts: &fakeBackfiller{n: 4}}

	out, err := run(t, f, "backfill-source")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 4 post(s)")
	assert.Equal(t, 1, f.released)
}

func TestBackfillSource_RejectsArgs(t *testing.T) {
	f := &fixture{posts: &fakeBackfiller{}}

	_, err := run(t, f, "backfill-source", "extra")
	require.Error(t, err)
	assert.Zero(t, f.connects)
}

func TestConnectFailure(t *testing.T) {
	connect := func(string) (*services, func(), error) { return nil, nil, errors.New("no config") }

	t.Setenv("CONFIG_PATH", "")
	cmd := newRootCmd(connect)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"backfill-source"})
	assert.EqualError(t, cmd.Execute(), "no config")
}

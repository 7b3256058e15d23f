package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCacheManager struct {
	mock.Mock
}

func (m *mockCacheManager) Get(ctx context.Context, key string) (string, bool) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1)
}

func (m *mockCacheManager) GetWithRefresh(ctx context.Context, key string, ttl time.Duration) (string, bool) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1)
}

func (m *mockCacheManager) Set(ctx context.Context, key string, value string, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCacheManager) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type describeInput struct {
	Language string
}

func describe(calls *int) func(context.Context, describeInput) (string, error) {
	return func(_ context.Context, in describeInput) (string, error) {
		*calls++
		if in.Language == "" {
			return "", errors.New("no language")
		}
		return "# " + in.Language, nil
	}
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	m := &mockCacheManager{}
	calls := 0
	r := NewReadThroughCache[string, string, describeInput](m, describe(&calls), true)

	got, err := r.Get(context.Background(), "lua", describeInput{Language: "lua"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "# lua", got)

	got, err = r.GetWithRefresh(context.Background(), "lua", describeInput{Language: "lua"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "# lua", got)

	require.Equal(t, 2, calls)
	m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestReadThroughCache_Hit(t *testing.T) {
	m := &mockCacheManager{}
	m.On("Get", mock.Anything, "lua").Return("cached", true)
	calls := 0
	r := NewReadThroughCache[string, string, describeInput](m, describe(&calls), false)

	got, err := r.Get(context.Background(), "lua", describeInput{Language: "lua"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached", got)
	require.Zero(t, calls)
	m.AssertExpectations(t)
}

func TestReadThroughCache_MissFillsCache(t *testing.T) {
	m := &mockCacheManager{}
	m.On("GetWithRefresh", mock.Anything, "nim", time.Minute).Return("", false)
	m.On("Set", mock.Anything, "nim", "# nim", time.Minute).Return()
	calls := 0
	r := NewReadThroughCache[string, string, describeInput](m, describe(&calls), false)

	got, err := r.GetWithRefresh(context.Background(), "nim", describeInput{Language: "nim"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "# nim", got)
	require.Equal(t, 1, calls)
	m.AssertExpectations(t)
}

func TestReadThroughCache_ErrorsAreNotCached(t *testing.T) {
	m := &mockCacheManager{}
	m.On("Get", mock.Anything, "").Return("", false)
	calls := 0
	r := NewReadThroughCache[string, string, describeInput](m, describe(&calls), false)

	_, err := r.Get(context.Background(), "", describeInput{}, time.Minute)
	require.Error(t, err)
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_InMemory(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("describe", DefaultExpiration, DefaultCleanupInterval)
	calls := 0
	r := NewReadThroughCache[string, string, describeInput](cache, describe(&calls), false)
	ctx := context.Background()

	for range 3 {
		got, err := r.Get(ctx, "lua", describeInput{Language: "lua"}, time.Minute)
		require.NoError(t, err)
		require.Equal(t, "# lua", got)
	}
	require.Equal(t, 1, calls)

	require.NoError(t, r.Invalidate(ctx, "lua"))
	_, err := r.Get(ctx, "lua", describeInput{Language: "lua"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

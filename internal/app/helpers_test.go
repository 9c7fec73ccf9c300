package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"playstore/internal/domain"
	"playstore/internal/storage/sqlstore"
)

// ---- fakes ----

// fakeCache stores JSON like the Redis adapter does, so values round-trip the
// same way.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

// ---- helpers ----

func newRepo(t *testing.T) *sqlstore.Repo {
	t.Helper()
	ctx := context.Background()
	db, err := sqlstore.Open(ctx, sqlstore.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := sqlstore.New(db, sqlstore.SQLite)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func seed(t *testing.T, repo domain.Repository, apps ...domain.App) []domain.App {
	t.Helper()
	for i := range apps {
		require.NoError(t, repo.CreateApp(context.Background(), &apps[i]))
	}
	return apps
}

func ptr[T any](v T) *T { return &v }

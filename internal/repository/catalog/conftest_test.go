package catalog

import (
	"context"
	"time"

	"github.com/tanhanwei/steamseek/internal/db"
)

// mockStore implements db.Store for tests.
type mockStore struct {
	jsonSetFn   func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn   func(ctx context.Context, key string, paths ...string) ([]byte, error)
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) ([]db.SearchEntry, error)
}

func (m *mockStore) Ping(context.Context) error { return nil }

func (m *mockStore) WaitForReady(context.Context, time.Duration) error { return nil }

func (m *mockStore) Close() {}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) ([]db.SearchEntry, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return nil, nil
}

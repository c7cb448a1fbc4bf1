package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/tanhanwei/steamseek/internal/db"
)

func TestGet_Found(t *testing.T) {
	ms := &mockStore{
		jsonGetFn: func(_ context.Context, key string, _ ...string) ([]byte, error) {
			if key != "steamseek:game:440" {
				t.Errorf("unexpected key: %s", key)
			}
			return []byte(`{"appid":440,"name":"Team Fortress 2","is_free":true}`), nil
		},
	}
	repo := New(ms, "steamseek:")

	entry, found, err := repo.Get(context.Background(), 440)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected found=true")
	}
	if entry.Name != "Team Fortress 2" || !entry.IsFree {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(&mockStore{}, "steamseek:")

	_, found, err := repo.Get(context.Background(), 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected found=false for missing key")
	}
}

func TestGet_StoreError(t *testing.T) {
	ms := &mockStore{
		jsonGetFn: func(context.Context, string, ...string) ([]byte, error) {
			return nil, &db.Error{Op: db.OpJSONGet, Err: errors.New("socket closed")}
		},
	}
	repo := New(ms, "steamseek:")

	_, _, err := repo.Get(context.Background(), 440)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGet_FillsMissingAppID(t *testing.T) {
	ms := &mockStore{
		jsonGetFn: func(context.Context, string, ...string) ([]byte, error) {
			return []byte(`{"name":"Legacy Record"}`), nil
		},
	}
	repo := New(ms, "steamseek:")

	entry, _, err := repo.Get(context.Background(), 730)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.AppID != 730 {
		t.Errorf("appid = %d, want backfilled 730", entry.AppID)
	}
}

func TestSummaryGet(t *testing.T) {
	ms := &mockStore{
		jsonGetFn: func(_ context.Context, key string, _ ...string) ([]byte, error) {
			if key != "steamseek:summary:440" {
				t.Errorf("unexpected key: %s", key)
			}
			return []byte(`{"appid":440,"ai_summary":"A team shooter."}`), nil
		},
	}
	repo := NewSummaries(ms, "steamseek:")

	summary, found, err := repo.Get(context.Background(), 440)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || summary != "A team shooter." {
		t.Errorf("summary = %q, found = %v", summary, found)
	}
}

func TestSummaryGet_EmptyTreatedAsMissing(t *testing.T) {
	ms := &mockStore{
		jsonGetFn: func(context.Context, string, ...string) ([]byte, error) {
			return []byte(`{"appid":440,"ai_summary":""}`), nil
		},
	}
	repo := NewSummaries(ms, "steamseek:")

	_, found, err := repo.Get(context.Background(), 440)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("empty summary must read as missing")
	}
}

func TestParseAppIDFromKey(t *testing.T) {
	tests := []struct {
		key    string
		prefix string
		want   int64
		ok     bool
	}{
		{"steamseek:game:440", "steamseek:", 440, true},
		{"steamseek:game:", "steamseek:", 0, false},
		{"steamseek:summary:440", "steamseek:", 0, false},
		{"other:game:440", "steamseek:", 0, false},
		{"steamseek:game:abc", "steamseek:", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseAppIDFromKey(tc.key, tc.prefix)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseAppIDFromKey(%q) = (%d, %v), want (%d, %v)", tc.key, got, ok, tc.want, tc.ok)
		}
	}
}

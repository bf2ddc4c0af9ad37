package credstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.Get(ctx, KeyToken); !IsNotFound(err) {
		t.Fatalf("expected not-found for empty store, got %v", err)
	}

	if err := store.Set(ctx, KeyToken, "T"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	got, err := store.Get(ctx, KeyToken)
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if got != "T" {
		t.Fatalf("expected T got %q", got)
	}

	// Overwrite in place.
	if err := store.Set(ctx, KeyToken, "T2"); err != nil {
		t.Fatalf("overwrite token: %v", err)
	}
	got, _ = store.Get(ctx, KeyToken)
	if got != "T2" {
		t.Fatalf("expected T2 got %q", got)
	}

	if err := store.Remove(ctx, KeyToken); err != nil {
		t.Fatalf("remove token: %v", err)
	}
	if _, err := store.Get(ctx, KeyToken); !IsNotFound(err) {
		t.Fatalf("expected not-found after remove, got %v", err)
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")
	ctx := context.Background()

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Set(ctx, KeyIdentity, `{"id":7}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(ctx, KeyIdentity)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != `{"id":7}` {
		t.Fatalf("expected persisted identity, got %q", got)
	}
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

type fakeKV struct {
	values   map[string]string
	closed   bool
	setErr   error
	lastKeys []string
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if val, ok := f.values[key]; ok {
		return val, nil
	}
	return "", goredis.Nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	f.lastKeys = keys
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeKV) Close() error {
	f.closed = true
	return nil
}

func TestRedisStoreNamespacesKeys(t *testing.T) {
	kv := &fakeKV{}
	store, err := NewRedisStore(kv, "kiosk1")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, KeyToken, "T"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := kv.values["kiosk1:"+KeyToken]; !ok {
		t.Fatalf("expected namespaced key, got %v", kv.values)
	}

	got, err := store.Get(ctx, KeyToken)
	if err != nil || got != "T" {
		t.Fatalf("get: %q %v", got, err)
	}

	if _, err := store.Get(ctx, KeyIdentity); !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}

	if err := store.Remove(ctx, KeyToken); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(kv.lastKeys) != 1 || kv.lastKeys[0] != "kiosk1:"+KeyToken {
		t.Fatalf("unexpected deleted keys %v", kv.lastKeys)
	}
}

func TestRedisStoreWrapsFailures(t *testing.T) {
	kv := &fakeKV{setErr: errors.New("broken pipe")}
	store, err := NewRedisStore(kv, "")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	if err := store.Set(context.Background(), KeyToken, "T"); err == nil {
		t.Fatal("expected wrapped set error")
	}
}

func TestNewRedisStoreRequiresClient(t *testing.T) {
	if _, err := NewRedisStore(nil, "shop"); err == nil {
		t.Fatal("expected error for nil client")
	}
}

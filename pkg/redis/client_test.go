package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/javaweb/webshop-client/pkg/config"
)

type fakeCmdable struct {
	values map[string]string
}

func (f *fakeCmdable) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value any, _ time.Duration) *goredis.StatusCmd {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value.(string)
	cmd := goredis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *goredis.StringCmd {
	cmd := goredis.NewStringCmd(ctx)
	if val, ok := f.values[key]; ok {
		cmd.SetVal(val)
	} else {
		cmd.SetErr(goredis.Nil)
	}
	return cmd
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	cmd := goredis.NewIntCmd(ctx)
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func TestClientRoundTrip(t *testing.T) {
	client := &Client{store: &fakeCmdable{}}
	ctx := context.Background()

	if err := client.Set(ctx, "shop:token", "T"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := client.Get(ctx, "shop:token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "T" {
		t.Fatalf("expected T got %q", got)
	}

	if err := client.Del(ctx, "shop:token"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := client.Get(ctx, "shop:token"); err != Nil {
		t.Fatalf("expected Nil after delete, got %v", err)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address set")
	}
}

func TestOptionsFromConfigAppliesPooling(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:      "localhost:6379",
		PoolSize:     4,
		MinIdleConns: 1,
		DialTimeout:  2 * time.Second,
	})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.PoolSize != 4 || opts.MinIdleConns != 1 {
		t.Fatalf("pool settings not applied: %+v", opts)
	}
	if opts.DialTimeout != 2*time.Second {
		t.Fatalf("dial timeout not applied: %s", opts.DialTimeout)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	var client *Client
	if err := client.Set(context.Background(), "k", "v"); err == nil {
		t.Fatal("expected error from nil client")
	}
	if _, err := client.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error from nil client")
	}
}

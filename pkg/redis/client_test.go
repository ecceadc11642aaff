package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/config"
)

func TestSetStateNXFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	client := NewFromCmdable(NewFakeCmdable(), 0)

	ok, err := client.SetStateNX(ctx, "abc", "cart_id", "12")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.SetStateNX(ctx, "abc", "cart_id", "13")
	require.NoError(t, err)
	require.False(t, ok)

	got, found, err := client.GetState(ctx, "abc", "cart_id")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "12", got)

	require.NoError(t, client.DeleteState(ctx, "abc", "cart_id"))
	_, found, err = client.GetState(ctx, "abc", "cart_id")
	require.NoError(t, err)
	require.False(t, found)
}

func TestStateIsScopedPerClient(t *testing.T) {
	ctx := context.Background()
	client := NewFromCmdable(NewFakeCmdable(), 0)
	require.NoError(t, client.SetState(ctx, "a", "cart_id", "1"))

	_, found, err := client.GetState(ctx, "b", "cart_id")
	require.NoError(t, err)
	require.False(t, found)
}

func TestWritesRefreshStateTTL(t *testing.T) {
	ctx := context.Background()
	fake := NewFakeCmdable()
	client := NewFromCmdable(fake, time.Hour)

	require.NoError(t, client.SetState(ctx, "abc", "auth_token", "t"))
	require.Equal(t, time.Hour, fake.ExpiryOf(StateKey("abc")))

	fake = NewFakeCmdable()
	client = NewFromCmdable(fake, 0)
	require.NoError(t, client.SetState(ctx, "abc", "auth_token", "t"))
	require.Zero(t, fake.ExpiryOf(StateKey("abc")))
}

func TestStateKey(t *testing.T) {
	require.Equal(t, "sf:client:abc", StateKey(" abc "))
	require.Equal(t, "sf:client", StateKey(""))
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	require.Error(t, client.Ping(context.Background()))
	_, _, err := client.GetState(context.Background(), "a", "b")
	require.Error(t, err)
	require.NoError(t, client.Close())
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, "localhost:6379", opts.Addr)
	require.Equal(t, 7, opts.PoolSize)
	require.Equal(t, time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/2", DB: 5})
	require.NoError(t, err)
	require.Equal(t, "localhost:6380", opts.Addr)
	require.Equal(t, 2, opts.DB)
}

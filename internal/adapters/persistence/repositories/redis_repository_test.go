package repositories

import (
	"context"
	"testing"
	"time"

	"contribution-hub/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisKeyValueRepository(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	repo := NewRedisKeyValueRepository(client)

	t.Run("missing key", func(t *testing.T) {
		_, err := repo.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("put all then get", func(t *testing.T) {
		require.NoError(t, repo.PutAll(ctx, map[string][]byte{
			"a": []byte("1"),
			"b": []byte("2"),
		}))

		got, err := repo.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "1", string(got))

		raw, err := mr.Get("b")
		require.NoError(t, err)
		assert.Equal(t, "2", raw)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}

func TestLedgerStore_Redis(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	store := NewLedgerStore(NewRedisKeyValueRepository(client), nil, "hub_")

	require.NoError(t, store.Commit(ctx, NewChangeset().
		SetLoans([]domain.Loan{sampleLoan("l1")}).
		SetNotifications([]domain.Notification{{ID: "n1", RecipientID: "c1", Message: "hi"}})))

	assert.True(t, mr.Exists("hub_loans"))
	assert.True(t, mr.Exists("hub_notifications"))
	assert.False(t, mr.Exists("hub_users"))

	loans, err := store.GetLoans(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, "l1", loans[0].ID)
}

func TestRedisChangeNotifier(t *testing.T) {
	client, _ := setupTestRedis(t)
	notifier := NewRedisChangeNotifier(client, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := notifier.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, notifier.Publish(ctx, ChangeEvent{Collection: CollectionPayments, At: time.Now().UTC()}))

	select {
	case e := <-events:
		assert.Equal(t, CollectionPayments, e.Collection)
	case <-time.After(2 * time.Second):
		t.Fatal("expected change event from redis")
	}
}

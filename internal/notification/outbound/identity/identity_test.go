package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var olivia = entity.IdentityInfo{IdentityID: "io1", DisplayName: "Olivia", Email: "owner@example.test"}

type provider struct {
	batchCalls atomic.Int32
	failures   atomic.Int32
}

func (p *provider) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/users/batch", func(w http.ResponseWriter, r *http.Request) {
		p.batchCalls.Add(1)
		if p.failures.Load() > 0 {
			p.failures.Add(-1)
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body struct {
			IdentityIDs []string `json:"identity_ids"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		users := []entity.IdentityInfo{}
		for _, id := range body.IdentityIDs {
			if id == olivia.IdentityID {
				users = append(users, olivia)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"users": users})
	})
	mux.HandleFunc("GET /v1/users", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") != olivia.Email {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(olivia)
	})
	return mux
}

func newClient(t *testing.T) (*Client, *provider, *miniredis.Miniredis) {
	t.Helper()
	p := &provider{}
	srv := httptest.NewServer(p.handler(t))
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c := New(Config{
		BaseURL:    srv.URL + "/",
		Token:      "secret",
		MaxRetries: 2,
		Backoff:    time.Millisecond,
		CacheTTL:   time.Minute,
	}, rdb, instrument.NewNoop())
	return c, p, mr
}

func TestClient_GetUsersMap(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown ids are omitted and known ids cached", func(t *testing.T) {
		// Arrange
		c, p, mr := newClient(t)

		// Act
		got, err := c.GetUsersMap(ctx, []string{"io1", "ghost", "io1", ""})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, map[string]entity.IdentityInfo{"io1": olivia}, got)
		assert.True(t, mr.Exists("notifyhub:identity:io1"))
		assert.False(t, mr.Exists("notifyhub:identity:ghost"))
		assert.Equal(t, int32(1), p.batchCalls.Load())
	})

	t.Run("served from cache", func(t *testing.T) {
		// Arrange
		c, p, _ := newClient(t)
		_, err := c.GetUsersMap(ctx, []string{"io1"})
		require.NoError(t, err)

		// Act
		got, err := c.GetUsersMap(ctx, []string{"io1"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, olivia, got["io1"])
		assert.Equal(t, int32(1), p.batchCalls.Load())
	})

	t.Run("retries server errors", func(t *testing.T) {
		c, p, _ := newClient(t)
		p.failures.Store(2)

		got, err := c.GetUsersMap(ctx, []string{"io1"})

		require.NoError(t, err)
		assert.Equal(t, olivia, got["io1"])
		assert.Equal(t, int32(3), p.batchCalls.Load())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		c, p, _ := newClient(t)
		p.failures.Store(10)

		_, err := c.GetUsersMap(ctx, []string{"io1"})

		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Equal(t, int32(3), p.batchCalls.Load())
	})

	t.Run("empty input makes no call", func(t *testing.T) {
		c, p, _ := newClient(t)

		got, err := c.GetUsersMap(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Zero(t, p.batchCalls.Load())
	})
}

func TestClient_GetUserInfo(t *testing.T) {
	c, _, _ := newClient(t)

	got, err := c.GetUserInfo(context.Background(), "io1")
	require.NoError(t, err)
	assert.Equal(t, &olivia, got)

	got, err = c.GetUserInfo(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_GetUserInfoByEmail(t *testing.T) {
	c, _, mr := newClient(t)

	got, err := c.GetUserInfoByEmail(context.Background(), "owner@example.test")
	require.NoError(t, err)
	assert.Equal(t, &olivia, got)
	assert.True(t, mr.Exists("notifyhub:identity:io1"))

	got, err = c.GetUserInfoByEmail(context.Background(), "new@example.test")
	require.NoError(t, err)
	assert.Nil(t, got)
}

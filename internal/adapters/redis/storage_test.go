package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/easygen/internal/core"
)

func TestNewClient_ReturnsErrorWhenAddressEmpty(t *testing.T) {
	client, err := NewClient(context.Background(), Config{Address: ""})

	assert.ErrorIs(t, err, ErrEmptyAddress)
	assert.Nil(t, client)
}

func TestNewClient_FailsWhenUnreachable(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Address: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestStorageSaveDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := Open(ctx, Config{Address: mr.Addr(), Prefix: "site:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Save(ctx, "blog/1/index.html", []byte("<p>hi</p>")))

	got, err := mr.Get("site:blog/1/index.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", got)

	body, err := s.Get(ctx, "blog/1/index.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("<p>hi</p>"), body)

	require.NoError(t, s.Delete(ctx, "blog/1/index.html"))
	assert.False(t, mr.Exists("site:blog/1/index.html"))

	assert.NoError(t, s.Delete(ctx, "never/written"), "deleting a missing key must not fail")
}

func TestStorageTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := Open(ctx, Config{Address: mr.Addr(), TTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Save(ctx, "index.html", []byte("x")))
	assert.Equal(t, time.Hour, mr.TTL("index.html"))
}

func TestStorageRejectsEmptyPath(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := Open(ctx, Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.True(t, errors.Is(s.Save(ctx, "", []byte("x")), core.ErrEmptyPath))
	assert.True(t, errors.Is(s.Delete(ctx, ""), core.ErrEmptyPath))
}

func TestStorageSurfacesServerErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := Open(ctx, Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	mr.SetError("READONLY You can't write against a read only replica.")
	assert.Error(t, s.Save(ctx, "index.html", []byte("x")))
}

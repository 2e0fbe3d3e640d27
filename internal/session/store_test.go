// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/lensd/internal/httperr"
)

var opened = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func newStore() *Store {
	return NewStore(WithClock(func() time.Time { return opened }))
}

func TestOpenAndGet(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	params := map[string]string{"lens.query.enable.persistent.resultset": "false"}

	sess, err := s.Open(ctx, " alice ", " default ", params)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "alice", sess.User)
	assert.Equal(t, "default", sess.Database)
	assert.Equal(t, opened, sess.OpenedAt)

	params["mutated"] = "yes"
	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.NotContains(t, got.Params, "mutated")

	got.Params["other"] = "x"
	again, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.NotContains(t, again.Params, "other")
}

func TestOpenRequiresUser(t *testing.T) {
	_, err := newStore().Open(context.Background(), "  ", "", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperr.StatusOf(err))
}

func TestParams(t *testing.T) {
	s := newStore()
	sess, err := s.Open(context.Background(), "bob", "", map[string]string{"a": "1", "b": "2"})
	require.NoError(t, err)

	all, err := s.Params(sess.ID, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, all)

	one, err := s.Params(sess.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, one)

	_, err = s.Params(sess.ID, "missing")
	assert.Equal(t, http.StatusNotFound, httperr.StatusOf(err))

	_, err = s.Params("nope", "")
	assert.Equal(t, http.StatusNotFound, httperr.StatusOf(err))

	bare, err := s.Open(context.Background(), "carol", "", nil)
	require.NoError(t, err)
	empty, err := s.Params(bare.ID, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCloseAndActive(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	sess, err := s.Open(ctx, "dave", "", nil)
	require.NoError(t, err)

	require.NoError(t, s.Active(sess.ID))
	assert.Equal(t, http.StatusBadRequest, httperr.StatusOf(s.Active("")))

	require.NoError(t, s.Close(ctx, sess.ID))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, http.StatusNotFound, httperr.StatusOf(s.Active(sess.ID)))
	assert.Equal(t, http.StatusNotFound, httperr.StatusOf(s.Close(ctx, sess.ID)))
}

func TestConcurrentOpenClose(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := s.Open(ctx, "user", "", map[string]string{"k": "v"})
			if !assert.NoError(t, err) {
				return
			}
			_, _ = s.Params(sess.ID, "k")
			assert.NoError(t, s.Close(ctx, sess.ID))
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, s.Len())
}

package main

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailyscore/leaderboard-api/internal/kv"
)

func TestOpenStoreMemory(t *testing.T) {
	store, closer, err := openStore("memory")
	require.NoError(t, err)
	defer closer.Close()

	assert.IsType(t, &kv.MemoryStore{}, store)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	_, _, err := openStore("cassandra")
	assert.ErrorContains(t, err, "unknown STORE_BACKEND")
}

func TestRunReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("PORT", strconv.Itoa(ln.Addr().(*net.TCPAddr).Port))

	err = run()
	assert.ErrorContains(t, err, "server failed")
}

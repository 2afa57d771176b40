package positions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
)

func TestWALStore_SaveLoad(t *testing.T) {
	dir := t.TempDir()

	store, err := NewWALStore(dir)
	require.NoError(t, err)

	_, ok, err := store.Load("BTC_USDT")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(domain.Position{Pair: "BTC_USDT", OpenOrderID: "a", LastBar: 1}))
	require.NoError(t, store.Save(domain.Position{Pair: "ETH_USDT", OpenOrderID: "x", LastBar: 7}))
	require.NoError(t, store.Save(domain.Position{Pair: "BTC_USDT", OpenOrderID: "b", LastBar: 2}))

	p, ok, err := store.Load("BTC_USDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.Position{Pair: "BTC_USDT", OpenOrderID: "b", LastBar: 2}, p)

	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	p, ok, err = reopened.Load("ETH_USDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "x", p.OpenOrderID)

	p, ok, err = reopened.Load("BTC_USDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), p.LastBar)
}

func TestWALStore_RequiresPair(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, store.Save(domain.Position{OpenOrderID: "a"}))
}

func TestWALStore_Nil(t *testing.T) {
	var s *WALStore
	assert.Error(t, s.Save(domain.Position{Pair: "BTC_USDT"}))
	_, _, err := s.Load("BTC_USDT")
	assert.Error(t, err)
	assert.Error(t, s.Close())
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemDBPutGetHas(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	ok, err := db.Has([]byte("k"))
	require.NoError(t, err)
	require.False(t, ok)

	_, err = db.Get([]byte("k"))
	require.Error(t, err)

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	ok, err = db.Has([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}

func TestMemDBCopiesValues(t *testing.T) {
	db := NewMemDB()
	value := []byte("mutable")
	require.NoError(t, db.Put([]byte("k"), value))
	value[0] = 'X'

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("mutable"), got)
}

func TestLevelDBRoundTrip(t *testing.T) {
	db, err := NewLevelDB(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	ok, err := db.Has([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type kvRecord struct {
	Label  string
	Count  uint64
	Marked bool
}

func TestKVRoundTrip(t *testing.T) {
	kv := NewKV(NewMemDB())

	ok, err := kv.KVGet([]byte("missing"), &kvRecord{})
	require.NoError(t, err)
	require.False(t, ok)

	want := kvRecord{Label: "alpha", Count: 42, Marked: true}
	require.NoError(t, kv.KVPut([]byte("rec/alpha"), want))

	var got kvRecord
	ok, err = kv.KVGet([]byte("rec/alpha"), &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestKVOverwrite(t *testing.T) {
	kv := NewKV(NewMemDB())
	require.NoError(t, kv.KVPut([]byte("rec"), kvRecord{Count: 1}))
	require.NoError(t, kv.KVPut([]byte("rec"), kvRecord{Count: 2}))

	var got kvRecord
	ok, err := kv.KVGet([]byte("rec"), &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(2), got.Count)
}

func TestKVDecodeMismatch(t *testing.T) {
	kv := NewKV(NewMemDB())
	require.NoError(t, kv.KVPut([]byte("rec"), kvRecord{Label: "alpha"}))

	var wrong uint64
	_, err := kv.KVGet([]byte("rec"), &wrong)
	require.Error(t, err)
}

func TestKVNilBackend(t *testing.T) {
	var kv *KV
	require.Error(t, kv.KVPut([]byte("rec"), kvRecord{}))
	_, err := kv.KVGet([]byte("rec"), &kvRecord{})
	require.Error(t, err)
}

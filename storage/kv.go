package storage

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// KV adapts a Database into the typed key-value surface the wallet state
// consumes, encoding values with RLP.
type KV struct {
	db Database
}

// NewKV wraps the provided backend.
func NewKV(db Database) *KV {
	return &KV{db: db}
}

// KVGet decodes the stored value for key into out, reporting whether the key
// exists.
func (kv *KV) KVGet(key []byte, out interface{}) (bool, error) {
	if kv == nil || kv.db == nil {
		return false, fmt.Errorf("storage: kv not configured")
	}
	ok, err := kv.db.Has(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	raw, err := kv.db.Get(key)
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(raw, out); err != nil {
		return false, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return true, nil
}

// KVPut encodes value with RLP and stores it under key.
func (kv *KV) KVPut(key []byte, value interface{}) error {
	if kv == nil || kv.db == nil {
		return fmt.Errorf("storage: kv not configured")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	return kv.db.Put(key, encoded)
}

package common

import "github.com/nspcc-dev/neo-go/pkg/interop/storage"

// GetInt returns integer stored by key, 0 if there is no such key.
func GetInt(ctx storage.Context, key []byte) int {
	data := storage.Get(ctx, key)
	if data != nil {
		return data.(int)
	}

	return 0
}

// PutInt stores n by key. Zero values are deleted from the storage, so absent
// keys and zeros are indistinguishable.
func PutInt(ctx storage.Context, key []byte, n int) {
	if n == 0 {
		storage.Delete(ctx, key)
		return
	}

	storage.Put(ctx, key, n)
}

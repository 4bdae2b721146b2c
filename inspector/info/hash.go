package info

import (
	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns highwayhash 64 of the supplied parts, parts are separated so that ("ab","c") != ("a","bc")
func Hash(parts ...string) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	for i, part := range parts {
		if i > 0 {
			if _, err = hash.Write([]byte{0}); err != nil {
				return 0, err
			}
		}
		if _, err = hash.Write([]byte(part)); err != nil {
			return 0, err
		}
	}
	return hash.Sum64(), nil
}

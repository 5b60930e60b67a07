package storage

import "io"

// BlobStore holds uploaded assets (question images/audio, avatars, e-book
// files) behind opaque keys.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	URL(key string) string
}

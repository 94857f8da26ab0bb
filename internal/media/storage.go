package media

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned when a key has no stored file
var ErrNotExist = errors.New("media: file does not exist")

// Storage is a key addressed file store
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

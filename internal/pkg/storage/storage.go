// Package storage reads objects from a bucket. Drivers: local directory,
// AWS S3, MinIO and Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// MaxObjectBytes caps Get; larger objects fail with ErrObjectTooLarge.
const MaxObjectBytes = 4 << 20

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrObjectTooLarge = errors.New("storage: object too large")
)

type Storage interface {
	io.Closer
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// List returns the keys under prefix in lexical order.
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}

func readAll(r io.Reader, key string) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxObjectBytes+1))
	if err != nil {
		return nil, err
	}
	if len(b) > MaxObjectBytes {
		return nil, fmt.Errorf("%w: %s", ErrObjectTooLarge, key)
	}
	return b, nil
}

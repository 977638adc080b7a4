package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
)

// Local serves buckets as sub directories of a root directory.
type Local struct {
	fsys fs.FS
}

func NewLocal(root string) *Local {
	return &Local{fsys: os.DirFS(root)}
}

// NewLocalFS is NewLocal over any fs.FS, such as fstest.MapFS.
func NewLocalFS(fsys fs.FS) *Local {
	return &Local{fsys: fsys}
}

func (l *Local) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := l.fsys.Open(path.Join(bucket, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readAll(f, key)
}

func (l *Local) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	err := fs.WalkDir(l.fsys, bucket, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		key := strings.TrimPrefix(p, bucket+"/")
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	slices.Sort(keys)
	return keys, nil
}

func (*Local) Close() error { return nil }

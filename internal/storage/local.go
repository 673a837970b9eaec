package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage writes assets below a directory that the HTTP server
// exposes under publicBase.
type LocalStorage struct {
	dir        string
	publicBase string
	now        func() time.Time
}

// NewLocalStorage creates dir if needed.
func NewLocalStorage(dir, publicBase string) (*LocalStorage, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "datas/assets"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{dir: dir, publicBase: publicBase, now: time.Now}, nil
}

// LocalDir returns the root directory of stored assets.
func (s *LocalStorage) LocalDir() string {
	return s.dir
}

// Put writes data unless an asset with the same key already exists.
func (s *LocalStorage) Put(ctx context.Context, data []byte, opts PutOptions) (*Asset, error) {
	if err := checkPayload(ctx, data); err != nil {
		return nil, err
	}

	key := assetKey(opts.Scope, opts.FileName, data, s.now())
	target := filepath.Join(s.dir, filepath.FromSlash(key))

	if _, err := os.Stat(target); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
		// partial files never appear under the final name
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return nil, fmt.Errorf("write file: %w", err)
		}
		if err := os.Rename(tmp, target); err != nil {
			_ = os.Remove(tmp)
			return nil, fmt.Errorf("rename file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	return &Asset{
		Key:         key,
		URL:         publicURL(s.publicBase, key),
		ContentType: contentTypeFor(opts.ContentType, opts.FileName, data),
		Size:        int64(len(data)),
	}, nil
}

var _ Storage = (*LocalStorage)(nil)
var _ LocalDirProvider = (*LocalStorage)(nil)

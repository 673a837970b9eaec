package storage

import (
	"blogcms/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// TypeLocal 本地目录，由 HTTP 服务直接对外提供
	TypeLocal = "local"
	// TypeS3 Amazon S3 或兼容的对象存储
	TypeS3 = "s3"
	// TypeR2 Cloudflare R2
	TypeR2 = "r2"
	// TypeOSS 阿里云 OSS
	TypeOSS = "oss"
	// TypeCOS 腾讯云 COS
	TypeCOS = "cos"

	// MaxAssetSize 单个附件的上限
	MaxAssetSize = 10 << 20
)

var (
	ErrEmptyAsset    = errors.New("storage: empty asset")
	ErrAssetTooLarge = errors.New("storage: asset too large")
)

// PutOptions describes an uploaded asset. Scope groups assets, usually by
// post id; FileName is the client-side name and only contributes its
// extension and a readable stem.
type PutOptions struct {
	Scope       string
	FileName    string
	ContentType string
}

// Asset is a stored blog attachment.
type Asset struct {
	Key         string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Storage persists blog attachments. Keys are derived from the content, so
// storing the same bytes twice yields the same asset.
type Storage interface {
	Put(ctx context.Context, data []byte, opts PutOptions) (*Asset, error)
}

// LocalDirProvider is implemented by backends whose files can be served
// straight from disk.
type LocalDirProvider interface {
	LocalDir() string
}

// New 根据配置实例化存储后端
func New(cfg config.Config) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageType)) {
	case "", TypeLocal:
		s, err := NewLocalStorage(cfg.StorageLocalDir, cfg.StoragePublicBaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case TypeS3:
		s, err := NewS3Storage(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case TypeR2:
		s, err := NewR2Storage(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case TypeOSS:
		s, err := NewOSSStorage(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case TypeCOS:
		s, err := NewCOSStorage(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

func checkPayload(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyAsset
	}
	if len(data) > MaxAssetSize {
		return ErrAssetTooLarge
	}
	return ctx.Err()
}

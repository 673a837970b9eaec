package storage

import (
	"blogcms/internal/config"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NewR2Storage 创建 Cloudflare R2 存储，endpoint 缺省时由 account id 推导
func NewR2Storage(cfg config.Config) (*BucketStorage, error) {
	bucket := strings.TrimSpace(cfg.StorageR2Bucket)
	if bucket == "" {
		return nil, errors.New("storage: missing R2 bucket")
	}

	endpoint := strings.TrimSpace(cfg.StorageR2Endpoint)
	if endpoint == "" {
		accountID := strings.TrimSpace(cfg.StorageR2AccountID)
		if accountID == "" {
			return nil, errors.New("storage: missing R2 endpoint or account id")
		}
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	region := strings.TrimSpace(cfg.StorageR2Region)
	if region == "" {
		region = "auto"
	}

	client, err := newBucketClient(bucketOptions{
		Region:          region,
		Endpoint:        endpoint,
		AccessKeyID:     cfg.StorageR2AccessKeyID,
		SecretAccessKey: cfg.StorageR2SecretAccessKey,
		ForcePathStyle:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create R2 client: %w", err)
	}

	return &BucketStorage{
		client:     client,
		bucket:     bucket,
		prefix:     cfg.StorageR2Prefix,
		publicBase: cfg.StoragePublicBaseURL,
		now:        time.Now,
	}, nil
}

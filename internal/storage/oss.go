package storage

import (
	"blogcms/internal/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// ossBucket is the part of *oss.Bucket the OSS backend uses.
type ossBucket interface {
	IsObjectExist(objectKey string, options ...oss.Option) (bool, error)
	PutObject(objectKey string, reader io.Reader, options ...oss.Option) error
}

// OSSStorage stores assets in an Aliyun OSS bucket.
type OSSStorage struct {
	bucket     ossBucket
	prefix     string
	publicBase string
	now        func() time.Time
}

// NewOSSStorage 创建阿里云 OSS 存储
func NewOSSStorage(cfg config.Config) (*OSSStorage, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	if endpoint == "" {
		return nil, errors.New("storage: missing OSS endpoint")
	}
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	if bucketName == "" {
		return nil, errors.New("storage: missing OSS bucket")
	}
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket: %w", err)
	}

	return &OSSStorage{
		bucket:     bucket,
		prefix:     cfg.StorageOSSPrefix,
		publicBase: cfg.StoragePublicBaseURL,
		now:        time.Now,
	}, nil
}

// Put uploads data unless the bucket already holds the key.
func (s *OSSStorage) Put(ctx context.Context, data []byte, opts PutOptions) (*Asset, error) {
	if err := checkPayload(ctx, data); err != nil {
		return nil, err
	}

	key := joinPrefix(s.prefix, assetKey(opts.Scope, opts.FileName, data, s.now()))
	contentType := contentTypeFor(opts.ContentType, opts.FileName, data)

	exists, err := s.bucket.IsObjectExist(key, oss.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("check object: %w", err)
	}
	if !exists {
		err := s.bucket.PutObject(key, bytes.NewReader(data), oss.WithContext(ctx), oss.ContentType(contentType))
		if err != nil {
			return nil, fmt.Errorf("put object: %w", err)
		}
	}

	return &Asset{
		Key:         key,
		URL:         publicURL(s.publicBase, key),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

var _ Storage = (*OSSStorage)(nil)

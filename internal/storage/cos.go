package storage

import (
	"blogcms/internal/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"
)

// cosObjects is the part of cos.ObjectService the COS backend uses.
type cosObjects interface {
	Head(ctx context.Context, name string, opt *cos.ObjectHeadOptions, id ...string) (*cos.Response, error)
	Put(ctx context.Context, name string, r io.Reader, opt *cos.ObjectPutOptions) (*cos.Response, error)
}

// COSStorage stores assets in a Tencent Cloud COS bucket.
type COSStorage struct {
	objects    cosObjects
	prefix     string
	publicBase string
	now        func() time.Time
}

// NewCOSStorage 创建腾讯云 COS 存储
func NewCOSStorage(cfg config.Config) (*COSStorage, error) {
	baseURL := strings.TrimSpace(cfg.StorageCOSBucketURL)
	if baseURL == "" {
		return nil, errors.New("storage: missing COS bucket URL")
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse COS bucket URL: %w", err)
	}

	secretID := strings.TrimSpace(cfg.StorageCOSSecretID)
	secretKey := strings.TrimSpace(cfg.StorageCOSSecretKey)
	if secretID == "" || secretKey == "" {
		return nil, errors.New("storage: missing COS credentials")
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: parsedURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{SecretID: secretID, SecretKey: secretKey},
	})

	return &COSStorage{
		objects:    client.Object,
		prefix:     cfg.StorageCOSPrefix,
		publicBase: cfg.StoragePublicBaseURL,
		now:        time.Now,
	}, nil
}

// Put uploads data unless the bucket already holds the key.
func (s *COSStorage) Put(ctx context.Context, data []byte, opts PutOptions) (*Asset, error) {
	if err := checkPayload(ctx, data); err != nil {
		return nil, err
	}

	key := joinPrefix(s.prefix, assetKey(opts.Scope, opts.FileName, data, s.now()))
	contentType := contentTypeFor(opts.ContentType, opts.FileName, data)

	resp, err := s.objects.Head(ctx, key, nil)
	closeResponse(resp)
	switch {
	case err == nil:
	case cos.IsNotFoundError(err):
		resp, err = s.objects.Put(ctx, key, bytes.NewReader(data), &cos.ObjectPutOptions{
			ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: contentType},
		})
		closeResponse(resp)
		if err != nil {
			return nil, fmt.Errorf("put object: %w", err)
		}
	default:
		return nil, fmt.Errorf("head object: %w", err)
	}

	return &Asset{
		Key:         key,
		URL:         publicURL(s.publicBase, key),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func closeResponse(resp *cos.Response) {
	if resp != nil && resp.Response != nil && resp.Body != nil {
		resp.Body.Close()
	}
}

var _ Storage = (*COSStorage)(nil)

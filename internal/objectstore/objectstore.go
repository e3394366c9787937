// Package objectstore persists rendered charts to S3-compatible storage.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the connection settings for an S3-compatible endpoint. The
// store is considered unconfigured when Endpoint, AccessKey, SecretKey or
// Bucket is empty.
type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string // when set, returned URLs are <base>/<key> instead of presigned
}

// Complete reports whether the config carries everything needed to connect.
func (c Config) Complete() bool {
	return strings.TrimSpace(c.Endpoint) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.Bucket) != ""
}

// Store uploads chart files to a bucket and hands back fetchable URLs.
type Store struct {
	client        *minio.Client
	bucket        string
	region        string
	publicBaseURL string
	urlExpiry     time.Duration

	initOnce sync.Once
	initErr  error
}

// New builds a Store from cfg. It returns (nil, nil) when the config is
// incomplete: an absent object store is not an error, the caller just skips
// this delivery strategy.
func New(cfg Config) (*Store, error) {
	if !cfg.Complete() {
		return nil, nil
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(strings.TrimSpace(cfg.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}

	return &Store{
		client:        client,
		bucket:        strings.TrimSpace(cfg.Bucket),
		region:        region,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
		urlExpiry:     time.Hour,
	}, nil
}

// IsConfigured reports whether the store can accept uploads. Nil-safe so the
// resolver can hold a nil *Store.
func (s *Store) IsConfigured() bool {
	return s != nil && s.client != nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Store uploads data under a fresh key with the given extension and content
// type, returning a URL the caller can fetch it from.
func (s *Store) Store(ctx context.Context, data []byte, ext, contentType string) (string, error) {
	if !s.IsConfigured() {
		return "", fmt.Errorf("object store not configured")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	if data == nil {
		data = []byte{}
	}

	key := objectKey(ext)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign object URL: %w", err)
	}
	return u.String(), nil
}

func objectKey(ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	return fmt.Sprintf("charts/%s/%s.%s", time.Now().UTC().Format("2006-01-02"), uuid.NewString(), ext)
}

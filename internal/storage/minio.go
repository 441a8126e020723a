package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

var _ FileStore = (*Minio)(nil)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Minio stores files in an S3 compatible bucket.
type Minio struct {
	client *minio.Client
	bucket string
	base   string
}

// NewMinio connects to the object store and creates the bucket when missing.
func NewMinio(ctx context.Context, cnf MinioConfig) (*Minio, error) {
	client, err := minio.New(cnf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cnf.AccessKey, cnf.SecretKey, ""),
		Secure: cnf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cnf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cnf.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cnf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cnf.Bucket, err)
		}
		logrus.Infof("created bucket %s", cnf.Bucket)
	}

	return &Minio{
		client: client,
		bucket: cnf.Bucket,
		base:   BaseURL(cnf.Endpoint, cnf.Bucket, cnf.UseSSL),
	}, nil
}

// BaseURL is the public url prefix of the objects in bucket.
func BaseURL(endpoint, bucket string, secure bool) string {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return (&url.URL{Scheme: scheme, Host: endpoint, Path: "/" + bucket + "/"}).String()
}

func (m *Minio) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := m.client.PutObject(ctx, m.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", name, err)
	}
	logrus.Debugf("stored %s (%d bytes)", info.Key, info.Size)

	return m.base + info.Key, nil
}

// Remove deletes the object behind a url returned by Put.
func (m *Minio) Remove(ctx context.Context, objectURL string) error {
	name, ok := strings.CutPrefix(objectURL, m.base)
	if !ok {
		return fmt.Errorf("%s is not stored in bucket %s", objectURL, m.bucket)
	}

	return m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/starford/apiops/internal/apperr"
	"github.com/starford/apiops/internal/artifact"
)

// S3Config selects the bucket an S3 provider writes to.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// S3 implements Provider on an S3-compatible object store. Object keys are
// artifact paths relative to the root, below an optional prefix.
type S3 struct {
	client  *minio.Client
	buckets bucketAPI
	base    artifact.Path
	bucket  string
	region  string
	prefix  string

	mu    sync.Mutex
	ready bool
}

// bucketAPI is the part of the client that prepares the bucket.
type bucketAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
}

// NewS3 connects to the store. The bucket is created on first use.
func NewS3(cfg S3Config, root artifact.Path) (*S3, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("storage: s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("storage: s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("storage: s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: init s3 client: %w", err)
	}
	return &S3{
		client:  client,
		buckets: client,
		base:    root,
		bucket:  bucket,
		region:  region,
		prefix:  strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
	}, nil
}

// Root returns the artifact path object keys are relative to.
func (s *S3) Root() artifact.Path { return s.base }

// ensureBucket creates the bucket when missing. Only success is remembered,
// so a failed attempt is retried on the next call.
func (s *S3) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	exists, err := s.buckets.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: ensure bucket: %w", err)
	}
	if !exists {
		if err := s.buckets.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("storage: ensure bucket: %w", err)
		}
	}
	s.ready = true
	return nil
}

// objectKey maps p to its key. Keys never start with a slash and never climb
// above the prefix.
func (s *S3) objectKey(p artifact.Path) (string, error) {
	rel, err := p.Rel(s.base)
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("storage: path escapes root: %s", rel)
	}
	if rel == "." {
		rel = ""
	}
	return path.Join(s.prefix, rel), nil
}

func (s *S3) Write(ctx context.Context, p artifact.Path, content []byte) error {
	key, err := s.objectKey(p)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	if content == nil {
		content = []byte{}
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType(key),
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	return nil
}

func (s *S3) Read(ctx context.Context, p artifact.Path) ([]byte, error) {
	key, err := s.objectKey(p)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("storage: get %s: %w", key, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	return data, nil
}

func (s *S3) Exists(ctx context.Context, p artifact.Path) (bool, error) {
	key, err := s.objectKey(p)
	if err != nil {
		return false, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return false, err
	}
	_, err = s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %s: %w", key, err)
	}
	return true, nil
}

func (s *S3) List(ctx context.Context, dir artifact.Path) ([]artifact.Path, error) {
	key, err := s.objectKey(dir)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	listPrefix := ""
	if key != "" {
		listPrefix = key + "/"
	}
	var rels []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    listPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("storage: list: %w", obj.Err)
		}
		if obj.Key == "" || strings.HasSuffix(obj.Key, "/") {
			continue
		}
		rel := obj.Key
		if s.prefix != "" {
			rel = strings.TrimPrefix(rel, s.prefix+"/")
		}
		rels = append(rels, rel)
	}
	sort.Strings(rels)
	out := make([]artifact.Path, 0, len(rels))
	for _, rel := range rels {
		out = append(out, artifact.Parse(s.base, rel))
	}
	return out, nil
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".json":
		return "application/json"
	case ".yaml":
		return "application/yaml"
	case ".graphql":
		return "application/graphql"
	case ".wsdl", ".wadl":
		return "application/xml"
	}
	return "application/octet-stream"
}

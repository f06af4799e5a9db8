package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"myarc/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	ErrStorageUnconfigured    = errors.New("object storage not configured")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrForeignKey             = errors.New("object key does not belong to user")
)

var uploadExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type PresignedUpload struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ObjectStorage issues presigned uploads and deletes objects in one bucket.
// Every key lives under users/<user id>/.
type ObjectStorage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

func NewObjectStorage(ctx context.Context, cfg config.StorageConfig) (*ObjectStorage, error) {
	if !cfg.Configured() {
		return &ObjectStorage{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ObjectStorage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		ttl:     ttl,
	}, nil
}

func (s *ObjectStorage) Configured() bool {
	return s != nil && s.client != nil
}

// PresignUpload returns a PUT URL for a new object owned by userID.
func (s *ObjectStorage) PresignUpload(ctx context.Context, userID, contentType string) (*PresignedUpload, error) {
	if !s.Configured() {
		return nil, ErrStorageUnconfigured
	}
	ext, ok := uploadExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, ErrUnsupportedContentType
	}

	key := UserObjectKey(userID, uuid.NewString()+ext)
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &PresignedUpload{URL: req.URL, Key: key, ExpiresAt: time.Now().Add(s.ttl)}, nil
}

// Delete removes key, which must sit under userID's prefix.
func (s *ObjectStorage) Delete(ctx context.Context, userID, key string) error {
	if !s.Configured() {
		return ErrStorageUnconfigured
	}
	if !OwnsKey(userID, key) {
		return ErrForeignKey
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func UserObjectKey(userID, name string) string {
	return "users/" + userID + "/" + name
}

// OwnsKey reports whether key is a plain object path under userID's prefix.
func OwnsKey(userID, key string) bool {
	if userID == "" || strings.Contains(key, "..") {
		return false
	}
	rest, ok := strings.CutPrefix(key, UserObjectKey(userID, ""))
	return ok && rest != "" && !strings.Contains(rest, "/")
}

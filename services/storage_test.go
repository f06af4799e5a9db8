package services

import (
	"context"
	"testing"

	"myarc/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnsKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"users/u1/photo.png", true},
		{"users/u2/photo.png", false},
		{"users/u1/", false},
		{"users/u1/../u2/photo.png", false},
		{"users/u1/nested/photo.png", false},
		{"users/u10/photo.png", false},
		{"photo.png", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, OwnsKey("u1", tt.key))
		})
	}
	assert.False(t, OwnsKey("", "users//photo.png"))
}

func TestObjectStorageUnconfigured(t *testing.T) {
	s, err := NewObjectStorage(context.Background(), config.StorageConfig{})
	require.NoError(t, err)
	assert.False(t, s.Configured())

	_, err = s.PresignUpload(context.Background(), "u1", "image/png")
	assert.ErrorIs(t, err, ErrStorageUnconfigured)
	assert.ErrorIs(t, s.Delete(context.Background(), "u1", "users/u1/a.png"), ErrStorageUnconfigured)
}

func TestPresignUpload(t *testing.T) {
	s, err := NewObjectStorage(context.Background(), config.StorageConfig{
		Endpoint:  "http://127.0.0.1:9000",
		Region:    "us-east-1",
		Bucket:    "myarc",
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	require.NoError(t, err)
	require.True(t, s.Configured())

	up, err := s.PresignUpload(context.Background(), "u1", "image/png")
	require.NoError(t, err)
	assert.True(t, OwnsKey("u1", up.Key))
	assert.Contains(t, up.Key, ".png")
	assert.Contains(t, up.URL, "127.0.0.1:9000/myarc/users/u1/")

	_, err = s.PresignUpload(context.Background(), "u1", "application/x-sh")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)

	assert.ErrorIs(t, s.Delete(context.Background(), "u1", "users/u2/a.png"), ErrForeignKey)
}

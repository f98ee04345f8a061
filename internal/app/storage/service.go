// Package storage stores uploaded post images, either on the local
// filesystem or in an S3-compatible bucket.
package storage

import (
	"context"
	"io"
)

// ServiceConfig holds the configuration for the image storage backends.
type ServiceConfig struct {
	// UploadDir is the local directory used when the S3 block is absent.
	UploadDir string

	// S3-compatible bucket settings.
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Service is the public interface for image storage.
type Service interface {
	// Save stores the image under key and returns the URL path clients
	// use to fetch it.
	Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}

// s3Configured reports whether the config selects the S3 backend.
func (cfg ServiceConfig) s3Configured() bool {
	return cfg.S3BucketName != "" && cfg.S3Endpoint != "" &&
		cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != ""
}

// NewService is the factory for Service. A fully configured S3 block
// selects the S3 backend; otherwise images land on the local filesystem.
func NewService(cfg ServiceConfig) (Service, error) {
	if cfg.s3Configured() {
		return newS3Client(cfg)
	}
	return newLocalStore(cfg.UploadDir)
}

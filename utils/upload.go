package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// AllowedImageTypes defines the allowed image file extensions
var AllowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// StoredObject describes an uploaded file
type StoredObject struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Storage persists uploaded media
type Storage interface {
	Put(ctx context.Context, r io.Reader, filename, contentType string) (StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// Media is the configured storage backend
var Media Storage = NewLocalStorage("uploads", "/uploads")

// ValidateImageFile checks if the uploaded file is a valid image
func ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > MaxFileSize {
		return errors.New(ErrFileTooLarge)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := AllowedImageTypes[ext]; !ok {
		return errors.New(ErrInvalidFileType)
	}
	return nil
}

// SaveUploadedFile validates the file and stores it through Media
func SaveUploadedFile(ctx context.Context, file *multipart.FileHeader) (StoredObject, error) {
	if err := ValidateImageFile(file); err != nil {
		return StoredObject{}, err
	}
	src, err := file.Open()
	if err != nil {
		return StoredObject{}, fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	contentType := AllowedImageTypes[strings.ToLower(filepath.Ext(file.Filename))]
	return Media.Put(ctx, src, file.Filename, contentType)
}

func objectKey(filename string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(filename))
}

// LocalStorage writes files under Dir and serves them from PublicPrefix
type LocalStorage struct {
	Dir          string
	PublicPrefix string
}

func NewLocalStorage(dir, publicPrefix string) *LocalStorage {
	return &LocalStorage{Dir: dir, PublicPrefix: strings.TrimRight(publicPrefix, "/")}
}

func (l *LocalStorage) Put(_ context.Context, r io.Reader, filename, _ string) (StoredObject, error) {
	if err := os.MkdirAll(l.Dir, 0755); err != nil {
		return StoredObject{}, fmt.Errorf("failed to create uploads directory: %v", err)
	}
	key := objectKey(filename)
	dst, err := os.Create(filepath.Join(l.Dir, key))
	if err != nil {
		return StoredObject{}, fmt.Errorf("failed to create destination file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return StoredObject{}, fmt.Errorf("failed to save file: %v", err)
	}
	return StoredObject{Key: key, URL: l.PublicPrefix + "/" + key}, nil
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	if err := os.Remove(filepath.Join(l.Dir, filepath.Base(key))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

// S3Config configures the S3 backend. Endpoint targets S3-compatible stores such as MinIO.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
	Prefix    string
}

// S3Storage stores media in an S3 bucket
type S3Storage struct {
	client    *s3.Client
	bucket    string
	prefix    string
	publicURL string
}

func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Storage{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/"), publicURL: publicURL}, nil
}

func (s *S3Storage) Put(ctx context.Context, r io.Reader, filename, contentType string) (StoredObject, error) {
	key := objectKey(filename)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return StoredObject{}, fmt.Errorf("failed to upload to s3: %w", err)
	}
	return StoredObject{Key: key, URL: s.publicURL + "/" + key}, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

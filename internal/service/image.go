package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recetario/backend/config"
)

// MaxImageSize is the largest accepted recipe image.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore persists objects by key. Put returns the object's public URL.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3ImageStore stores images in the configured S3 bucket.
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

func (s *S3ImageStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.s3Config.PublicURL(key), nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// ImageService validates recipe images and hands them to an ImageStore. A
// nil store means uploads are disabled.
type ImageService struct {
	store ImageStore
	log   *logrus.Logger
}

func NewImageService(store ImageStore, log *logrus.Logger) *ImageService {
	return &ImageService{store: store, log: log}
}

// Enabled reports whether a store is configured.
func (s *ImageService) Enabled() bool {
	return s != nil && s.store != nil
}

// ImageError describes an image that was rejected before upload.
type ImageError struct {
	Message string
}

func (e *ImageError) Error() string { return e.Message }

// StoredImage is an uploaded object and where it is served from.
type StoredImage struct {
	Key string
	URL string
}

// Upload checks the size and sniffed type of data and stores it under the
// recipe's prefix.
func (s *ImageService) Upload(ctx context.Context, recipeID uuid.UUID, data []byte) (*StoredImage, error) {
	if !s.Enabled() {
		return nil, ErrStorageDisabled
	}
	if len(data) == 0 {
		return nil, &ImageError{Message: "The imagen field is required."}
	}
	if len(data) > MaxImageSize {
		return nil, &ImageError{Message: "The imagen field must not be greater than 5120 kilobytes."}
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, &ImageError{Message: "The imagen field must be a file of type: jpeg, png, webp."}
	}

	key := path.Join("recetas", recipeID.String(), uuid.NewString()+ext)
	url, err := s.store.Put(ctx, key, contentType, data)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"recipe_id": recipeID, "key": key}).Info("recipe image stored")
	return &StoredImage{Key: key, URL: url}, nil
}

// Remove deletes an object written by Upload that ended up unreferenced.
func (s *ImageService) Remove(ctx context.Context, key string) error {
	if !s.Enabled() {
		return ErrStorageDisabled
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.log.WithField("key", key).Info("recipe image removed")
	return nil
}

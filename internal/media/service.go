package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Service handles object storage for profile pictures, gallery photos
// and gallery videos.
type Service struct {
	minioClient  *minio.Client
	bucketPhotos string
	bucketVideos string
	bucketThumbs string
}

// NewService creates a new media storage service
func NewService(minioClient *minio.Client, bucketPhotos, bucketVideos, bucketThumbs string) *Service {
	return &Service{
		minioClient:  minioClient,
		bucketPhotos: bucketPhotos,
		bucketVideos: bucketVideos,
		bucketThumbs: bucketThumbs,
	}
}

// UploadPhoto stores an image and returns its public URL.
func (s *Service) UploadPhoto(ctx context.Context, userID, filename, contentType string, r io.Reader, size int64) (string, error) {
	objectName := fmt.Sprintf("%s/%s%s", userID, uuid.New().String(), filepath.Ext(filename))

	_, err := s.minioClient.PutObject(ctx, s.bucketPhotos, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return fmt.Sprintf("/media/photos/%s", objectName), nil
}

// UploadVideo stores a video and returns its public URL.
func (s *Service) UploadVideo(ctx context.Context, userID, filename, contentType string, r io.Reader, size int64) (string, error) {
	objectName := fmt.Sprintf("%s/%s%s", userID, uuid.New().String(), filepath.Ext(filename))

	_, err := s.minioClient.PutObject(ctx, s.bucketVideos, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	return fmt.Sprintf("/media/videos/%s", objectName), nil
}

// GetPhoto fetches a stored photo by object name.
func (s *Service) GetPhoto(ctx context.Context, objectName string) (io.ReadCloser, error) {
	object, err := s.minioClient.GetObject(ctx, s.bucketPhotos, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return object, nil
}

// DeletePhoto removes a stored photo.
func (s *Service) DeletePhoto(ctx context.Context, objectName string) error {
	return s.minioClient.RemoveObject(ctx, s.bucketPhotos, objectName, minio.RemoveObjectOptions{})
}

// DeleteVideo removes a stored video.
func (s *Service) DeleteVideo(ctx context.Context, objectName string) error {
	return s.minioClient.RemoveObject(ctx, s.bucketVideos, objectName, minio.RemoveObjectOptions{})
}

// PresignedPhotoURL generates a temporary URL for direct access.
func (s *Service) PresignedPhotoURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := s.minioClient.PresignedGetObject(ctx, s.bucketPhotos, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

// PhotoObjectName maps a public photo URL back to its object name.
// Returns an empty string for URLs outside the photo bucket path.
func PhotoObjectName(url string) string {
	const prefix = "/media/photos/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return ""
	}
	return url[len(prefix):]
}

// VideoObjectName maps a public video URL back to its object name.
func VideoObjectName(url string) string {
	const prefix = "/media/videos/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return ""
	}
	return url[len(prefix):]
}

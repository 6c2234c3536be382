package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const (
	ThumbnailWidth   = 400
	ThumbnailHeight  = 400
	ThumbnailQuality = 80
)

// ThumbnailService generates listing-card thumbnails for uploaded photos.
type ThumbnailService struct {
	minioClient  *minio.Client
	bucketThumbs string
	bucketPhotos string
}

// NewThumbnailService creates a new thumbnail service
func NewThumbnailService(minioClient *minio.Client, bucketThumbs, bucketPhotos string) *ThumbnailService {
	return &ThumbnailService{
		minioClient:  minioClient,
		bucketThumbs: bucketThumbs,
		bucketPhotos: bucketPhotos,
	}
}

// GenerateThumbnail creates a thumbnail for a stored photo and returns
// the thumbnail URL.
func (s *ThumbnailService) GenerateThumbnail(ctx context.Context, objectName string) (string, error) {
	object, err := s.minioClient.GetObject(ctx, s.bucketPhotos, objectName, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get original photo: %w", err)
	}
	defer object.Close()

	img, format, err := image.Decode(object)
	if err != nil {
		return "", fmt.Errorf("failed to decode photo: %w", err)
	}

	thumbnail := imaging.Thumbnail(img, ThumbnailWidth, ThumbnailHeight, imaging.Lanczos)

	var buf bytes.Buffer
	switch format {
	case "jpeg", "jpg":
		err = jpeg.Encode(&buf, thumbnail, &jpeg.Options{Quality: ThumbnailQuality})
	case "png":
		err = png.Encode(&buf, thumbnail)
	default:
		err = jpeg.Encode(&buf, thumbnail, &jpeg.Options{Quality: ThumbnailQuality})
		format = "jpeg"
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	thumbName := fmt.Sprintf("thumb_%s.%s", uuid.New().String(), format)

	_, err = s.minioClient.PutObject(ctx, s.bucketThumbs, thumbName, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: fmt.Sprintf("image/%s", format),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	return fmt.Sprintf("/media/thumbnails/%s", thumbName), nil
}

package media

import (
	"errors"
)

// Validation and quota errors. Each upload failure carries its own reason;
// handlers must never collapse these into a generic error.
var (
	ErrNotAnImage         = errors.New("file is not an image")
	ErrNotAVideo          = errors.New("file is not a video")
	ErrImageTooLarge      = errors.New("image exceeds the maximum file size")
	ErrVideoTooLarge      = errors.New("video exceeds the maximum file size")
	ErrVideoTooLong       = errors.New("video exceeds the maximum duration")
	ErrPhotoQuotaExceeded = errors.New("photo quota for this tier is exhausted")
	ErrVideoQuotaExceeded = errors.New("video quota for this tier is exhausted")
	ErrMediaNotFound      = errors.New("media not found")
)

// Usage is the per-account media count compared against tier limits.
// TotalCount is always ProfilePictureCount + GalleryCount: the profile
// picture is a member of the gallery pool.
type Usage struct {
	ProfilePictureCount int `json:"profile_picture_count"`
	GalleryCount        int `json:"gallery_count"`
	VideoCount          int `json:"video_count"`
	TotalCount          int `json:"total_count"`
}

// Limits is the tier-derived allowance.
type Limits struct {
	ProfilePhoto  int `json:"profile_photo"`
	GalleryPhotos int `json:"gallery_photos"`
	TotalPhotos   int `json:"total_photos"`
	Videos        int `json:"videos"`
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Type         string `json:"type"`
	Size         int64  `json:"size"`
}

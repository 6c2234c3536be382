package media

import (
	"strings"
	"time"

	"escort-directory/internal/config"
)

// Validator checks uploads against the configured size and duration limits
// before any storage call is made.
type Validator struct {
	cfg config.MediaConfig
}

// NewValidator creates an upload validator.
func NewValidator(cfg config.MediaConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateImage rejects non-image MIME types and oversized files.
func (v *Validator) ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	if size > v.cfg.MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

// ValidateVideo rejects non-video MIME types, oversized files and clips
// longer than the configured duration. The duration comes from decoding
// the upload's metadata client-side and is re-checked here.
func (v *Validator) ValidateVideo(contentType string, size int64, duration time.Duration) error {
	if !strings.HasPrefix(contentType, "video/") {
		return ErrNotAVideo
	}
	if size > v.cfg.MaxVideoSize {
		return ErrVideoTooLarge
	}
	if duration > v.cfg.MaxVideoDuration {
		return ErrVideoTooLong
	}
	return nil
}

package media

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"escort-directory/internal/config"
)

func testValidator() *Validator {
	return NewValidator(config.MediaConfig{
		MaxImageSize:     5 * 1024 * 1024,
		MaxVideoSize:     50 * 1024 * 1024,
		MaxVideoDuration: 60 * time.Second,
	})
}

func TestValidateImage(t *testing.T) {
	v := testValidator()

	assert.NoError(t, v.ValidateImage("image/jpeg", 1024))
	assert.NoError(t, v.ValidateImage("image/png", 5*1024*1024))

	assert.ErrorIs(t, v.ValidateImage("application/pdf", 1024), ErrNotAnImage)
	assert.ErrorIs(t, v.ValidateImage("video/mp4", 1024), ErrNotAnImage)
	assert.ErrorIs(t, v.ValidateImage("image/jpeg", 5*1024*1024+1), ErrImageTooLarge)
}

func TestValidateVideo(t *testing.T) {
	v := testValidator()

	assert.NoError(t, v.ValidateVideo("video/mp4", 1024, 30*time.Second))
	assert.NoError(t, v.ValidateVideo("video/webm", 50*1024*1024, 60*time.Second))

	assert.ErrorIs(t, v.ValidateVideo("image/gif", 1024, time.Second), ErrNotAVideo)
	assert.ErrorIs(t, v.ValidateVideo("video/mp4", 50*1024*1024+1, time.Second), ErrVideoTooLarge)
	assert.ErrorIs(t, v.ValidateVideo("video/mp4", 1024, 61*time.Second), ErrVideoTooLong)
}

func TestValidateErrorsAreDistinct(t *testing.T) {
	v := testValidator()

	tooLarge := v.ValidateImage("image/jpeg", 6*1024*1024)
	tooLong := v.ValidateVideo("video/mp4", 1024, 2*time.Minute)

	assert.NotEqual(t, tooLarge.Error(), tooLong.Error())
	assert.NotErrorIs(t, tooLong, ErrVideoTooLarge)
}

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escort-directory/internal/config"
	"escort-directory/internal/profiles"
)

func testTiers() map[string]config.TierQuota {
	return map[string]config.TierQuota{
		"trial":    {ProfilePhoto: 1, GalleryPhotos: 2, TotalPhotos: 3, Videos: 0},
		"basic":    {ProfilePhoto: 1, GalleryPhotos: 5, TotalPhotos: 6, Videos: 1},
		"platinum": {ProfilePhoto: 1, GalleryPhotos: 9, TotalPhotos: 10, Videos: 2},
	}
}

func profileWithMedia(profilePic bool, gallery, videos int) *profiles.Profile {
	p := &profiles.Profile{}
	if profilePic {
		p.ProfilePictureURL = strPtr("/media/photos/u/pic.jpg")
	}
	for i := 0; i < gallery; i++ {
		p.GalleryImages = append(p.GalleryImages, "/media/photos/u/g.jpg")
	}
	for i := 0; i < videos; i++ {
		p.GalleryVideos = append(p.GalleryVideos, "/media/videos/u/v.mp4")
	}
	return p
}

func TestUsageForCountsProfilePictureInTotal(t *testing.T) {
	u := UsageFor(profileWithMedia(true, 4, 1))

	assert.Equal(t, 1, u.ProfilePictureCount)
	assert.Equal(t, 4, u.GalleryCount)
	assert.Equal(t, 1, u.VideoCount)
	assert.Equal(t, 5, u.TotalCount)
}

func TestUsageForEmptyProfilePicture(t *testing.T) {
	u := UsageFor(profileWithMedia(false, 2, 0))

	assert.Equal(t, 0, u.ProfilePictureCount)
	assert.Equal(t, 2, u.TotalCount)
}

func TestCanUploadPhotoAtBoundary(t *testing.T) {
	q := NewQuotaCalculator(testTiers())
	limits := q.LimitsForTier("basic")

	// 5 of 6 used: one slot left.
	assert.True(t, CanUploadPhoto(UsageFor(profileWithMedia(true, 4, 0)), limits))

	// 6 of 6 used: full.
	assert.False(t, CanUploadPhoto(UsageFor(profileWithMedia(true, 5, 0)), limits))
}

func TestPhotoFullVideoStillAllowed(t *testing.T) {
	q := NewQuotaCalculator(testTiers())

	// Platinum allows 10 photos and 2 videos. With 10 photos and 1 video,
	// photos are exhausted but a video slot remains.
	p := profileWithMedia(true, 9, 1)

	err := q.CheckPhotoUpload(p, "platinum")
	require.ErrorIs(t, err, ErrPhotoQuotaExceeded)

	assert.NoError(t, q.CheckVideoUpload(p, "platinum"))
}

func TestTrialTierHasNoVideoSlots(t *testing.T) {
	q := NewQuotaCalculator(testTiers())

	err := q.CheckVideoUpload(profileWithMedia(false, 0, 0), "trial")
	assert.ErrorIs(t, err, ErrVideoQuotaExceeded)
}

func TestUnknownTierFallsBackToTrial(t *testing.T) {
	q := NewQuotaCalculator(testTiers())

	limits := q.LimitsForTier("gold-deluxe")
	assert.Equal(t, q.LimitsForTier("trial"), limits)
}

func TestDefaultTierTableInvariant(t *testing.T) {
	cfg := config.Load()

	for name, quota := range cfg.Billing.Tiers {
		assert.Equal(t, 1, quota.ProfilePhoto, name)
		assert.Equal(t, quota.GalleryPhotos+1, quota.TotalPhotos, name)
	}
}

func strPtr(s string) *string { return &s }

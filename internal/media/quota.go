package media

import (
	"escort-directory/internal/config"
	"escort-directory/internal/profiles"
)

// QuotaCalculator resolves tier limits from the immutable tier table
// loaded at startup.
type QuotaCalculator struct {
	tiers map[string]config.TierQuota
}

// NewQuotaCalculator creates a quota calculator over a tier table.
func NewQuotaCalculator(tiers map[string]config.TierQuota) *QuotaCalculator {
	return &QuotaCalculator{tiers: tiers}
}

// UsageFor counts an account's current media against the gallery pool.
func UsageFor(p *profiles.Profile) Usage {
	var u Usage
	if p.ProfilePictureURL != nil && *p.ProfilePictureURL != "" {
		u.ProfilePictureCount = 1
	}
	u.GalleryCount = len(p.GalleryImages)
	u.VideoCount = len(p.GalleryVideos)
	u.TotalCount = u.ProfilePictureCount + u.GalleryCount
	return u
}

// LimitsForTier returns the allowance of a named tier. Unknown tiers fall
// back to trial.
func (q *QuotaCalculator) LimitsForTier(tier string) Limits {
	quota, ok := q.tiers[tier]
	if !ok {
		quota = q.tiers["trial"]
	}
	return Limits{
		ProfilePhoto:  quota.ProfilePhoto,
		GalleryPhotos: quota.GalleryPhotos,
		TotalPhotos:   quota.TotalPhotos,
		Videos:        quota.Videos,
	}
}

// CanUploadPhoto reports whether one more photo fits the tier allowance.
func CanUploadPhoto(u Usage, l Limits) bool {
	return u.TotalCount < l.TotalPhotos
}

// CanUploadVideo reports whether one more video fits the tier allowance.
func CanUploadVideo(u Usage, l Limits) bool {
	return u.VideoCount < l.Videos
}

// CheckPhotoUpload is the fail-fast gate run before any storage call.
func (q *QuotaCalculator) CheckPhotoUpload(p *profiles.Profile, tier string) error {
	if !CanUploadPhoto(UsageFor(p), q.LimitsForTier(tier)) {
		return ErrPhotoQuotaExceeded
	}
	return nil
}

// CheckVideoUpload is the fail-fast gate run before any storage call.
func (q *QuotaCalculator) CheckVideoUpload(p *profiles.Profile, tier string) error {
	if !CanUploadVideo(UsageFor(p), q.LimitsForTier(tier)) {
		return ErrVideoQuotaExceeded
	}
	return nil
}

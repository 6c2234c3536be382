package profiles

import (
	"time"
)

// Constants for account roles and profile status
const (
	RoleClient = "client"
	RoleEscort = "escort"
	RoleAgency = "agency"
	RoleAdmin  = "admin"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusInactive = "inactive"
)

// Profile represents a listing profile in the directory.
// Appearance fields like Height and Weight are stored as the free text the
// owner typed ("172cm", "5'6\"") and normalized by the parsers on demand.
type Profile struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Role        string  `json:"role"`

	// Appearance / demographics
	Age         *int    `json:"age,omitempty"`
	Height      *string `json:"height,omitempty"`
	Weight      *string `json:"weight,omitempty"`
	Ethnicity   *string `json:"ethnicity,omitempty"`
	BodyType    *string `json:"body_type,omitempty"`
	HairColor   *string `json:"hair_color,omitempty"`
	EyeColor    *string `json:"eye_color,omitempty"`
	CupSize     *string `json:"cup_size,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	Smoking     *string `json:"smoking,omitempty"`
	Drinking    *string `json:"drinking,omitempty"`
	Tattoos     bool    `json:"tattoos"`
	Piercings   bool    `json:"piercings"`

	// Free text
	Location     *string `json:"location,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	Services     *string `json:"services,omitempty"`
	Languages    *string `json:"languages,omitempty"`
	Availability *string `json:"availability,omitempty"`
	Rates        *string `json:"rates,omitempty"` // legacy free-text rates

	// Structured rates, all optional numeric strings
	RateHourly           *string `json:"rate_hourly,omitempty"`
	RateHourlyIncall     *string `json:"rate_hourly_incall,omitempty"`
	RateHourlyOutcall    *string `json:"rate_hourly_outcall,omitempty"`
	RateTwoHours         *string `json:"rate_two_hours,omitempty"`
	RateTwoHoursIncall   *string `json:"rate_two_hours_incall,omitempty"`
	RateTwoHoursOutcall  *string `json:"rate_two_hours_outcall,omitempty"`
	RateDinner           *string `json:"rate_dinner,omitempty"`
	RateDinnerIncall     *string `json:"rate_dinner_incall,omitempty"`
	RateDinnerOutcall    *string `json:"rate_dinner_outcall,omitempty"`
	RateOvernight        *string `json:"rate_overnight,omitempty"`
	RateOvernightIncall  *string `json:"rate_overnight_incall,omitempty"`
	RateOvernightOutcall *string `json:"rate_overnight_outcall,omitempty"`

	// Media
	ProfilePictureURL *string  `json:"profile_picture_url,omitempty"`
	GalleryImages     []string `json:"gallery_images"`
	GalleryVideos     []string `json:"gallery_videos"`

	// Status flags
	Verified bool   `json:"verified"`
	Featured bool   `json:"featured"`
	IsActive bool   `json:"is_active"`
	Status   string `json:"status"`

	// Engagement
	ViewCount int     `json:"view_count"`
	Rating    float64 `json:"rating"`

	// Agency linkage
	AgencyID *string `json:"agency_id,omitempty"`

	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PublicProfile is the listing card shown in the directory.
type PublicProfile struct {
	ID                string  `json:"id"`
	Username          string  `json:"username"`
	DisplayName       *string `json:"display_name,omitempty"`
	Location          *string `json:"location,omitempty"`
	Age               *int    `json:"age,omitempty"`
	Ethnicity         *string `json:"ethnicity,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
	Verified          bool    `json:"verified"`
	Featured          bool    `json:"featured"`
	Rating            float64 `json:"rating"`
	ViewCount         int     `json:"view_count"`
}

// UpdateProfileRequest carries a partial profile update.
type UpdateProfileRequest struct {
	DisplayName  *string `json:"display_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Age          *int    `json:"age,omitempty"`
	Height       *string `json:"height,omitempty"`
	Weight       *string `json:"weight,omitempty"`
	Ethnicity    *string `json:"ethnicity,omitempty"`
	BodyType     *string `json:"body_type,omitempty"`
	HairColor    *string `json:"hair_color,omitempty"`
	EyeColor     *string `json:"eye_color,omitempty"`
	CupSize      *string `json:"cup_size,omitempty"`
	Nationality  *string `json:"nationality,omitempty"`
	Smoking      *string `json:"smoking,omitempty"`
	Drinking     *string `json:"drinking,omitempty"`
	Tattoos      *bool   `json:"tattoos,omitempty"`
	Piercings    *bool   `json:"piercings,omitempty"`
	Location     *string `json:"location,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	Services     *string `json:"services,omitempty"`
	Languages    *string `json:"languages,omitempty"`
	Availability *string `json:"availability,omitempty"`
	Rates        *string `json:"rates,omitempty"`

	RateHourly           *string `json:"rate_hourly,omitempty"`
	RateHourlyIncall     *string `json:"rate_hourly_incall,omitempty"`
	RateHourlyOutcall    *string `json:"rate_hourly_outcall,omitempty"`
	RateTwoHours         *string `json:"rate_two_hours,omitempty"`
	RateTwoHoursIncall   *string `json:"rate_two_hours_incall,omitempty"`
	RateTwoHoursOutcall  *string `json:"rate_two_hours_outcall,omitempty"`
	RateDinner           *string `json:"rate_dinner,omitempty"`
	RateDinnerIncall     *string `json:"rate_dinner_incall,omitempty"`
	RateDinnerOutcall    *string `json:"rate_dinner_outcall,omitempty"`
	RateOvernight        *string `json:"rate_overnight,omitempty"`
	RateOvernightIncall  *string `json:"rate_overnight_incall,omitempty"`
	RateOvernightOutcall *string `json:"rate_overnight_outcall,omitempty"`
}

// Public returns the listing-card view of a profile.
func (p *Profile) Public() *PublicProfile {
	return &PublicProfile{
		ID:                p.ID,
		Username:          p.Username,
		DisplayName:       p.DisplayName,
		Location:          p.Location,
		Age:               p.Age,
		Ethnicity:         p.Ethnicity,
		ProfilePictureURL: p.ProfilePictureURL,
		Verified:          p.Verified,
		Featured:          p.Featured,
		Rating:            p.Rating,
		ViewCount:         p.ViewCount,
	}
}

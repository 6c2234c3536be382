package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Common errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameExists  = errors.New("username already exists")
	ErrInvalidUsername = errors.New("invalid username format")
)

// Service handles profile persistence.
type Service struct {
	db *sql.DB
}

// NewService creates a new profile service
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

const profileColumns = `
	id, username, display_name, email, phone, role,
	age, height, weight, ethnicity, body_type, hair_color, eye_color,
	cup_size, nationality, smoking, drinking, tattoos, piercings,
	location, bio, services, languages, availability, rates,
	rate_hourly, rate_hourly_incall, rate_hourly_outcall,
	rate_two_hours, rate_two_hours_incall, rate_two_hours_outcall,
	rate_dinner, rate_dinner_incall, rate_dinner_outcall,
	rate_overnight, rate_overnight_incall, rate_overnight_outcall,
	profile_picture_url, gallery_images, gallery_videos,
	verified, featured, is_active, status,
	view_count, rating, agency_id,
	last_active, created_at, updated_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (*Profile, error) {
	var p Profile
	var images, videos pq.StringArray

	err := row.Scan(
		&p.ID, &p.Username, &p.DisplayName, &p.Email, &p.Phone, &p.Role,
		&p.Age, &p.Height, &p.Weight, &p.Ethnicity, &p.BodyType, &p.HairColor, &p.EyeColor,
		&p.CupSize, &p.Nationality, &p.Smoking, &p.Drinking, &p.Tattoos, &p.Piercings,
		&p.Location, &p.Bio, &p.Services, &p.Languages, &p.Availability, &p.Rates,
		&p.RateHourly, &p.RateHourlyIncall, &p.RateHourlyOutcall,
		&p.RateTwoHours, &p.RateTwoHoursIncall, &p.RateTwoHoursOutcall,
		&p.RateDinner, &p.RateDinnerIncall, &p.RateDinnerOutcall,
		&p.RateOvernight, &p.RateOvernightIncall, &p.RateOvernightOutcall,
		&p.ProfilePictureURL, &images, &videos,
		&p.Verified, &p.Featured, &p.IsActive, &p.Status,
		&p.ViewCount, &p.Rating, &p.AgencyID,
		&p.LastActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.GalleryImages = []string(images)
	p.GalleryVideos = []string(videos)
	return &p, nil
}

// GetProfile retrieves a profile by ID.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 AND deleted_at IS NULL`

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetProfileByUsername retrieves a profile by username.
func (s *Service) GetProfileByUsername(ctx context.Context, username string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1 AND deleted_at IS NULL`

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListDirectory fetches every approved, active escort profile. The
// directory filters, sorts and paginates this list in memory.
func (s *Service) ListDirectory(ctx context.Context) ([]*Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = 'escort'
		  AND status = 'approved'
		  AND is_active = true
		  AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			continue
		}
		list = append(list, p)
	}

	return list, rows.Err()
}

// ListByStatus fetches profiles in a moderation state, newest first.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]*Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = 'escort' AND status = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			continue
		}
		list = append(list, p)
	}

	return list, rows.Err()
}

// ListByAgency fetches the escort profiles linked to an agency.
func (s *Service) ListByAgency(ctx context.Context, agencyID string) ([]*Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM profiles
		WHERE agency_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			continue
		}
		list = append(list, p)
	}

	return list, rows.Err()
}

// UpdateProfile applies a partial update and returns the fresh profile.
func (s *Service) UpdateProfile(ctx context.Context, id string, update *UpdateProfileRequest) (*Profile, error) {
	query := `UPDATE profiles SET updated_at = NOW()`
	args := []interface{}{}
	argCount := 1

	add := func(column string, value interface{}) {
		query += fmt.Sprintf(", %s = $%d", column, argCount)
		args = append(args, value)
		argCount++
	}

	stringFields := map[string]*string{
		"display_name": update.DisplayName, "phone": update.Phone,
		"height": update.Height, "weight": update.Weight,
		"ethnicity": update.Ethnicity, "body_type": update.BodyType,
		"hair_color": update.HairColor, "eye_color": update.EyeColor,
		"cup_size": update.CupSize, "nationality": update.Nationality,
		"smoking": update.Smoking, "drinking": update.Drinking,
		"location": update.Location, "bio": update.Bio,
		"services": update.Services, "languages": update.Languages,
		"availability": update.Availability, "rates": update.Rates,
		"rate_hourly":             update.RateHourly,
		"rate_hourly_incall":      update.RateHourlyIncall,
		"rate_hourly_outcall":     update.RateHourlyOutcall,
		"rate_two_hours":          update.RateTwoHours,
		"rate_two_hours_incall":   update.RateTwoHoursIncall,
		"rate_two_hours_outcall":  update.RateTwoHoursOutcall,
		"rate_dinner":             update.RateDinner,
		"rate_dinner_incall":      update.RateDinnerIncall,
		"rate_dinner_outcall":     update.RateDinnerOutcall,
		"rate_overnight":          update.RateOvernight,
		"rate_overnight_incall":   update.RateOvernightIncall,
		"rate_overnight_outcall":  update.RateOvernightOutcall,
	}
	for column, value := range stringFields {
		if value != nil {
			add(column, *value)
		}
	}

	if update.Age != nil {
		add("age", *update.Age)
	}
	if update.Tattoos != nil {
		add("tattoos", *update.Tattoos)
	}
	if update.Piercings != nil {
		add("piercings", *update.Piercings)
	}

	query += fmt.Sprintf(" WHERE id = $%d AND deleted_at IS NULL", argCount)
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, ErrProfileNotFound
	}

	return s.GetProfile(ctx, id)
}

// IncrementViewCount bumps the engagement counter for a viewed profile.
func (s *Service) IncrementViewCount(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

// SetStatus moves a profile through the moderation lifecycle.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		status, id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SetActive soft-activates or deactivates a listing. Profiles are never
// physically deleted from this path.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET is_active = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		active, id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SetProfilePicture updates the profile picture URL.
func (s *Service) SetProfilePicture(ctx context.Context, id string, url *string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET profile_picture_url = $1, updated_at = NOW() WHERE id = $2`,
		url, id)
	return err
}

// SetGalleryImages replaces the ordered gallery image list.
func (s *Service) SetGalleryImages(ctx context.Context, id string, urls []string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET gallery_images = $1, updated_at = NOW() WHERE id = $2`,
		pq.Array(urls), id)
	return err
}

// SetGalleryVideos replaces the ordered gallery video list.
func (s *Service) SetGalleryVideos(ctx context.Context, id string, urls []string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET gallery_videos = $1, updated_at = NOW() WHERE id = $2`,
		pq.Array(urls), id)
	return err
}

// SetVerified marks a profile as photo-verified.
func (s *Service) SetVerified(ctx context.Context, id string, verified bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET verified = $1, updated_at = NOW() WHERE id = $2`,
		verified, id)
	return err
}

// SetAgency links or unlinks a profile to an agency.
func (s *Service) SetAgency(ctx context.Context, id string, agencyID *string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET agency_id = $1, updated_at = NOW() WHERE id = $2`,
		agencyID, id)
	return err
}

// TouchLastActive records activity for the active-today directory filter.
func (s *Service) TouchLastActive(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET last_active = NOW() WHERE id = $1`, id)
	return err
}

// CanManage reports whether an actor may edit a profile: the owner, an
// admin, or the manager of the agency the profile belongs to.
func (s *Service) CanManage(actor *Profile, target *Profile) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.ID == target.ID || actor.Role == RoleAdmin {
		return true
	}
	if actor.Role == RoleAgency && target.AgencyID != nil && *target.AgencyID == actor.ID {
		return true
	}
	return false
}

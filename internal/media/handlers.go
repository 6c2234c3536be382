package media

import (
	"database/sql"
	"errors"
	"log"
	"strconv"
	"time"

	"escort-directory/internal/billing"
	"escort-directory/internal/profiles"

	"github.com/gofiber/fiber/v2"
)

// Handler handles upload endpoints. Every upload is validated and checked
// against the tier quota before the first storage call; a rejected file
// never reaches MinIO.
type Handler struct {
	profileService *profiles.Service
	billingService *billing.Service
	storage        *Service
	thumbnails     *ThumbnailService
	validator      *Validator
	quotas         *QuotaCalculator
}

// NewHandler creates a new media handler
func NewHandler(db *sql.DB, storage *Service, thumbnails *ThumbnailService, validator *Validator, quotas *QuotaCalculator, billingService *billing.Service) *Handler {
	return &Handler{
		profileService: profiles.NewService(db),
		billingService: billingService,
		storage:        storage,
		thumbnails:     thumbnails,
		validator:      validator,
		quotas:         quotas,
	}
}

// GetMyUsage returns the account's media usage against its tier limits.
func (h *Handler) GetMyUsage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	profile, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	tier := h.billingService.TierFor(c.Context(), userID)
	usage := UsageFor(profile)
	limits := h.quotas.LimitsForTier(tier)

	return c.JSON(fiber.Map{
		"tier":             tier,
		"usage":            usage,
		"limits":           limits,
		"can_upload_photo": CanUploadPhoto(usage, limits),
		"can_upload_video": CanUploadVideo(usage, limits),
	})
}

// UploadProfilePicture replaces the account's profile picture.
func (h *Handler) UploadProfilePicture(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	profile, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file",
		})
	}

	contentType := header.Header.Get("Content-Type")
	if err := h.validator.ValidateImage(contentType, header.Size); err != nil {
		return rejectUpload(c, err)
	}

	// Replacing an existing picture never changes the count, so the quota
	// gate only applies when the slot is empty.
	if profile.ProfilePictureURL == nil || *profile.ProfilePictureURL == "" {
		tier := h.billingService.TierFor(c.Context(), userID)
		if err := h.quotas.CheckPhotoUpload(profile, tier); err != nil {
			return rejectUpload(c, err)
		}
	}

	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}
	defer file.Close()

	url, err := h.storage.UploadPhoto(c.Context(), userID, header.Filename, contentType, file, header.Size)
	if err != nil {
		log.Printf("Profile picture upload failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload picture",
		})
	}

	if err := h.profileService.SetProfilePicture(c.Context(), userID, &url); err != nil {
		// Roll back the orphaned object on DB failure
		_ = h.storage.DeletePhoto(c.Context(), PhotoObjectName(url))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save picture",
		})
	}

	return c.JSON(UploadResponse{URL: url, Type: "photo", Size: header.Size})
}

// UploadGalleryPhoto appends a photo to the account's gallery.
func (h *Handler) UploadGalleryPhoto(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	profile, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file",
		})
	}

	contentType := header.Header.Get("Content-Type")
	if err := h.validator.ValidateImage(contentType, header.Size); err != nil {
		return rejectUpload(c, err)
	}

	tier := h.billingService.TierFor(c.Context(), userID)
	if err := h.quotas.CheckPhotoUpload(profile, tier); err != nil {
		return rejectUpload(c, err)
	}

	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}
	defer file.Close()

	url, err := h.storage.UploadPhoto(c.Context(), userID, header.Filename, contentType, file, header.Size)
	if err != nil {
		log.Printf("Gallery photo upload failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload photo",
		})
	}

	gallery := append(profile.GalleryImages, url)
	if err := h.profileService.SetGalleryImages(c.Context(), userID, gallery); err != nil {
		_ = h.storage.DeletePhoto(c.Context(), PhotoObjectName(url))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save photo",
		})
	}

	// Thumbnails are best effort, the listing falls back to the original
	thumbURL, err := h.thumbnails.GenerateThumbnail(c.Context(), PhotoObjectName(url))
	if err != nil {
		log.Printf("Thumbnail generation failed for %s: %v", url, err)
		thumbURL = ""
	}

	return c.JSON(UploadResponse{URL: url, ThumbnailURL: thumbURL, Type: "photo", Size: header.Size})
}

// UploadGalleryVideo appends a video to the account's gallery.
func (h *Handler) UploadGalleryVideo(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	profile, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file",
		})
	}

	durationSec, _ := strconv.Atoi(c.FormValue("duration", "0"))
	duration := time.Duration(durationSec) * time.Second

	contentType := header.Header.Get("Content-Type")
	if err := h.validator.ValidateVideo(contentType, header.Size, duration); err != nil {
		return rejectUpload(c, err)
	}

	tier := h.billingService.TierFor(c.Context(), userID)
	if err := h.quotas.CheckVideoUpload(profile, tier); err != nil {
		return rejectUpload(c, err)
	}

	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}
	defer file.Close()

	url, err := h.storage.UploadVideo(c.Context(), userID, header.Filename, contentType, file, header.Size)
	if err != nil {
		log.Printf("Gallery video upload failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload video",
		})
	}

	gallery := append(profile.GalleryVideos, url)
	if err := h.profileService.SetGalleryVideos(c.Context(), userID, gallery); err != nil {
		_ = h.storage.DeleteVideo(c.Context(), VideoObjectName(url))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save video",
		})
	}

	return c.JSON(UploadResponse{URL: url, Type: "video", Size: header.Size})
}

// DeleteGalleryPhoto removes a photo from the gallery by URL.
func (h *Handler) DeleteGalleryPhoto(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing photo URL",
		})
	}

	profile, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	gallery := make([]string, 0, len(profile.GalleryImages))
	found := false
	for _, u := range profile.GalleryImages {
		if u == req.URL {
			found = true
			continue
		}
		gallery = append(gallery, u)
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Photo not found in gallery",
		})
	}

	if err := h.profileService.SetGalleryImages(c.Context(), userID, gallery); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update gallery",
		})
	}

	if objectName := PhotoObjectName(req.URL); objectName != "" {
		if err := h.storage.DeletePhoto(c.Context(), objectName); err != nil {
			log.Printf("Failed to delete photo object %s: %v", objectName, err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Photo deleted",
	})
}

// DeleteGalleryVideo removes a video from the gallery by URL.
func (h *Handler) DeleteGalleryVideo(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing video URL",
		})
	}

	profile, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	gallery := make([]string, 0, len(profile.GalleryVideos))
	found := false
	for _, u := range profile.GalleryVideos {
		if u == req.URL {
			found = true
			continue
		}
		gallery = append(gallery, u)
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Video not found in gallery",
		})
	}

	if err := h.profileService.SetGalleryVideos(c.Context(), userID, gallery); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update gallery",
		})
	}

	if objectName := VideoObjectName(req.URL); objectName != "" {
		if err := h.storage.DeleteVideo(c.Context(), objectName); err != nil {
			log.Printf("Failed to delete video object %s: %v", objectName, err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Video deleted",
	})
}

// rejectUpload maps a validation or quota error to a distinct response.
func rejectUpload(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	if errors.Is(err, ErrPhotoQuotaExceeded) || errors.Is(err, ErrVideoQuotaExceeded) {
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

package editor

import (
	"bytes"
	"database/sql"
	"log"

	"escort-directory/internal/media"
	"escort-directory/internal/profiles"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler exposes the blur editor over stored gallery photos.
type Handler struct {
	manager        *Manager
	storage        *media.Service
	profileService *profiles.Service
}

// NewHandler creates a new editor handler
func NewHandler(db *sql.DB, storage *media.Service, manager *Manager) *Handler {
	return &Handler{
		manager:        manager,
		storage:        storage,
		profileService: profiles.NewService(db),
	}
}

// Open starts an edit session over one of the caller's photos.
func (h *Handler) Open(c *fiber.Ctx) error {
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

	if !ownsPhoto(profile, req.URL) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Photo does not belong to this account",
		})
	}

	objectName := media.PhotoObjectName(req.URL)
	if objectName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Not an editable photo URL",
		})
	}

	object, err := h.storage.GetPhoto(c.Context(), objectName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load photo",
		})
	}
	defer object.Close()

	session, err := NewSession(object)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Photo could not be decoded",
		})
	}

	sessionID := uuid.New().String()
	h.manager.Put(sessionID, userID, req.URL, session)

	bounds := session.Current().Bounds()
	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"state":      session.State(),
		"format":     session.Format(),
		"width":      bounds.Dx(),
		"height":     bounds.Dy(),
	})
}

// Stroke applies one blur gesture to the session.
func (h *Handler) Stroke(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	sessionID := c.Params("id")

	session, _, err := h.manager.Get(sessionID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Edit session not found",
		})
	}

	var req struct {
		Points    []Point `json:"points"`
		Radius    int     `json:"radius"`
		Intensity int     `json:"intensity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := session.Stroke(req.Points, req.Radius, req.Intensity); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Edit session is closed",
		})
	}

	return c.JSON(fiber.Map{
		"state":    session.State(),
		"can_undo": session.CanUndo(),
		"can_redo": session.CanRedo(),
	})
}

// Undo steps the session history back by one entry.
func (h *Handler) Undo(c *fiber.Ctx) error {
	return h.step(c, func(s *Session) bool { return s.Undo() })
}

// Redo steps the session history forward by one entry.
func (h *Handler) Redo(c *fiber.Ctx) error {
	return h.step(c, func(s *Session) bool { return s.Redo() })
}

func (h *Handler) step(c *fiber.Ctx, move func(*Session) bool) error {
	userID := c.Locals("userID").(string)
	sessionID := c.Params("id")

	session, _, err := h.manager.Get(sessionID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Edit session not found",
		})
	}

	moved := move(session)
	return c.JSON(fiber.Map{
		"moved":    moved,
		"can_undo": session.CanUndo(),
		"can_redo": session.CanRedo(),
	})
}

// Save encodes the edited frame, stores it as a new photo and swaps the
// gallery reference in place. The original object stays untouched until
// the swap has been persisted.
func (h *Handler) Save(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	sessionID := c.Params("id")

	session, sourceURL, err := h.manager.Get(sessionID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Edit session not found",
		})
	}

	var buf bytes.Buffer
	if err := session.Save(&buf); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Edit session is closed",
		})
	}

	contentType := MimeType(session.Format())
	filename := "edited." + session.Format()

	newURL, err := h.storage.UploadPhoto(c.Context(), userID, filename, contentType, &buf, int64(buf.Len()))
	if err != nil {
		log.Printf("Edited photo upload failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store edited photo",
		})
	}

	if err := h.swapPhoto(c, userID, sourceURL, newURL); err != nil {
		_ = h.storage.DeletePhoto(c.Context(), media.PhotoObjectName(newURL))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update gallery",
		})
	}

	if objectName := media.PhotoObjectName(sourceURL); objectName != "" {
		if err := h.storage.DeletePhoto(c.Context(), objectName); err != nil {
			log.Printf("Failed to delete replaced photo %s: %v", objectName, err)
		}
	}

	h.manager.Remove(sessionID)

	return c.JSON(fiber.Map{
		"url":   newURL,
		"state": StateSaved,
	})
}

// Cancel discards the session.
func (h *Handler) Cancel(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	sessionID := c.Params("id")

	session, _, err := h.manager.Get(sessionID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Edit session not found",
		})
	}

	session.Cancel()
	h.manager.Remove(sessionID)

	return c.JSON(fiber.Map{
		"state": StateCancelled,
	})
}

func (h *Handler) swapPhoto(c *fiber.Ctx, userID, oldURL, newURL string) error {
	profile, err := h.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return err
	}

	if profile.ProfilePictureURL != nil && *profile.ProfilePictureURL == oldURL {
		return h.profileService.SetProfilePicture(c.Context(), userID, &newURL)
	}

	gallery := make([]string, len(profile.GalleryImages))
	for i, u := range profile.GalleryImages {
		if u == oldURL {
			gallery[i] = newURL
		} else {
			gallery[i] = u
		}
	}
	return h.profileService.SetGalleryImages(c.Context(), userID, gallery)
}

func ownsPhoto(p *profiles.Profile, url string) bool {
	if p.ProfilePictureURL != nil && *p.ProfilePictureURL == url {
		return true
	}
	for _, u := range p.GalleryImages {
		if u == url {
			return true
		}
	}
	return false
}

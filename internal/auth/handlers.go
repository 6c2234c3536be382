package auth

import (
	"context"
	"database/sql"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	db           *sql.DB
	jwtService   *JWTService
	sessionStore *SessionStore
	limiter      *AttemptLimiter
}

func NewAuthHandler(db *sql.DB, jwtService *JWTService, sessionStore *SessionStore, limiter *AttemptLimiter) *AuthHandler {
	return &AuthHandler{
		db:           db,
		jwtService:   jwtService,
		sessionStore: sessionStore,
		limiter:      limiter,
	}
}

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)
)

var signupRoles = map[string]bool{
	"client": true,
	"escort": true,
	"agency": true,
}

// Register creates an account and returns a token pair.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))

	if !emailRegex.MatchString(req.Email) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email address",
		})
	}
	if !usernameRegex.MatchString(req.Username) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid username format. Use 3-30 lowercase letters, digits or underscore",
		})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 8 characters",
		})
	}
	if !signupRoles[req.Role] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account role",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process password",
		})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	// Escort listings start in the moderation queue
	status := "approved"
	if req.Role == "escort" {
		status = "pending"
	}

	userID := uuid.New().String()
	_, err = h.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, username, password_hash, role, status,
		                       is_active, last_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, true, NOW(), NOW(), NOW())`,
		userID, req.Email, req.Username, string(hash), req.Role, status,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email or username already in use",
			})
		}
		log.Printf("Failed to create account: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	accessToken, refreshToken, err := h.jwtService.GenerateTokenPair(userID, req.Role)
	if err != nil {
		log.Printf("Failed to generate tokens: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate tokens",
		})
	}

	h.storeSession(ctx, refreshToken, userID, req.Role)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user_id":       userID,
		"role":          req.Role,
	})
}

// Login verifies credentials and returns a token pair.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	// Failed attempts per email are capped independently of the IP limit
	attempts, err := h.limiter.Increment(ctx, "login:"+req.Email, time.Hour)
	if err == nil && attempts > 10 {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many login attempts, please try again later",
		})
	}

	var userID, role, passwordHash string
	var isActive bool
	err = h.db.QueryRowContext(ctx,
		`SELECT id, role, password_hash, is_active
		 FROM profiles WHERE email = $1 AND deleted_at IS NULL`,
		req.Email,
	).Scan(&userID, &role, &passwordHash, &isActive)

	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid email or password",
			})
		}
		log.Printf("Login query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to sign in",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	if !isActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is deactivated",
		})
	}

	accessToken, refreshToken, err := h.jwtService.GenerateTokenPair(userID, role)
	if err != nil {
		log.Printf("Failed to generate tokens: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate tokens",
		})
	}

	h.storeSession(ctx, refreshToken, userID, role)
	_ = h.limiter.Reset(ctx, "login:"+req.Email)

	_, _ = h.db.ExecContext(ctx,
		`UPDATE profiles SET last_active = NOW() WHERE id = $1`, userID)

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user_id":       userID,
		"role":          role,
	})
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	claims, err := h.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid refresh token",
		})
	}

	if claims.Type != "refresh" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not a refresh token",
		})
	}

	ctx := c.Context()
	session, err := h.sessionStore.GetSession(ctx, req.RefreshToken)
	if err != nil || len(session) == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	accessToken, err := h.jwtService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to refresh token",
		})
	}

	h.sessionStore.ExtendSession(ctx, req.RefreshToken, 7*24*time.Hour)

	return c.JSON(fiber.Map{
		"access_token": accessToken,
	})
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.RefreshToken != "" {
		h.sessionStore.DeleteSession(c.Context(), req.RefreshToken)
	}

	if userID, ok := c.Locals("userID").(string); ok && userID != "" {
		_, _ = h.db.ExecContext(c.Context(),
			`UPDATE profiles SET last_active = NOW() WHERE id = $1`, userID)
	}

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) storeSession(ctx context.Context, refreshToken, userID, role string) {
	sessionData := map[string]string{
		"user_id": userID,
		"role":    role,
	}
	if err := h.sessionStore.StoreSession(ctx, refreshToken, sessionData, 7*24*time.Hour); err != nil {
		log.Printf("Failed to store session for %s: %v", userID, err)
	}
}

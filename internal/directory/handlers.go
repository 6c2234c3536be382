package directory

import (
	"database/sql"
	"strconv"
	"strings"

	"escort-directory/internal/profiles"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the public directory. Listings are fetched wholesale and
// filtered, sorted and paginated in memory by this package.
type Handler struct {
	profileService *profiles.Service
	pageSize       int
}

// NewHandler creates a new directory handler
func NewHandler(db *sql.DB, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Handler{
		profileService: profiles.NewService(db),
		pageSize:       pageSize,
	}
}

// Browse returns one page of the filtered, sorted directory.
func (h *Handler) Browse(c *fiber.Ctx) error {
	filters := parseFilters(c)

	sortBy := c.Query("sort", SortFeatured)
	if !ValidSort(sortBy) {
		sortBy = SortFeatured
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	list, err := h.profileService.ListDirectory(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch listings",
		})
	}

	filtered := Apply(list, filters)
	sorted := Sort(filtered, sortBy)
	result := Paginate(sorted, page, h.pageSize)

	cards := make([]*profiles.PublicProfile, 0, len(result.Items))
	for _, p := range result.Items {
		cards = append(cards, p.Public())
	}

	return c.JSON(fiber.Map{
		"profiles":    cards,
		"page":        page,
		"page_size":   h.pageSize,
		"total_pages": result.TotalPages,
		"total_count": result.TotalCount,
		"sort":        sortBy,
	})
}

// GetProfile returns a full public listing and bumps its view counter.
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	profileID := c.Params("id")

	p, err := h.profileService.GetProfile(c.Context(), profileID)
	if err != nil {
		if err == profiles.ErrProfileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch profile",
		})
	}

	if p.Role != profiles.RoleEscort || p.Status != profiles.StatusApproved || !p.IsActive {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	// Best effort, a lost view is not worth failing the request
	_ = h.profileService.IncrementViewCount(c.Context(), profileID)

	return c.JSON(p)
}

func parseFilters(c *fiber.Ctx) *FilterState {
	return &FilterState{
		SearchQuery: strings.TrimSpace(c.Query("search")),

		Ethnicity:   c.Query("ethnicity"),
		Nationality: c.Query("nationality"),
		BodyType:    c.Query("body_type"),
		HairColor:   c.Query("hair_color"),
		EyeColor:    c.Query("eye_color"),
		CupSize:     c.Query("cup_size"),
		Smoking:     c.Query("smoking"),
		Drinking:    c.Query("drinking"),

		Location: c.Query("location"),

		MinAge:    queryIntPtr(c, "min_age"),
		MaxAge:    queryIntPtr(c, "max_age"),
		MinHeight: queryIntPtr(c, "min_height"),
		MaxHeight: queryIntPtr(c, "max_height"),
		MinWeight: queryIntPtr(c, "min_weight"),
		MaxWeight: queryIntPtr(c, "max_weight"),
		MinPrice:  queryIntPtr(c, "min_price"),
		MaxPrice:  queryIntPtr(c, "max_price"),

		Services:  queryList(c, "services"),
		Languages: queryList(c, "languages"),

		VerifiedOnly: c.QueryBool("verified_only", false),
		FeaturedOnly: c.QueryBool("featured_only", false),
		Tattoos:      c.QueryBool("tattoos", false),
		Piercings:    c.QueryBool("piercings", false),
		ActiveToday:  c.QueryBool("active_today", false),
	}
}

func queryIntPtr(c *fiber.Ctx, key string) *int {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryList(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

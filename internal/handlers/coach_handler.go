package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/cache"
	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/careerlift/CareerLiftBack/internal/repository"
	"github.com/careerlift/CareerLiftBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	featuredCoachLimit   = 6
	featuredCacheKey     = "coaches:featured"
	featuredCacheTTL     = 5 * time.Minute
	recommendedCacheTTL  = 5 * time.Minute
)

type coachDirectoryRepository interface {
	List(ctx context.Context, filter repository.CoachListFilter) ([]models.CoachProfile, int, error)
	GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
	ListTopRated(ctx context.Context, limit int) ([]models.CoachProfile, error)
	GetAvailableSlots(ctx context.Context, coachUserID int64, limit int) ([]time.Time, error)
	UpdatePartial(ctx context.Context, userID int64, input repository.UpdateCoachProfileInput) (*models.CoachProfile, error)
	UpdateImage(ctx context.Context, userID int64, imageURL string) error
}

type coachRecommender interface {
	GetRecommendedCoaches(ctx context.Context, interests []string, limit int) ([]models.CoachWithScore, error)
}

type CoachHandler struct {
	coachRepo coachDirectoryRepository
	recommend coachRecommender
	cache     *cache.Client
	storage   services.StorageService
}

func NewCoachHandler(
	coachRepo coachDirectoryRepository,
	recommend coachRecommender,
	cacheClient *cache.Client,
	storage services.StorageService,
) *CoachHandler {
	return &CoachHandler{
		coachRepo: coachRepo,
		recommend: recommend,
		cache:     cacheClient,
		storage:   storage,
	}
}

// ListCoaches serves the directory. When the store is unreachable the
// endpoint degrades to a fixed fallback list instead of failing; the
// response carries "degraded": true so callers can tell.
func (h *CoachHandler) ListCoaches(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	minPrice, err := parsePriceCents(c.Query("min_price"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "min_price must be a valid non-negative number"})
	}
	maxPrice, err := parsePriceCents(c.Query("max_price"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max_price must be a valid non-negative number"})
	}
	minRating, err := parseNonNegativeFloat(c.Query("min_rating"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "min_rating must be a valid non-negative number"})
	}

	coaches, total, err := h.coachRepo.List(c.Context(), repository.CoachListFilter{
		Expertise:     strings.TrimSpace(c.Query("expertise")),
		MinPriceCents: minPrice,
		MaxPriceCents: maxPrice,
		MinRating:     minRating,
		Search:        strings.TrimSpace(c.Query("search")),
		Offset:        (page - 1) * limit,
		Limit:         limit,
	})
	if err != nil {
		log.Printf("coach listing degraded: %v", err)
		return c.JSON(fiber.Map{
			"coaches":    fallbackCoachList(),
			"pagination": buildPaginationMeta(1, limit, len(fallbackCoachList())),
			"degraded":   true,
		})
	}

	response := make([]models.CoachListResponse, 0, len(coaches))
	for _, coach := range coaches {
		response = append(response, buildCoachListResponse(coach, 0))
	}

	return c.JSON(fiber.Map{
		"coaches":    response,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *CoachHandler) GetFeaturedCoaches(c *fiber.Ctx) error {
	if cached, _ := h.cache.Get(c.Context(), featuredCacheKey); cached != nil {
		var response []models.CoachListResponse
		if err := json.Unmarshal(cached, &response); err == nil {
			return c.JSON(fiber.Map{"coaches": response})
		}
	}

	coaches, err := h.coachRepo.ListTopRated(c.Context(), featuredCoachLimit)
	if err != nil {
		log.Printf("featured coaches degraded: %v", err)
		return c.JSON(fiber.Map{"coaches": fallbackCoachList(), "degraded": true})
	}

	response := make([]models.CoachListResponse, 0, len(coaches))
	for _, coach := range coaches {
		response = append(response, buildCoachListResponse(coach, 0))
	}

	if encoded, err := json.Marshal(response); err == nil {
		_ = h.cache.Set(c.Context(), featuredCacheKey, encoded, featuredCacheTTL)
	}

	return c.JSON(fiber.Map{"coaches": response})
}

func (h *CoachHandler) GetRecommendedCoaches(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	interests := make([]string, 0)
	for _, interest := range strings.Split(c.Query("interests"), ",") {
		if trimmed := strings.TrimSpace(interest); trimmed != "" {
			interests = append(interests, trimmed)
		}
	}

	cacheKey := fmt.Sprintf("coaches:recommended:%d:%d:%s", userID, limit, strings.Join(interests, ","))
	if cached, _ := h.cache.Get(c.Context(), cacheKey); cached != nil {
		var response []models.CoachListResponse
		if err := json.Unmarshal(cached, &response); err == nil {
			return c.JSON(fiber.Map{"coaches": response})
		}
	}

	coaches, err := h.recommend.GetRecommendedCoaches(c.Context(), interests, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch recommended coaches"})
	}

	response := make([]models.CoachListResponse, 0, len(coaches))
	for _, coach := range coaches {
		response = append(response, buildCoachListResponse(coach.CoachProfile, coach.MatchScore))
	}

	if encoded, err := json.Marshal(response); err == nil {
		_ = h.cache.Set(c.Context(), cacheKey, encoded, recommendedCacheTTL)
	}

	return c.JSON(fiber.Map{"coaches": response})
}

func (h *CoachHandler) GetCoachDetail(c *fiber.Ctx) error {
	coachID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || coachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	coach, err := h.coachRepo.GetByUserID(c.Context(), coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch coach"})
	}

	slots, err := h.coachRepo.GetAvailableSlots(c.Context(), coachID, 10)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch coach availability"})
	}

	return c.JSON(fiber.Map{
		"coach": buildCoachDetailResponse(*coach, slots),
	})
}

type updateCoachProfileRequest struct {
	FullName        *string   `json:"full_name"`
	Bio             *string   `json:"bio"`
	Expertise       *[]string `json:"expertise"`
	Certifications  *[]string `json:"certifications"`
	Languages       *[]string `json:"languages"`
	ExperienceYears *int      `json:"experience_years"`
	HourlyRateCents *int64    `json:"hourly_rate_cents"`
}

func (h *CoachHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateCoachProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.HourlyRateCents != nil && *req.HourlyRateCents < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "hourly_rate_cents must be non-negative"})
	}
	if req.ExperienceYears != nil && *req.ExperienceYears < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "experience_years must be non-negative"})
	}

	profile, err := h.coachRepo.UpdatePartial(c.Context(), userID, repository.UpdateCoachProfileInput{
		FullName:        req.FullName,
		Bio:             req.Bio,
		Expertise:       req.Expertise,
		Certifications:  req.Certifications,
		Languages:       req.Languages,
		ExperienceYears: req.ExperienceYears,
		HourlyRateCents: req.HourlyRateCents,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	_ = h.cache.Delete(c.Context(), featuredCacheKey)

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *CoachHandler) UploadImage(c *fiber.Ctx) error {
	if h.storage == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Image storage is not configured"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read image"})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read image"})
	}

	objectPath := fmt.Sprintf("coaches/%d/%s%s", userID, uuid.NewString(), path.Ext(fileHeader.Filename))
	imageURL, err := h.storage.Upload(c.Context(), content, objectPath)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to upload image"})
	}

	if err := h.coachRepo.UpdateImage(c.Context(), userID, imageURL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save image"})
	}

	return c.JSON(fiber.Map{"image_url": imageURL})
}

// fallbackCoachList is served when the directory store is unreachable so the
// marketing pages stay populated.
func fallbackCoachList() []models.CoachListResponse {
	return []models.CoachListResponse{
		{
			ID:              "fallback-1",
			FullName:        "Sarah Mitchell",
			Expertise:       []string{"interview_prep", "career_change"},
			HourlyRateCents: 12000,
			Rating:          4.9,
			TotalReviews:    120,
			ExperienceYears: 8,
		},
		{
			ID:              "fallback-2",
			FullName:        "James Okafor",
			Expertise:       []string{"leadership", "salary_negotiation"},
			HourlyRateCents: 15000,
			Rating:          4.8,
			TotalReviews:    95,
			ExperienceYears: 11,
		},
	}
}

func buildCoachListResponse(coach models.CoachProfile, matchScore int) models.CoachListResponse {
	response := models.CoachListResponse{
		ID:           strconv.FormatInt(coach.UserID, 10),
		TotalReviews: coach.TotalReviews,
		MatchScore:   matchScore,
	}
	if coach.FullName != nil {
		response.FullName = *coach.FullName
	}
	if coach.ImageURL != nil {
		response.ImageURL = *coach.ImageURL
	}
	if coach.Expertise != nil {
		response.Expertise = *coach.Expertise
	} else {
		response.Expertise = []string{}
	}
	if coach.HourlyRateCents != nil {
		response.HourlyRateCents = *coach.HourlyRateCents
	}
	if coach.Rating != nil {
		response.Rating = *coach.Rating
	}
	if coach.ExperienceYears != nil {
		response.ExperienceYears = *coach.ExperienceYears
	}
	return response
}

func buildCoachDetailResponse(coach models.CoachProfile, slots []time.Time) models.CoachDetailResponse {
	response := models.CoachDetailResponse{
		CoachListResponse: buildCoachListResponse(coach, 0),
	}
	if coach.Bio != nil {
		response.Bio = *coach.Bio
	}
	if coach.Certifications != nil {
		response.Certifications = *coach.Certifications
	} else {
		response.Certifications = []string{}
	}
	if coach.Languages != nil {
		response.Languages = *coach.Languages
	} else {
		response.Languages = []string{}
	}
	response.AvailableSlots = make([]string, 0, len(slots))
	for _, slot := range slots {
		response.AvailableSlots = append(response.AvailableSlots, slot.UTC().Format(time.RFC3339))
	}
	return response
}

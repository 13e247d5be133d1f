package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type createReviewRequest struct {
	CoachID     int64  `json:"coach_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	SessionDate string `json:"session_date"`
}

func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	sessionDate := time.Now().UTC()
	if strings.TrimSpace(req.SessionDate) != "" {
		parsed, err := time.Parse("2006-01-02", req.SessionDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "session_date must be YYYY-MM-DD"})
		}
		sessionDate = parsed
	}

	review, err := h.reviewService.CreateReview(c.Context(), userID, services.CreateReviewInput{
		CoachID:     req.CoachID,
		Rating:      req.Rating,
		Comment:     req.Comment,
		SessionDate: sessionDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "rating must be 1-5 and comment at most 1000 characters"})
		case errors.Is(err, services.ErrCoachNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
		case errors.Is(err, services.ErrReviewNotAllowed):
			return c.Status(fiber.StatusForbidden).
				JSON(fiber.Map{"error": "Reviews require a completed session with this coach"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create review"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}

func (h *ReviewHandler) ListCoachReviews(c *fiber.Ctx) error {
	coachID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || coachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	reviews, total, err := h.reviewService.ListByCoach(c.Context(), coachID, (page-1)*limit, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reviews"})
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return c.JSON(fiber.Map{
		"reviews": reviews,
		"pagination": fiber.Map{
			"current_page":  page,
			"total_pages":   totalPages,
			"total_reviews": total,
		},
	})
}

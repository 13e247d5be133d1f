package handlers

import (
	"math"
	"strconv"
	"strings"

	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.PaginationMeta{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalCoaches: total,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1 && total > 0,
	}
}

func parsePositiveInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func parseNonNegativeFloat(value string) (*float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || parsed < 0 || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil, errInvalidQueryValue
	}
	return &parsed, nil
}

// parsePriceCents reads a price in major units and converts to cents.
func parsePriceCents(value string) (*int64, error) {
	parsed, err := parseNonNegativeFloat(value)
	if err != nil || parsed == nil {
		return nil, err
	}
	cents := int64(math.Round(*parsed * 100))
	return &cents, nil
}

// parseAuthUserID reads the authenticated user id set by the auth
// middleware.
func parseAuthUserID(c *fiber.Ctx) (int64, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, errInvalidToken
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errInvalidToken
	}
	return userID, nil
}

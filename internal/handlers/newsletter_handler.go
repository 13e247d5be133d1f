package handlers

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/careerlift/CareerLiftBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NewsletterHandler struct {
	newsletterService *services.NewsletterService
}

func NewNewsletterHandler(newsletterService *services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

type subscribeRequest struct {
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	email := strings.ToLower(parsedEmail.Address)

	subscriber, resent, err := h.newsletterService.Subscribe(c.Context(), email, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadySubscribed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already subscribed"})
		case errors.Is(err, services.ErrDispatchFailed):
			return c.Status(fiber.StatusBadGateway).
				JSON(fiber.Map{"error": "Could not send verification email, please try again"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to subscribe"})
		}
	}

	if resent {
		return c.JSON(fiber.Map{
			"message": "Verification email resent",
			"resent":  true,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Verification email sent",
		"subscriber": subscriber,
	})
}

func (h *NewsletterHandler) Verify(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}

	subscriber, err := h.newsletterService.VerifyToken(c.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"error": "Verification token not found or already used"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify subscription"})
	}

	return c.JSON(fiber.Map{
		"message":    "Subscription verified",
		"subscriber": subscriber,
	})
}

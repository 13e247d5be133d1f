package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/repository"
	"github.com/careerlift/CareerLiftBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

type createBookingRequest struct {
	CoachID         int64   `json:"coach_id"`
	ScheduledAt     string  `json:"scheduled_at"`
	DurationMinutes int     `json:"duration_minutes"`
	Notes           *string `json:"notes"`
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "scheduled_at must be RFC3339"})
	}

	detail, err := h.bookingService.CreateBooking(c.Context(), userID, services.CreateBookingInput{
		CoachID:         req.CoachID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		return mapBookingError(c, err, "Failed to create booking")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": detail})
}

func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	role, _ := c.Locals("role").(string)

	details, err := h.bookingService.ListBookings(c.Context(), userID, role, repository.BookingListFilter{
		Status:    strings.TrimSpace(c.Query("status")),
		Timeframe: strings.TrimSpace(c.Query("timeframe")),
	})
	if err != nil {
		return mapBookingError(c, err, "Failed to fetch bookings")
	}

	return c.JSON(fiber.Map{"bookings": details})
}

// ListUpcoming feeds the client dashboard card: the next sessions plus the
// caller's lifetime completed count.
func (h *BookingHandler) ListUpcoming(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	bookings, totalCompleted, err := h.bookingService.UpcomingForUser(c.Context(), userID)
	if err != nil {
		return mapBookingError(c, err, "Failed to fetch upcoming bookings")
	}

	return c.JSON(fiber.Map{
		"bookings":        bookings,
		"total_completed": totalCompleted,
	})
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	role, _ := c.Locals("role").(string)

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	detail, err := h.bookingService.GetBooking(c.Context(), userID, role, bookingID)
	if err != nil {
		return mapBookingError(c, err, "Failed to fetch booking")
	}

	return c.JSON(fiber.Map{"booking": detail})
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
}

func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	role, _ := c.Locals("role").(string)

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req updateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	detail, err := h.bookingService.UpdateStatus(c.Context(), userID, role, bookingID, req.Status)
	if err != nil {
		return mapBookingError(c, err, "Failed to update booking")
	}

	return c.JSON(fiber.Map{"booking": detail})
}

type payBookingRequest struct {
	PaymentMethod *string `json:"payment_method"`
}

func (h *BookingHandler) PayBooking(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	role, _ := c.Locals("role").(string)

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req payBookingRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	detail, err := h.bookingService.Pay(c.Context(), userID, role, bookingID, req.PaymentMethod)
	if err != nil {
		return mapBookingError(c, err, "Failed to process payment")
	}

	return c.JSON(fiber.Map{"booking": detail})
}

func (h *BookingHandler) RefundPayment(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	payment, err := h.bookingService.RefundPayment(c.Context(), role, bookingID)
	if err != nil {
		return mapBookingError(c, err, "Failed to refund payment")
	}

	return c.JSON(fiber.Map{"payment": payment})
}

type updatePaymentAmountRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

func (h *BookingHandler) UpdatePaymentAmount(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)

	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req updatePaymentAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	payment, err := h.bookingService.UpdatePaymentAmount(c.Context(), role, bookingID, req.AmountCents)
	if err != nil {
		return mapBookingError(c, err, "Failed to update payment")
	}

	return c.JSON(fiber.Map{"payment": payment})
}

func mapBookingError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvalidDuration):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking request"})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrCoachNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"error": "The coach already has a booking in that time range"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"error": "The booking or payment state does not allow this change"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}

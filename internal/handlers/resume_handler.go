package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/careerlift/CareerLiftBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ResumeHandler struct {
	resumeService *services.ResumeService
}

func NewResumeHandler(resumeService *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

func (h *ResumeHandler) ListTemplates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"templates": h.resumeService.Templates()})
}

type createResumeRequest struct {
	Title      string          `json:"title"`
	TemplateID string          `json:"template_id"`
	Content    json.RawMessage `json:"content"`
}

func (h *ResumeHandler) CreateResume(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resume, err := h.resumeService.Create(
		c.Context(), userID, strings.TrimSpace(req.Title), req.TemplateID, req.Content,
	)
	if err != nil {
		return mapResumeError(c, err, "Failed to create resume")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"resume": resume})
}

func (h *ResumeHandler) ListResumes(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	resumes, err := h.resumeService.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch resumes"})
	}
	return c.JSON(fiber.Map{"resumes": resumes})
}

func (h *ResumeHandler) GetResume(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	resumeID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || resumeID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resume id"})
	}

	resume, err := h.resumeService.Get(c.Context(), userID, resumeID)
	if err != nil {
		return mapResumeError(c, err, "Failed to fetch resume")
	}
	return c.JSON(fiber.Map{"resume": resume})
}

type updateResumeRequest struct {
	Title      *string         `json:"title"`
	TemplateID *string         `json:"template_id"`
	Content    json.RawMessage `json:"content"`
}

func (h *ResumeHandler) UpdateResume(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	resumeID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || resumeID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resume id"})
	}

	var req updateResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resume, err := h.resumeService.Update(c.Context(), userID, resumeID, req.Title, req.TemplateID, req.Content)
	if err != nil {
		return mapResumeError(c, err, "Failed to update resume")
	}
	return c.JSON(fiber.Map{"resume": resume})
}

func (h *ResumeHandler) DeleteResume(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	resumeID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || resumeID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resume id"})
	}

	if err := h.resumeService.Delete(c.Context(), userID, resumeID); err != nil {
		return mapResumeError(c, err, "Failed to delete resume")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportLayout computes the page slicing for a rendered resume of the given
// height. The client rasterizes; this endpoint only answers how the surface
// splits into pages.
func (h *ResumeHandler) ExportLayout(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	resumeID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || resumeID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resume id"})
	}
	if _, err := h.resumeService.Get(c.Context(), userID, resumeID); err != nil {
		return mapResumeError(c, err, "Failed to fetch resume")
	}

	heightMM, err := strconv.ParseFloat(strings.TrimSpace(c.Query("height_mm")), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "height_mm must be a positive number"})
	}

	pages, err := services.PageLayout(heightMM)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "height_mm must be a positive number"})
	}

	return c.JSON(fiber.Map{
		"page_height_mm": services.PageHeightMM,
		"page_count":     len(pages),
		"pages":          pages,
	})
}

func mapResumeError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "title and a valid template_id are required"})
	case errors.Is(err, services.ErrResumeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resume not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
	}
}

package handlers

import (
	"net/mail"
	"strings"

	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/careerlift/CareerLiftBack/internal/repository"
	"github.com/gofiber/fiber/v2"
)

type CorporateHandler struct {
	corporateRepo *repository.CorporateRepository
}

func NewCorporateHandler(corporateRepo *repository.CorporateRepository) *CorporateHandler {
	return &CorporateHandler{corporateRepo: corporateRepo}
}

type corporateInquiryRequest struct {
	CompanyName string  `json:"company_name"`
	ContactName string  `json:"contact_name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	TeamSize    *int    `json:"team_size"`
	Message     string  `json:"message"`
}

func (h *CorporateHandler) CreateInquiry(c *fiber.Ctx) error {
	var req corporateInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if strings.TrimSpace(req.CompanyName) == "" || strings.TrimSpace(req.ContactName) == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "company_name and contact_name are required"})
	}
	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	if req.TeamSize != nil && *req.TeamSize < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "team_size must be positive"})
	}

	inquiry := &models.CorporateInquiry{
		CompanyName: strings.TrimSpace(req.CompanyName),
		ContactName: strings.TrimSpace(req.ContactName),
		Email:       strings.ToLower(parsedEmail.Address),
		Phone:       req.Phone,
		TeamSize:    req.TeamSize,
		Message:     strings.TrimSpace(req.Message),
	}
	if err := h.corporateRepo.CreateInquiry(c.Context(), inquiry); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit inquiry"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"inquiry": inquiry})
}

func (h *CorporateHandler) ListInquiries(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	inquiries, total, err := h.corporateRepo.ListInquiries(c.Context(), (page-1)*limit, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch inquiries"})
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return c.JSON(fiber.Map{
		"inquiries": inquiries,
		"pagination": fiber.Map{
			"current_page":    page,
			"total_pages":     totalPages,
			"total_inquiries": total,
		},
	})
}

type corporateAccountRequest struct {
	CompanyName  string `json:"company_name"`
	ContactEmail string `json:"contact_email"`
	CreditsTotal int    `json:"credits_total"`
}

func (h *CorporateHandler) CreateAccount(c *fiber.Ctx) error {
	var req corporateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if strings.TrimSpace(req.CompanyName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "company_name is required"})
	}
	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.ContactEmail))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid contact_email format"})
	}
	if req.CreditsTotal < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "credits_total must be non-negative"})
	}

	account := &models.CorporateAccount{
		CompanyName:  strings.TrimSpace(req.CompanyName),
		ContactEmail: strings.ToLower(parsedEmail.Address),
		CreditsTotal: req.CreditsTotal,
	}
	if err := h.corporateRepo.CreateAccount(c.Context(), account); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"account": account})
}

func (h *CorporateHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.corporateRepo.ListAccounts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch accounts"})
	}
	return c.JSON(fiber.Map{"accounts": accounts})
}

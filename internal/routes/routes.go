package routes

import (
	"context"
	"log"

	"github.com/careerlift/CareerLiftBack/internal/cache"
	"github.com/careerlift/CareerLiftBack/internal/config"
	"github.com/careerlift/CareerLiftBack/internal/handlers"
	"github.com/careerlift/CareerLiftBack/internal/mail"
	"github.com/careerlift/CareerLiftBack/internal/middleware"
	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/careerlift/CareerLiftBack/internal/repository"
	"github.com/careerlift/CareerLiftBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires repositories, services and handlers onto the app.
func RegisterRoutes(app *fiber.App, db *pgxpool.Pool, cfg *config.Config) error {
	userRepo := repository.NewUserRepository(db)
	coachRepo := repository.NewCoachRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)
	corporateRepo := repository.NewCorporateRepository(db)
	resumeRepo := repository.NewResumeRepository(db)

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.MailEnabled() {
		sesMailer, err := mail.NewSESMailer(context.Background(), cfg.AWSRegion, cfg.EmailSender)
		if err != nil {
			return err
		}
		mailer = sesMailer
	} else {
		log.Println("SES not configured, using log mailer")
	}

	var storage services.StorageService
	if cfg.StorageEnabled() {
		storage = services.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	bookingService := services.NewBookingService(db, bookingRepo, paymentRepo, userRepo, coachRepo, mailer)
	reviewService := services.NewReviewService(db, reviewRepo, bookingRepo, userRepo, coachRepo)
	newsletterService := services.NewNewsletterService(newsletterRepo, mailer, cfg.PublicBaseURL)
	recommendationService := services.NewRecommendationService(coachRepo)
	resumeService := services.NewResumeService(resumeRepo)

	authHandler := handlers.NewAuthHandler(db, userRepo, coachRepo, cfg.JWTSecret)
	coachHandler := handlers.NewCoachHandler(coachRepo, recommendationService, cacheClient, storage)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService)
	corporateHandler := handlers.NewCorporateHandler(corporateRepo)
	resumeHandler := handlers.NewResumeHandler(resumeService)

	authRequired := middleware.AuthRequired(cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/oauth", authHandler.OAuth)
	auth.Get("/me", authRequired, authHandler.Me)

	coaches := api.Group("/coaches")
	coaches.Get("/", coachHandler.ListCoaches)
	coaches.Get("/featured", coachHandler.GetFeaturedCoaches)
	coaches.Get("/recommended", authRequired, middleware.RequireRole(models.RoleClient), coachHandler.GetRecommendedCoaches)
	coaches.Get("/:id", coachHandler.GetCoachDetail)
	coaches.Get("/:id/reviews", reviewHandler.ListCoachReviews)
	coaches.Put("/profile", authRequired, middleware.RequireRole(models.RoleCoach), coachHandler.UpdateProfile)
	coaches.Post("/profile/image", authRequired, middleware.RequireRole(models.RoleCoach), coachHandler.UploadImage)

	bookings := api.Group("/bookings", authRequired)
	bookings.Post("/", middleware.RequireRole(models.RoleClient), bookingHandler.CreateBooking)
	bookings.Get("/", bookingHandler.ListBookings)
	bookings.Get("/user", bookingHandler.ListUpcoming)
	bookings.Get("/:id", bookingHandler.GetBooking)
	bookings.Put("/:id/status", bookingHandler.UpdateStatus)
	bookings.Post("/:id/pay", middleware.RequireRole(models.RoleClient), bookingHandler.PayBooking)
	bookings.Post("/:id/refund", middleware.RequireRole(models.RoleAdmin), bookingHandler.RefundPayment)
	bookings.Patch("/:id/payment", middleware.RequireRole(models.RoleAdmin), bookingHandler.UpdatePaymentAmount)

	reviews := api.Group("/reviews", authRequired)
	reviews.Post("/", middleware.RequireRole(models.RoleClient), reviewHandler.CreateReview)

	newsletter := api.Group("/newsletter")
	newsletter.Post("/", newsletterHandler.Subscribe)
	newsletter.Post("/subscribe", newsletterHandler.Subscribe)
	newsletter.Get("/verify", newsletterHandler.Verify)

	corporate := api.Group("/corporate")
	corporate.Post("/inquiries", corporateHandler.CreateInquiry)
	corporate.Get("/inquiries", authRequired, middleware.RequireRole(models.RoleAdmin), corporateHandler.ListInquiries)
	corporate.Post("/accounts", authRequired, middleware.RequireRole(models.RoleAdmin), corporateHandler.CreateAccount)
	corporate.Get("/accounts", authRequired, middleware.RequireRole(models.RoleAdmin), corporateHandler.ListAccounts)

	resumes := api.Group("/resumes", authRequired)
	resumes.Get("/templates", resumeHandler.ListTemplates)
	resumes.Post("/", resumeHandler.CreateResume)
	resumes.Get("/", resumeHandler.ListResumes)
	resumes.Get("/:id", resumeHandler.GetResume)
	resumes.Put("/:id", resumeHandler.UpdateResume)
	resumes.Delete("/:id", resumeHandler.DeleteResume)
	resumes.Get("/:id/export/layout", resumeHandler.ExportLayout)

	return nil
}

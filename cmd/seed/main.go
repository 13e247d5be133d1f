package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

type seedCoach struct {
	email           string
	name            string
	bio             string
	expertise       []string
	certifications  []string
	languages       []string
	experienceYears int
	hourlyRateCents int64
}

var seedCoaches = []seedCoach{
	{
		email:           "sarah.mitchell@careerlift.io",
		name:            "Sarah Mitchell",
		bio:             "Former FAANG recruiter helping candidates land offers through focused interview preparation.",
		expertise:       []string{"interview_prep", "resume_review"},
		certifications:  []string{"ICF ACC"},
		languages:       []string{"English"},
		experienceYears: 8,
		hourlyRateCents: 12000,
	},
	{
		email:           "james.okafor@careerlift.io",
		name:            "James Okafor",
		bio:             "Engineering director turned leadership coach for new and aspiring managers.",
		expertise:       []string{"leadership", "salary_negotiation"},
		certifications:  []string{"ICF PCC"},
		languages:       []string{"English", "French"},
		experienceYears: 11,
		hourlyRateCents: 15000,
	},
	{
		email:           "mei.tanaka@careerlift.io",
		name:            "Mei Tanaka",
		bio:             "Career-change specialist for professionals moving into tech from other industries.",
		expertise:       []string{"career_change", "resume_review"},
		certifications:  []string{},
		languages:       []string{"English", "Japanese"},
		experienceYears: 6,
		hourlyRateCents: 9500,
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lazyDB := database.NewLazy(dbUrl)
	defer lazyDB.Close()
	pool, err := lazyDB.Pool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	for _, coach := range seedCoaches {
		if err := seedOne(ctx, pool, coach); err != nil {
			log.Fatalf("Failed to seed %s: %v", coach.email, err)
		}
	}

	log.Printf("Seeded %d coaches", len(seedCoaches))
}

func seedOne(ctx context.Context, pool *pgxpool.Pool, coach seedCoach) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var userID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, name, role, provider, is_active)
		VALUES ($1, $2, 'coach', 'credentials', TRUE)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, coach.email, coach.name).Scan(&userID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO coach_profiles
			(user_id, full_name, bio, expertise, certifications, languages, experience_years, hourly_rate_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, coach.name, coach.bio, coach.expertise, coach.certifications, coach.languages,
		coach.experienceYears, coach.hourlyRateCents)
	if err != nil {
		return err
	}

	// A week of 10:00 UTC slots starting tomorrow.
	start := time.Now().UTC().Truncate(24 * time.Hour).Add(34 * time.Hour)
	for day := 0; day < 7; day++ {
		slot := start.Add(time.Duration(day) * 24 * time.Hour)
		if _, err := tx.Exec(ctx, `
			INSERT INTO coach_available_slots (coach_id, slot_at)
			VALUES ($1, $2)
			ON CONFLICT (coach_id, slot_at) DO NOTHING
		`, userID, slot); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

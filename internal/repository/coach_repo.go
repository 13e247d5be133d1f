package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/models"
)

const coachProfileColumns = `id, user_id, full_name, image_url, bio, expertise, certifications,
	languages, experience_years, hourly_rate_cents, rating, total_reviews, created_at, updated_at`

type CoachListFilter struct {
	Expertise     string
	MinPriceCents *int64
	MaxPriceCents *int64
	MinRating     *float64
	Search        string
	Offset        int
	Limit         int
}

type UpdateCoachProfileInput struct {
	FullName        *string
	ImageURL        *string
	Bio             *string
	Expertise       *[]string
	Certifications  *[]string
	Languages       *[]string
	ExperienceYears *int
	HourlyRateCents *int64
}

type CoachRepository struct {
	db DBTX
}

func NewCoachRepository(db DBTX) *CoachRepository {
	return &CoachRepository{db: db}
}

func (r *CoachRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO coach_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *CoachRepository) GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM coach_profiles
		WHERE user_id = $1
	`, coachProfileColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, userID))
}

// List applies the conjunctive directory filter. Expertise is a
// case-insensitive substring match against the tag set; search ORs across
// name, bio and tags.
func (r *CoachRepository) List(ctx context.Context, filter CoachListFilter) ([]models.CoachProfile, int, error) {
	args := []any{}
	whereParts := []string{"hourly_rate_cents IS NOT NULL"}

	if expertise := strings.TrimSpace(filter.Expertise); expertise != "" {
		args = append(args, expertise)
		whereParts = append(whereParts, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(expertise) AS tag WHERE tag ILIKE '%%' || $%d || '%%')",
			len(args),
		))
	}
	if filter.MinPriceCents != nil {
		args = append(args, *filter.MinPriceCents)
		whereParts = append(whereParts, fmt.Sprintf("hourly_rate_cents >= $%d", len(args)))
	}
	if filter.MaxPriceCents != nil {
		args = append(args, *filter.MaxPriceCents)
		whereParts = append(whereParts, fmt.Sprintf("hourly_rate_cents <= $%d", len(args)))
	}
	if filter.MinRating != nil {
		args = append(args, *filter.MinRating)
		whereParts = append(whereParts, fmt.Sprintf("rating >= $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, search)
		n := len(args)
		whereParts = append(whereParts, fmt.Sprintf(
			`(full_name ILIKE '%%' || $%d || '%%'
				OR bio ILIKE '%%' || $%d || '%%'
				OR EXISTS (SELECT 1 FROM unnest(expertise) AS tag WHERE tag ILIKE '%%' || $%d || '%%'))`,
			n, n, n,
		))
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM coach_profiles
		WHERE %s
		ORDER BY rating DESC NULLS LAST, id ASC
		LIMIT $%d OFFSET $%d
	`, coachProfileColumns, strings.Join(whereParts, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	coaches := make([]models.CoachProfile, 0)
	total := 0
	for rows.Next() {
		var profile models.CoachProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.FullName,
			&profile.ImageURL,
			&profile.Bio,
			&profile.Expertise,
			&profile.Certifications,
			&profile.Languages,
			&profile.ExperienceYears,
			&profile.HourlyRateCents,
			&profile.Rating,
			&profile.TotalReviews,
			&profile.CreatedAt,
			&profile.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		coaches = append(coaches, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return coaches, total, nil
}

func (r *CoachRepository) ListAll(ctx context.Context) ([]models.CoachProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM coach_profiles
		WHERE hourly_rate_cents IS NOT NULL
		ORDER BY id ASC
	`, coachProfileColumns)
	return r.scanMany(ctx, query)
}

func (r *CoachRepository) ListTopRated(ctx context.Context, limit int) ([]models.CoachProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM coach_profiles
		WHERE hourly_rate_cents IS NOT NULL AND rating IS NOT NULL
		ORDER BY rating DESC, total_reviews DESC, id ASC
		LIMIT $1
	`, coachProfileColumns)
	return r.scanMany(ctx, query, limit)
}

func (r *CoachRepository) UpdatePartial(ctx context.Context, userID int64, input UpdateCoachProfileInput) (*models.CoachProfile, error) {
	query := fmt.Sprintf(`
		UPDATE coach_profiles
		SET full_name = COALESCE($1, full_name),
			image_url = COALESCE($2, image_url),
			bio = COALESCE($3, bio),
			expertise = COALESCE($4, expertise),
			certifications = COALESCE($5, certifications),
			languages = COALESCE($6, languages),
			experience_years = COALESCE($7, experience_years),
			hourly_rate_cents = COALESCE($8, hourly_rate_cents),
			updated_at = NOW()
		WHERE user_id = $9
		RETURNING %s
	`, coachProfileColumns)
	return r.scanOne(r.db.QueryRow(ctx, query,
		input.FullName,
		input.ImageURL,
		input.Bio,
		input.Expertise,
		input.Certifications,
		input.Languages,
		input.ExperienceYears,
		input.HourlyRateCents,
		userID,
	))
}

func (r *CoachRepository) UpdateImage(ctx context.Context, userID int64, imageURL string) error {
	query := `UPDATE coach_profiles SET image_url = $2, updated_at = NOW() WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID, imageURL)
	return err
}

// RefreshRating recomputes the aggregate rating from stored reviews.
func (r *CoachRepository) RefreshRating(ctx context.Context, coachUserID int64) error {
	query := `
		UPDATE coach_profiles
		SET rating = sub.avg_rating,
			total_reviews = sub.review_count,
			updated_at = NOW()
		FROM (
			SELECT AVG(rating)::float8 AS avg_rating, COUNT(*)::int AS review_count
			FROM reviews
			WHERE coach_id = $1
		) AS sub
		WHERE user_id = $1
	`
	_, err := r.db.Exec(ctx, query, coachUserID)
	return err
}

func (r *CoachRepository) GetAvailableSlots(ctx context.Context, coachUserID int64, limit int) ([]time.Time, error) {
	query := `
		SELECT slot_at
		FROM coach_available_slots
		WHERE coach_id = $1 AND slot_at > NOW()
		ORDER BY slot_at ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, coachUserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]time.Time, 0)
	for rows.Next() {
		var slot time.Time
		if err := rows.Scan(&slot); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *CoachRepository) scanOne(row interface{ Scan(dest ...any) error }) (*models.CoachProfile, error) {
	var profile models.CoachProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.ImageURL,
		&profile.Bio,
		&profile.Expertise,
		&profile.Certifications,
		&profile.Languages,
		&profile.ExperienceYears,
		&profile.HourlyRateCents,
		&profile.Rating,
		&profile.TotalReviews,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CoachRepository) scanMany(ctx context.Context, query string, args ...any) ([]models.CoachProfile, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coaches := make([]models.CoachProfile, 0)
	for rows.Next() {
		var profile models.CoachProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.FullName,
			&profile.ImageURL,
			&profile.Bio,
			&profile.Expertise,
			&profile.Certifications,
			&profile.Languages,
			&profile.ExperienceYears,
			&profile.HourlyRateCents,
			&profile.Rating,
			&profile.TotalReviews,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		coaches = append(coaches, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return coaches, nil
}

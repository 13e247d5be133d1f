package repository

import (
	"context"
	"encoding/json"

	"github.com/careerlift/CareerLiftBack/internal/models"
)

const resumeColumns = `id, user_id, title, template_id, content, created_at, updated_at`

type ResumeRepository struct {
	db DBTX
}

func NewResumeRepository(db DBTX) *ResumeRepository {
	return &ResumeRepository{db: db}
}

func (r *ResumeRepository) Create(ctx context.Context, userID int64, title, templateID string, content json.RawMessage) (*models.Resume, error) {
	query := `
		INSERT INTO resumes (user_id, title, template_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + resumeColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query, userID, title, templateID, content))
}

func (r *ResumeRepository) GetByID(ctx context.Context, resumeID int64) (*models.Resume, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resumes
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, resumeID))
}

func (r *ResumeRepository) ListByUser(ctx context.Context, userID int64) ([]models.Resume, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resumes
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resumes := make([]models.Resume, 0)
	for rows.Next() {
		var resume models.Resume
		if err := rows.Scan(
			&resume.ID,
			&resume.UserID,
			&resume.Title,
			&resume.TemplateID,
			&resume.Content,
			&resume.CreatedAt,
			&resume.UpdatedAt,
		); err != nil {
			return nil, err
		}
		resumes = append(resumes, resume)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return resumes, nil
}

func (r *ResumeRepository) Update(ctx context.Context, resumeID int64, title, templateID *string, content json.RawMessage) (*models.Resume, error) {
	query := `
		UPDATE resumes
		SET title = COALESCE($2, title),
			template_id = COALESCE($3, template_id),
			content = COALESCE($4, content),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + resumeColumns + `
	`
	return r.scanOne(r.db.QueryRow(ctx, query, resumeID, title, templateID, content))
}

func (r *ResumeRepository) Delete(ctx context.Context, resumeID int64) error {
	query := `DELETE FROM resumes WHERE id = $1`
	_, err := r.db.Exec(ctx, query, resumeID)
	return err
}

func (r *ResumeRepository) scanOne(row interface{ Scan(dest ...any) error }) (*models.Resume, error) {
	var resume models.Resume
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.TemplateID,
		&resume.Content,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

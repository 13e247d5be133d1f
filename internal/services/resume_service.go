package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"github.com/careerlift/CareerLiftBack/internal/models"
	"github.com/careerlift/CareerLiftBack/internal/repository"
	"github.com/jackc/pgx/v5"
)

// PageHeightMM is the height of one exported A4 page.
const PageHeightMM = 297.0

var ErrResumeNotFound = errors.New("resume not found")

// ResumePage is one slice of the rendered resume surface.
type ResumePage struct {
	Index    int     `json:"index"`
	OffsetMM float64 `json:"offset_mm"`
	HeightMM float64 `json:"height_mm"`
}

var resumeTemplates = []models.ResumeTemplate{
	{ID: "classic", Name: "Classic", Description: "Single-column layout with a serif header."},
	{ID: "modern", Name: "Modern", Description: "Two-column layout with a color sidebar."},
	{ID: "compact", Name: "Compact", Description: "Dense single-page layout for long work histories."},
	{ID: "minimal", Name: "Minimal", Description: "Whitespace-heavy layout without rules or icons."},
}

type ResumeService struct {
	repo *repository.ResumeRepository
}

func NewResumeService(repo *repository.ResumeRepository) *ResumeService {
	return &ResumeService{repo: repo}
}

func (s *ResumeService) Templates() []models.ResumeTemplate {
	return resumeTemplates
}

func validTemplate(id string) bool {
	for _, tpl := range resumeTemplates {
		if tpl.ID == id {
			return true
		}
	}
	return false
}

func (s *ResumeService) Create(
	ctx context.Context,
	userID int64,
	title, templateID string,
	content json.RawMessage,
) (*models.Resume, error) {
	if title == "" || !validTemplate(templateID) {
		return nil, ErrInvalidInput
	}
	if content == nil {
		content = json.RawMessage(`{}`)
	}
	return s.repo.Create(ctx, userID, title, templateID, content)
}

func (s *ResumeService) Get(ctx context.Context, actorID, resumeID int64) (*models.Resume, error) {
	resume, err := s.repo.GetByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResumeNotFound
		}
		return nil, err
	}
	if resume.UserID != actorID {
		return nil, ErrForbidden
	}
	return resume, nil
}

func (s *ResumeService) List(ctx context.Context, actorID int64) ([]models.Resume, error) {
	return s.repo.ListByUser(ctx, actorID)
}

func (s *ResumeService) Update(
	ctx context.Context,
	actorID, resumeID int64,
	title, templateID *string,
	content json.RawMessage,
) (*models.Resume, error) {
	if templateID != nil && !validTemplate(*templateID) {
		return nil, ErrInvalidInput
	}
	if _, err := s.Get(ctx, actorID, resumeID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, resumeID, title, templateID, content)
}

func (s *ResumeService) Delete(ctx context.Context, actorID, resumeID int64) error {
	if _, err := s.Get(ctx, actorID, resumeID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, resumeID)
}

// PageLayout slices a rendered surface of the given height into export
// pages. Every page is exactly PageHeightMM tall except the last, which
// covers the remainder, so the sequence spans the full height with no
// cropping.
func PageLayout(contentHeightMM float64) ([]ResumePage, error) {
	if contentHeightMM <= 0 || math.IsNaN(contentHeightMM) || math.IsInf(contentHeightMM, 0) {
		return nil, ErrInvalidInput
	}

	pageCount := int(math.Ceil(contentHeightMM / PageHeightMM))
	pages := make([]ResumePage, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		offset := float64(i) * PageHeightMM
		height := PageHeightMM
		if remaining := contentHeightMM - offset; remaining < PageHeightMM {
			height = remaining
		}
		pages = append(pages, ResumePage{
			Index:    i,
			OffsetMM: offset,
			HeightMM: height,
		})
	}
	return pages, nil
}

package repository

import (
	"context"

	"github.com/careerlift/CareerLiftBack/internal/models"
)

type CorporateRepository struct {
	db DBTX
}

func NewCorporateRepository(db DBTX) *CorporateRepository {
	return &CorporateRepository{db: db}
}

func (r *CorporateRepository) CreateInquiry(ctx context.Context, inquiry *models.CorporateInquiry) error {
	query := `
		INSERT INTO corporate_inquiries (company_name, contact_name, email, phone, team_size, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'new')
		RETURNING id, status, created_at
	`
	return r.db.QueryRow(ctx, query,
		inquiry.CompanyName,
		inquiry.ContactName,
		inquiry.Email,
		inquiry.Phone,
		inquiry.TeamSize,
		inquiry.Message,
	).Scan(&inquiry.ID, &inquiry.Status, &inquiry.CreatedAt)
}

func (r *CorporateRepository) ListInquiries(ctx context.Context, offset, limit int) ([]models.CorporateInquiry, int, error) {
	query := `
		SELECT id, company_name, contact_name, email, phone, team_size, message, status, created_at,
			   COUNT(*) OVER() AS total
		FROM corporate_inquiries
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	inquiries := make([]models.CorporateInquiry, 0)
	total := 0
	for rows.Next() {
		var inquiry models.CorporateInquiry
		if err := rows.Scan(
			&inquiry.ID,
			&inquiry.CompanyName,
			&inquiry.ContactName,
			&inquiry.Email,
			&inquiry.Phone,
			&inquiry.TeamSize,
			&inquiry.Message,
			&inquiry.Status,
			&inquiry.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		inquiries = append(inquiries, inquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return inquiries, total, nil
}

func (r *CorporateRepository) CreateAccount(ctx context.Context, account *models.CorporateAccount) error {
	query := `
		INSERT INTO corporate_accounts (company_name, contact_email, credits_total, credits_used, is_active)
		VALUES ($1, $2, $3, 0, TRUE)
		RETURNING id, credits_used, is_active, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		account.CompanyName,
		account.ContactEmail,
		account.CreditsTotal,
	).Scan(&account.ID, &account.CreditsUsed, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)
}

func (r *CorporateRepository) ListAccounts(ctx context.Context) ([]models.CorporateAccount, error) {
	query := `
		SELECT id, company_name, contact_email, credits_total, credits_used, is_active, created_at, updated_at
		FROM corporate_accounts
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]models.CorporateAccount, 0)
	for rows.Next() {
		var account models.CorporateAccount
		if err := rows.Scan(
			&account.ID,
			&account.CompanyName,
			&account.ContactEmail,
			&account.CreditsTotal,
			&account.CreditsUsed,
			&account.IsActive,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create сохраняет запрос на возврат.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.Status == "" {
		report.Status = models.ReportStatusPending
	}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO reports (order_id, reporter_id, reason, details, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, report.OrderID, report.ReporterID, report.Reason, report.Details, report.Status,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("report repository: create %w", err)
	}
	return nil
}

// List возвращает жалобы, новые первыми. Пустой status означает все статусы.
func (r *ReportRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	reports := []models.Report{}
	err := r.db.SelectContext(ctx, &reports, `
		SELECT id, order_id, reporter_id, reason, details, status, created_at
		FROM reports
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("report repository: list %w", err)
	}
	return reports, nil
}

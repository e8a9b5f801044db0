package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/creditnote/backend/internal/domain/history"
	"github.com/creditnote/backend/internal/infrastructure/persistence/models"
)

// GormSubmissionRepository implements history.Repository using GORM
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository creates a new GormSubmissionRepository
func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

var _ history.Repository = (*GormSubmissionRepository)(nil)

// Save persists a submission record
func (r *GormSubmissionRepository) Save(ctx context.Context, submission *history.Submission) error {
	model := models.SubmissionModelFromDomain(submission)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// FindRecent returns the most recently created submissions, newest first
func (r *GormSubmissionRepository) FindRecent(ctx context.Context, limit int) ([]history.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []models.SubmissionModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return toDomainSubmissions(records), nil
}

// FindByVendor returns submissions for a vendor, newest first
func (r *GormSubmissionRepository) FindByVendor(ctx context.Context, vendor string, limit int) ([]history.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []models.SubmissionModel
	if err := r.db.WithContext(ctx).
		Where("vendor = ?", vendor).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions for vendor: %w", err)
	}
	return toDomainSubmissions(records), nil
}

func toDomainSubmissions(records []models.SubmissionModel) []history.Submission {
	out := make([]history.Submission, 0, len(records))
	for i := range records {
		out = append(out, *records[i].ToDomain())
	}
	return out
}

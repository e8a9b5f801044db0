package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/creditnote/backend/internal/domain/history"
)

// SubmissionModel is the persistence model for the history.Submission entity.
type SubmissionModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CreditNoteID int64           `gorm:"not null;index"`
	Vendor       string          `gorm:"type:varchar(255);not null;index"`
	CompanyID    int64           `gorm:"not null"`
	IssueDate    time.Time       `gorm:"type:date;not null"`
	DueDate      time.Time       `gorm:"type:date;not null"`
	Reference    string          `gorm:"type:varchar(255)"`
	LineCount    int             `gorm:"not null;default:0"`
	LotCount     int             `gorm:"not null;default:0"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedBy    string          `gorm:"type:varchar(100)"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SubmissionModel) TableName() string {
	return "credit_note_submissions"
}

// ToDomain converts the persistence model to a domain entity.
func (m *SubmissionModel) ToDomain() *history.Submission {
	return &history.Submission{
		ID:           m.ID,
		CreditNoteID: m.CreditNoteID,
		Vendor:       m.Vendor,
		CompanyID:    m.CompanyID,
		IssueDate:    m.IssueDate,
		DueDate:      m.DueDate,
		Reference:    m.Reference,
		LineCount:    m.LineCount,
		LotCount:     m.LotCount,
		TotalAmount:  m.TotalAmount,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}

// SubmissionModelFromDomain creates a persistence model from a domain entity.
func SubmissionModelFromDomain(s *history.Submission) *SubmissionModel {
	return &SubmissionModel{
		ID:           s.ID,
		CreditNoteID: s.CreditNoteID,
		Vendor:       s.Vendor,
		CompanyID:    s.CompanyID,
		IssueDate:    s.IssueDate,
		DueDate:      s.DueDate,
		Reference:    s.Reference,
		LineCount:    s.LineCount,
		LotCount:     s.LotCount,
		TotalAmount:  s.TotalAmount,
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt,
	}
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vaishnaviugal12/CrackCode/internal/models"
)

// SubmissionRepository exposes persistence helpers for judged submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	ListByUserAndProblem(ctx context.Context, userID, problemID uint) ([]models.Submission, error)
	DeleteByUser(ctx context.Context, userID uint) error
	MarkStaleAsError(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewSubmissionRepository constructs a submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

type submissionRepository struct {
	db *gorm.DB
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) ListByUserAndProblem(ctx context.Context, userID, problemID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND problem_id = ?", userID, problemID).
		Order("created_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Submission{}).Error
}

// MarkStaleAsError finalizes pending submissions older than the cutoff as
// errors. A submission stuck in pending means the judging call died between
// dispatch and finalization; this sweep is the reconciliation path for those
// orphaned records.
func (r *submissionRepository) MarkStaleAsError(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("status = ? AND created_at < ?", models.SubmissionStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":        models.SubmissionStatusError,
			"error_message": "judging did not complete",
		})
	return result.RowsAffected, result.Error
}

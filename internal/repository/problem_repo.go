package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vaishnaviugal12/CrackCode/internal/models"
)

// ProblemRepository exposes persistence helpers for problems and their
// attached test cases, starter code and reference solutions.
type ProblemRepository interface {
	Create(ctx context.Context, problem *models.Problem) error
	Update(ctx context.Context, problem *models.Problem) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (models.Problem, error)
	List(ctx context.Context) ([]models.Problem, error)
}

// NewProblemRepository constructs a problem repository.
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{db: db}
}

type problemRepository struct {
	db *gorm.DB
}

func (r *problemRepository) Create(ctx context.Context, problem *models.Problem) error {
	return r.db.WithContext(ctx).Create(problem).Error
}

// Update replaces the problem and its attached collections in one
// transaction. Test cases are immutable per revision, so the old set is
// dropped and the new set inserted rather than patched in place.
func (r *problemRepository) Update(ctx context.Context, problem *models.Problem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.TestCase{}, &models.StarterCode{}, &models.ReferenceSolution{}} {
			if err := tx.Where("problem_id = ?", problem.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(problem).Error
	})
}

func (r *problemRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.TestCase{}, &models.StarterCode{}, &models.ReferenceSolution{}} {
			if err := tx.Where("problem_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Problem{}, id).Error
	})
}

func (r *problemRepository) GetByID(ctx context.Context, id uint) (models.Problem, error) {
	var problem models.Problem
	err := r.db.WithContext(ctx).
		Preload("TestCases").
		Preload("StarterCodes").
		Preload("ReferenceSolutions").
		First(&problem, id).Error
	if err != nil {
		return models.Problem{}, err
	}
	return problem, nil
}

func (r *problemRepository) List(ctx context.Context) ([]models.Problem, error) {
	var problems []models.Problem
	if err := r.db.WithContext(ctx).Find(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

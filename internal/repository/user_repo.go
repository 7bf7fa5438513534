package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vaishnaviugal12/CrackCode/internal/models"
)

// UserRepository exposes persistence helpers for accounts and their
// solved-problems set.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Delete(ctx context.Context, id uint) error
	MarkProblemSolved(ctx context.Context, userID, problemID uint) error
	SolvedProblems(ctx context.Context, userID uint) ([]models.Problem, error)
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.SolvedProblem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

// MarkProblemSolved adds the problem to the user's solved set. The insert is
// an idempotent union: a duplicate (user, problem) pair is silently ignored,
// so two concurrent accepted submissions cannot create a duplicate row.
func (r *userRepository) MarkProblemSolved(ctx context.Context, userID, problemID uint) error {
	entry := models.SolvedProblem{UserID: userID, ProblemID: problemID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
}

func (r *userRepository) SolvedProblems(ctx context.Context, userID uint) ([]models.Problem, error) {
	var problems []models.Problem
	err := r.db.WithContext(ctx).
		Joins("JOIN solved_problems ON solved_problems.problem_id = problems.id").
		Where("solved_problems.user_id = ?", userID).
		Find(&problems).Error
	if err != nil {
		return nil, err
	}
	return problems, nil
}

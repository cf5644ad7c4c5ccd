package extraction

import (
	"context"
	"errors"

	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Store loads the pipeline's inputs.
type Store interface {
	// Interview loads an interview with answers ordered by position.
	Interview(ctx context.Context, userID, interviewID string) (*models.InterviewModel, error)
	// Experience loads the user's career record, or nil when none exists.
	Experience(ctx context.Context, userID string) (*models.ExperienceModel, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Interview(ctx context.Context, userID, interviewID string) (*models.InterviewModel, error) {
	var interview models.InterviewModel
	err := s.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC")
		}).
		Where("id = ? AND user_id = ?", interviewID, userID).
		First(&interview).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.ErrNotFound, "interview %s not found", interviewID)
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (s *gormStore) Experience(ctx context.Context, userID string) (*models.ExperienceModel, error) {
	var experience models.ExperienceModel
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&experience).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &experience, nil
}

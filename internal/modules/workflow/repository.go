package workflow

import (
	"context"
	"errors"

	"github.com/careertrail/core/internal/models"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns the GORM-backed workflow persistence layer.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

// SaveExperience upserts the one-per-user career record, replacing its
// summary, roles and provenance wholesale.
func (r *gormRepository) SaveExperience(ctx context.Context, experience *models.ExperienceModel) error {
	var existing models.ExperienceModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", experience.UserID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(experience).Error
	}
	if err != nil {
		return err
	}

	experience.ID = existing.ID
	return r.db.WithContext(ctx).
		Model(&existing).
		Updates(map[string]interface{}{
			"summary":             experience.Summary,
			"based_on_interviews": experience.BasedOnInterviews,
			"roles":               experience.Roles,
		}).Error
}

func (r *gormRepository) UpsertTopic(ctx context.Context, topic *models.TopicModel) error {
	if topic.ID == "" {
		return r.db.WithContext(ctx).Create(topic).Error
	}
	return r.db.WithContext(ctx).
		Model(&models.TopicModel{}).
		Where("id = ?", topic.ID).
		Update("status", topic.Status).Error
}

func (r *gormRepository) SetInterviewStatus(ctx context.Context, interviewID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.InterviewModel{}).
		Where("id = ?", interviewID).
		Update("status", status).Error
}

func (r *gormRepository) InsertCreditTransaction(ctx context.Context, tx *models.CreditTransactionModel) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

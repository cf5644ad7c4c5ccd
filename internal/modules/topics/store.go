package topics

import (
	"context"

	"github.com/careertrail/core/internal/models"
	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ListAvailable(ctx context.Context, userID string) ([]models.TopicModel, error) {
	var topics []models.TopicModel
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.TopicStatusAvailable).
		Order("created_at ASC").
		Find(&topics).Error
	return topics, err
}

// Package interview manages interview sessions and their answers.
package interview

import (
	"context"
	"errors"

	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/pkg/apperr"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get loads one interview owned by the user, without answers.
func (s *Service) Get(ctx context.Context, userID, interviewID string) (*models.InterviewModel, error) {
	var interview models.InterviewModel
	err := s.db.WithContext(ctx).
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

// GetWithAnswers loads one interview with its answers ordered by position.
func (s *Service) GetWithAnswers(ctx context.Context, userID, interviewID string) (*models.InterviewModel, error) {
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

// Create opens a new interview session, optionally bound to a topic. When a
// topic is given its title and questions seed the session and the topic is
// marked used.
func (s *Service) Create(ctx context.Context, userID, topicID, title string) (*models.InterviewModel, error) {
	interview := &models.InterviewModel{
		UserID:  userID,
		TopicID: topicID,
		Title:   title,
		Status:  models.InterviewStatusInProgress,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if topicID != "" {
			var topic models.TopicModel
			err := tx.Where("id = ? AND user_id = ?", topicID, userID).First(&topic).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Wrap(apperr.ErrNotFound, "topic %s not found", topicID)
			}
			if err != nil {
				return err
			}
			if interview.Title == "" {
				interview.Title = topic.Title
			}
			if err := tx.Model(&topic).Update("status", models.TopicStatusUsed).Error; err != nil {
				return err
			}
		}
		return tx.Create(interview).Error
	})
	if err != nil {
		return nil, err
	}
	return interview, nil
}

// AddAnswer appends a question/answer pair to an in-progress interview.
func (s *Service) AddAnswer(ctx context.Context, userID, interviewID, question, answer string) (*models.AnswerModel, error) {
	interview, err := s.Get(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.InterviewStatusInProgress {
		return nil, apperr.Wrap(apperr.ErrBadRequest, "interview %s is not in progress", interviewID)
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.AnswerModel{}).
		Where("interview_id = ?", interviewID).
		Count(&count).Error; err != nil {
		return nil, err
	}

	record := &models.AnswerModel{
		InterviewID: interviewID,
		Question:    question,
		Answer:      answer,
		Order:       int(count),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// Package user handles accounts, login and API tokens.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/pkg/apperr"
	"github.com/careertrail/core/internal/pkg/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	sessionTTL = 7 * 24 * time.Hour

	// signupBonus is the credit grant every new account starts with.
	signupBonus = 100
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register creates an account and grants the signup credit bonus in the
// same transaction.
func (s *Service) Register(ctx context.Context, username, password, name string) (*models.UserModel, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.UserModel{
		Username: username,
		Name:     name,
		Password: string(hashed),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Wrap(apperr.ErrConflict, "username %s is taken", username)
		}
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		return tx.Create(&models.CreditTransactionModel{
			UserID:     account.ID,
			Amount:     signupBonus,
			SourceType: "signup_bonus",
			SourceUnit: "credits",
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Login verifies credentials and returns a session JWT.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.UserModel, error) {
	var account models.UserModel
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperr.Wrap(apperr.ErrForbidden, "invalid credentials")
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
		return "", nil, apperr.Wrap(apperr.ErrForbidden, "invalid credentials")
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&account).Update("last_login_time", now).Error; err != nil {
		return "", nil, err
	}
	account.LastLoginTime = &now

	token, err := jwt.Sign(account.ID, sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return token, &account, nil
}

// Get loads one account by id.
func (s *Service) Get(ctx context.Context, userID string) (*models.UserModel, error) {
	var account models.UserModel
	err := s.db.WithContext(ctx).First(&account, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAPIToken mints a long-lived token for programmatic access.
func (s *Service) CreateAPIToken(ctx context.Context, userID, name string, expiredAt *time.Time) (*models.APIToken, error) {
	token := &models.APIToken{
		UserID:    userID,
		Token:     "ctk" + uuid.NewString(),
		Name:      name,
		ExpiredAt: expiredAt,
	}
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// ListAPITokens returns the user's tokens, newest first.
func (s *Service) ListAPITokens(ctx context.Context, userID string) ([]models.APIToken, error) {
	var tokens []models.APIToken
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

// DeleteAPIToken removes one of the user's tokens.
func (s *Service) DeleteAPIToken(ctx context.Context, userID, tokenID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", tokenID, userID).
		Delete(&models.APIToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "api token not found")
	}
	return nil
}

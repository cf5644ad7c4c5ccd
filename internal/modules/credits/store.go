package credits

import (
	"context"

	"github.com/careertrail/core/internal/models"
	"gorm.io/gorm"
)

// gormStore persists ledger entries in the credit_transactions table.
type gormStore struct {
	db *gorm.DB
}

// NewStore returns the GORM-backed ledger store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) SumAmount(ctx context.Context, userID string) (int64, error) {
	var balance struct {
		Total int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.CreditTransactionModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Scan(&balance).Error
	return balance.Total, err
}

func (s *gormStore) Insert(ctx context.Context, tx *models.CreditTransactionModel) error {
	return s.db.WithContext(ctx).Create(tx).Error
}

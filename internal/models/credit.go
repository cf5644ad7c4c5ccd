package models

// CreditTransactionModel is one append-only ledger entry.
// Rows are never mutated or deleted; the balance is the sum of amounts.
type CreditTransactionModel struct {
	Base
	UserID       string  `json:"-"             gorm:"index;not null"`
	Amount       int64   `json:"amount"        gorm:"not null"` // signed; negative = consumption
	SourceAmount float64 `json:"source_amount"`
	SourceType   string  `json:"source_type"   gorm:"index"` // operation kind
	SourceUnit   string  `json:"source_unit"`                // e.g. "tokens"
}

func (CreditTransactionModel) TableName() string { return "credit_transactions" }

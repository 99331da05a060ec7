package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashExpense is a manual outlay recorded against an open cash session.
// PaymentMethod nil means the expense was paid in cash (dinheiro).
type CashExpense struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashSessionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Description   string          `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category      *string
	PaymentMethod *string `gorm:"type:varchar(20)"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashSession is a bounded till period (caixa). A session with ClosedAt nil is
// open; at most one open session exists at any time, enforced by the partial
// unique index idx_cash_sessions_single_open (see infra.applySchemaPatches).
//
// ID, OpenedBy, OpenedAt and InitialAmount are immutable after creation. The
// closing fields are written exactly once, atomically, when the session moves
// open → closed; a closed session never reopens.
type CashSession struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OpenedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	OpenedAt      time.Time       `gorm:"not null;default:now()"`
	InitialAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	ClosedAt      *time.Time
	ClosedBy      *uuid.UUID `gorm:"type:uuid"`
	FinalAmount   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalSales    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalExpenses *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open reports whether the session is still accepting orders and expenses.
func (s *CashSession) Open() bool { return s.ClosedAt == nil }

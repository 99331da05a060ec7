package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a delivery sale. CashSessionID is nil when the order was taken
// outside any open till (it then never appears in a closure summary).
type Order struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber   int        `gorm:"uniqueIndex;not null"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null"`
	AddressID     uuid.UUID  `gorm:"type:uuid;not null"`
	CashSessionID *uuid.UUID `gorm:"type:uuid;index"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'em_producao'"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeliveryFee   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes         *string
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Customer *Customer        `gorm:"foreignKey:CustomerID"`
	Address  *CustomerAddress `gorm:"foreignKey:AddressID"`
	Items    []OrderItem      `gorm:"foreignKey:OrderID"`
}

// OrderItem is a menu line within an order. UnitPrice snapshots the menu
// price at order time so later menu edits never rewrite past sales.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	MenuItemID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID"`
}

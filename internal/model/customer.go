package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer phone numbers are stored digits-only and unique.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Addresses []CustomerAddress `gorm:"foreignKey:CustomerID"`
}

type CustomerAddress struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Street       string    `gorm:"not null"`
	Number       string    `gorm:"not null"`
	Complement   *string
	Neighborhood string `gorm:"not null"`
	City         string `gorm:"not null"`
	State        string `gorm:"type:varchar(2);not null"`
	ZipCode      *string
	Reference    *string
	IsDefault    bool `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package repository

import (
	"context"
	"time"

	"brazzero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashSessionRepository interface {
	Create(ctx context.Context, s *model.CashSession) error
	FindActive(ctx context.Context) (*model.CashSession, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error)
	// Close applies the terminal update. The closed_at IS NULL guard makes it
	// a compare-and-set: a concurrent closer sees zero rows affected.
	Close(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) (int64, error)
	History(ctx context.Context, page, limit int) ([]model.CashSession, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type cashSessionRepo struct{ db *gorm.DB }

func NewCashSessionRepository(db *gorm.DB) CashSessionRepository { return &cashSessionRepo{db: db} }

func (r *cashSessionRepo) DB() *gorm.DB { return r.db }

func (r *cashSessionRepo) Create(ctx context.Context, s *model.CashSession) error {
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

// FindActive returns the single open session. The partial unique index keeps
// the store to at most one open row; the ORDER BY is a tie-break for data
// predating the index.
func (r *cashSessionRepo) FindActive(ctx context.Context) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("closed_at IS NULL").
		Order("opened_at DESC").
		First(&s).Error
	return &s, err
}

func (r *cashSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *cashSessionRepo) Close(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	db := tx
	if db == nil {
		db = r.db
	}
	res := db.WithContext(ctx).
		Model(&model.CashSession{}).
		Where("id = ? AND closed_at IS NULL", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *cashSessionRepo) History(ctx context.Context, page, limit int) ([]model.CashSession, int64, error) {
	var sessions []model.CashSession
	var total int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&model.CashSession{}).Where("closed_at IS NOT NULL")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("closed_at DESC").Offset(offset).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}

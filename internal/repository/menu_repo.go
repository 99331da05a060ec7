package repository

import (
	"context"

	"brazzero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuRepository interface {
	Create(ctx context.Context, m *model.MenuItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	List(ctx context.Context, includeUnavailable bool) ([]model.MenuItem, error)
	Update(ctx context.Context, m *model.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type menuRepo struct{ db *gorm.DB }

func NewMenuRepository(db *gorm.DB) MenuRepository { return &menuRepo{db: db} }

func (r *menuRepo) Create(ctx context.Context, m *model.MenuItem) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *menuRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var m model.MenuItem
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *menuRepo) List(ctx context.Context, includeUnavailable bool) ([]model.MenuItem, error) {
	var items []model.MenuItem
	q := r.db.WithContext(ctx)
	if !includeUnavailable {
		q = q.Where("is_available = true")
	}
	err := q.Order("category ASC, name ASC").Find(&items).Error
	return items, err
}

func (r *menuRepo) Update(ctx context.Context, m *model.MenuItem) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *menuRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MenuItem{}, id).Error
}

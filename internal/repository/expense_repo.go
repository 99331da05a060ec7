package repository

import (
	"context"

	"brazzero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.CashExpense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashExpense, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.CashExpense, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.CashExpense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashExpense, error) {
	var e model.CashExpense
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CashExpense{}, id).Error
}

func (r *expenseRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.CashExpense, error) {
	var expenses []model.CashExpense
	err := r.db.WithContext(ctx).
		Where("cash_session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&expenses).Error
	return expenses, err
}

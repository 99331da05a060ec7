package repository

import (
	"context"
	"time"

	"brazzero/internal/dto"
	"brazzero/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportRepository interface {
	// SalesBetween sums order totals in [from, to). Cancelled orders excluded.
	SalesBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	ExpensesBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountCustomersSince(ctx context.Context, since time.Time) (int64, error)
	MostSold(ctx context.Context, since time.Time, limit int) ([]dto.ItemMaisVendido, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("SUM(total)").
		Where("status <> ? AND created_at >= ? AND created_at < ?", model.StatusCancelado, from, to).
		Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *reportRepo) ExpensesBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	var row struct {
		Sum   decimal.NullDecimal
		Count int
	}
	err := r.db.WithContext(ctx).
		Model(&model.CashExpense{}).
		Select("SUM(amount) AS sum, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	if !row.Sum.Valid {
		return decimal.Zero, row.Count, nil
	}
	return row.Sum.Decimal, row.Count, nil
}

func (r *reportRepo) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Count(&n).Error
	return n, err
}

func (r *reportRepo) CountCustomersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}

func (r *reportRepo) MostSold(ctx context.Context, since time.Time, limit int) ([]dto.ItemMaisVendido, error) {
	var rows []dto.ItemMaisVendido
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("menu_items.name AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.subtotal) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Where("orders.status <> ? AND orders.created_at >= ?", model.StatusCancelado, since).
		Group("menu_items.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

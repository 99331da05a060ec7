package repository

import (
	"context"

	"brazzero/internal/dto"
	"brazzero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// UpdateStatus carries a from-status guard so two concurrent kanban moves
	// cannot both apply.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (int64, error)
	NextOrderNumber(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Order, int64, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Order, error)
	ListQualifyingBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Order, error)
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return tx.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.MenuItem").
		Preload("Customer").
		Preload("Address").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *orderRepo) NextOrderNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence keeps order numbers gapless enough and atomic
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('orders_order_number_seq')").Scan(&num).Error
	return num, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Order{})

	switch filter.Status {
	case "", "ativos":
		q = q.Where("status IN ?", []model.OrderStatus{model.StatusEmProducao, model.StatusEmRota, model.StatusEntregue})
	case "all":
		// no status filter
	default:
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Data != "" {
		q = q.Where("DATE(created_at) = ?", filter.Data)
	} else {
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.MenuItem").Preload("Customer").Preload("Address").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("cash_session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ListQualifyingBySession returns the session's orders counted toward sales:
// every status except cancelado.
func (r *orderRepo) ListQualifyingBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("cash_session_id = ? AND status IN ?", sessionID, model.QualifyingStatuses).
		Find(&orders).Error
	return orders, err
}

package repository

import (
	"context"

	"brazzero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
	List(ctx context.Context, search string) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	CreateAddress(ctx context.Context, tx *gorm.DB, a *model.CustomerAddress) error
	FindAddress(ctx context.Context, id uuid.UUID) (*model.CustomerAddress, error)
	ClearDefaultAddress(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Customer) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Preload("Addresses").First(&c, id).Error
	return &c, err
}

func (r *customerRepo) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Preload("Addresses").Where("phone = ?", phone).First(&c).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, search string) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.WithContext(ctx).Preload("Addresses")
	if search != "" {
		q = q.Where("name ILIKE ? OR phone LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	err := q.Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) CreateAddress(ctx context.Context, tx *gorm.DB, a *model.CustomerAddress) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(a).Error
}

func (r *customerRepo) FindAddress(ctx context.Context, id uuid.UUID) (*model.CustomerAddress, error) {
	var a model.CustomerAddress
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

// ClearDefaultAddress unsets is_default on every address of the customer,
// so the caller can mark a new default without ever having two.
func (r *customerRepo) ClearDefaultAddress(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).
		Model(&model.CustomerAddress{}).
		Where("customer_id = ?", customerID).
		Update("is_default", false).Error
}

package repository

import (
	"context"

	"github.com/Domenick1991/carrental/internal/domain"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByMembershipID(ctx context.Context, membershipID string) (*domain.Customer, error)
}

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return mapErr(conn(ctx, r.db).Create(customer).Error)
}

func (r *GormCustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	if err := conn(ctx, r.db).First(&c, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *GormCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var c domain.Customer
	if err := conn(ctx, r.db).Where("LOWER(email) = LOWER(?)", email).First(&c).Error; err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *GormCustomerRepository) GetByMembershipID(ctx context.Context, membershipID string) (*domain.Customer, error) {
	var c domain.Customer
	if err := conn(ctx, r.db).Where("membership_id = ?", membershipID).First(&c).Error; err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

var _ CustomerRepository = (*GormCustomerRepository)(nil)

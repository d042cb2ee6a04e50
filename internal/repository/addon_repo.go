package repository

import (
	"context"

	"github.com/Domenick1991/carrental/internal/domain"
	"gorm.io/gorm"
)

type AddOnRepository interface {
	ListCatalog(ctx context.Context) ([]domain.AddOn, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.AddOn, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.BookingAddOn, error)
	Attach(ctx context.Context, lines []domain.BookingAddOn) error
}

type GormAddOnRepository struct {
	db *gorm.DB
}

func NewAddOnRepository(db *gorm.DB) AddOnRepository {
	return &GormAddOnRepository{db: db}
}

func (r *GormAddOnRepository) ListCatalog(ctx context.Context) ([]domain.AddOn, error) {
	var addons []domain.AddOn
	err := conn(ctx, r.db).Order("id").Find(&addons).Error
	return addons, mapErr(err)
}

func (r *GormAddOnRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var addons []domain.AddOn
	err := conn(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&addons).Error
	return addons, mapErr(err)
}

func (r *GormAddOnRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.BookingAddOn, error) {
	var lines []domain.BookingAddOn
	err := conn(ctx, r.db).Where("booking_id = ?", bookingID).Order("id").Find(&lines).Error
	return lines, mapErr(err)
}

func (r *GormAddOnRepository) Attach(ctx context.Context, lines []domain.BookingAddOn) error {
	if len(lines) == 0 {
		return nil
	}
	return mapErr(conn(ctx, r.db).Create(&lines).Error)
}

var _ AddOnRepository = (*GormAddOnRepository)(nil)

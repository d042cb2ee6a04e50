package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	GetByConfirmationNumber(ctx context.Context, number string) (*domain.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, returnedAt *time.Time) error
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &GormBookingRepository{db: db}
}

// Create inserts the booking row only. Add-on lines go through AddOnRepository.Attach.
func (r *GormBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return mapErr(conn(ctx, r.db).Omit(clause.Associations).Create(booking).Error)
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := withDetails(conn(ctx, r.db)).First(&b, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

// GetByIDForUpdate locks the booking row until the surrounding transaction ends.
func (r *GormBookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := forUpdate(conn(ctx, r.db)).First(&b, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (r *GormBookingRepository) GetByConfirmationNumber(ctx context.Context, number string) (*domain.Booking, error) {
	var b domain.Booking
	if err := withDetails(conn(ctx, r.db)).Where("confirmation_number = ?", number).First(&b).Error; err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (r *GormBookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := withDetails(conn(ctx, r.db)).
		Where("LOWER(email) = LOWER(?)", email).
		Order("start_date DESC").
		Find(&bookings).Error
	return bookings, mapErr(err)
}

func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, returnedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if returnedAt != nil {
		updates["returned_at"] = *returnedAt
	}
	res := conn(ctx, r.db).Model(&domain.Booking{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Car").
		Preload("CarType").
		Preload("PickupHub").
		Preload("ReturnHub").
		Preload("AddOns")
}

var _ BookingRepository = (*GormBookingRepository)(nil)

package repository

import (
	"context"

	"github.com/Domenick1991/carrental/internal/domain"
	"gorm.io/gorm"
)

type CarRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	SetAvailability(ctx context.Context, id int64, availability domain.Availability) error
	ListAvailable(ctx context.Context, hubID, carTypeID int64) ([]domain.Car, error)
}

type GormCarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) CarRepository {
	return &GormCarRepository{db: db}
}

func (r *GormCarRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	var car domain.Car
	if err := conn(ctx, r.db).Preload("CarType").First(&car, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &car, nil
}

func (r *GormCarRepository) SetAvailability(ctx context.Context, id int64, availability domain.Availability) error {
	res := conn(ctx, r.db).Model(&domain.Car{}).Where("id = ?", id).Update("availability", availability)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListAvailable returns available cars in a hub. A zero carTypeID matches every type.
func (r *GormCarRepository) ListAvailable(ctx context.Context, hubID, carTypeID int64) ([]domain.Car, error) {
	q := conn(ctx, r.db).Preload("CarType").
		Where("hub_id = ? AND availability = ?", hubID, domain.Available)
	if carTypeID != 0 {
		q = q.Where("car_type_id = ?", carTypeID)
	}

	var cars []domain.Car
	err := q.Order("id").Find(&cars).Error
	return cars, mapErr(err)
}

var _ CarRepository = (*GormCarRepository)(nil)

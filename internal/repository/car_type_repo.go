package repository

import (
	"context"

	"github.com/Domenick1991/carrental/internal/domain"
	"gorm.io/gorm"
)

type CarTypeRepository interface {
	List(ctx context.Context) ([]domain.CarType, error)
	GetByID(ctx context.Context, id int64) (*domain.CarType, error)
	GetByName(ctx context.Context, name string) (*domain.CarType, error)
	Save(ctx context.Context, carType *domain.CarType) error
}

type GormCarTypeRepository struct {
	db *gorm.DB
}

func NewCarTypeRepository(db *gorm.DB) CarTypeRepository {
	return &GormCarTypeRepository{db: db}
}

func (r *GormCarTypeRepository) List(ctx context.Context) ([]domain.CarType, error) {
	var types []domain.CarType
	err := conn(ctx, r.db).Order("id").Find(&types).Error
	return types, mapErr(err)
}

func (r *GormCarTypeRepository) GetByID(ctx context.Context, id int64) (*domain.CarType, error) {
	var ct domain.CarType
	if err := conn(ctx, r.db).First(&ct, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &ct, nil
}

// GetByName matches the name exactly, including case and surrounding spaces.
func (r *GormCarTypeRepository) GetByName(ctx context.Context, name string) (*domain.CarType, error) {
	var ct domain.CarType
	if err := conn(ctx, r.db).Where("name = ?", name).First(&ct).Error; err != nil {
		return nil, mapErr(err)
	}
	return &ct, nil
}

// Save inserts when ID is zero and updates every column otherwise.
func (r *GormCarTypeRepository) Save(ctx context.Context, carType *domain.CarType) error {
	return mapErr(conn(ctx, r.db).Save(carType).Error)
}

var _ CarTypeRepository = (*GormCarTypeRepository)(nil)

package repository

import (
	"context"

	"github.com/Domenick1991/carrental/internal/domain"
	"gorm.io/gorm"
)

type HubRepository interface {
	List(ctx context.Context) ([]domain.Hub, error)
	GetByID(ctx context.Context, id int64) (*domain.Hub, error)
}

type GormHubRepository struct {
	db *gorm.DB
}

func NewHubRepository(db *gorm.DB) HubRepository {
	return &GormHubRepository{db: db}
}

func (r *GormHubRepository) List(ctx context.Context) ([]domain.Hub, error) {
	var hubs []domain.Hub
	err := conn(ctx, r.db).Order("name").Find(&hubs).Error
	return hubs, mapErr(err)
}

func (r *GormHubRepository) GetByID(ctx context.Context, id int64) (*domain.Hub, error) {
	var h domain.Hub
	if err := conn(ctx, r.db).First(&h, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &h, nil
}

var _ HubRepository = (*GormHubRepository)(nil)

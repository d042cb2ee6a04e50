package rates

import (
	"context"
	"fmt"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/pkg/logger"
)

type RatesUseCase interface {
	ListCarTypes(ctx context.Context) ([]domain.CarType, error)
	RatesFor(ctx context.Context, carTypeID int64) (*domain.CarType, error)
	ListAddOns(ctx context.Context) ([]domain.AddOn, error)
	AddOnsFor(ctx context.Context, bookingID int64) ([]domain.BookingAddOn, error)
	InvalidateCarTypes(ctx context.Context)
}

type CarTypeCache interface {
	GetCarTypes(ctx context.Context) ([]domain.CarType, error)
	SetCarTypes(ctx context.Context, types []domain.CarType) error
	InvalidateCarTypes(ctx context.Context) error
}

type RatesService struct {
	carTypes repository.CarTypeRepository
	addOns   repository.AddOnRepository
	cache    CarTypeCache
	log      logger.Logger
}

// NewRatesService accepts a nil cache; every call then reads the database.
func NewRatesService(carTypes repository.CarTypeRepository, addOns repository.AddOnRepository, cache CarTypeCache, log logger.Logger) *RatesService {
	return &RatesService{carTypes: carTypes, addOns: addOns, cache: cache, log: log}
}

func (s *RatesService) ListCarTypes(ctx context.Context) ([]domain.CarType, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCarTypes(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warn("car type cache read failed", "error", err)
		}
	}

	types, err := s.carTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list car types: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetCarTypes(ctx, types); err != nil {
			s.log.Warn("car type cache write failed", "error", err)
		}
	}
	return types, nil
}

func (s *RatesService) RatesFor(ctx context.Context, carTypeID int64) (*domain.CarType, error) {
	return s.carTypes.GetByID(ctx, carTypeID)
}

func (s *RatesService) ListAddOns(ctx context.Context) ([]domain.AddOn, error) {
	return s.addOns.ListCatalog(ctx)
}

func (s *RatesService) AddOnsFor(ctx context.Context, bookingID int64) ([]domain.BookingAddOn, error) {
	return s.addOns.ListByBooking(ctx, bookingID)
}

func (s *RatesService) InvalidateCarTypes(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCarTypes(ctx); err != nil {
		s.log.Warn("car type cache invalidation failed", "error", err)
	}
}

var _ RatesUseCase = (*RatesService)(nil)

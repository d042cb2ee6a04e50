package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/go-playground/validator/v10"
)

// CatalogUseCase covers the reference data the booking screens need.
type CatalogUseCase interface {
	ListHubs(ctx context.Context) ([]domain.Hub, error)
	GetHub(ctx context.Context, id int64) (*domain.Hub, error)
	ListAvailableCars(ctx context.Context, hubID, carTypeID int64) ([]domain.Car, error)
	AddCustomer(ctx context.Context, customer *domain.Customer) error
	FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	FindCustomerByMembershipID(ctx context.Context, membershipID string) (*domain.Customer, error)
}

type CatalogService struct {
	hubs      repository.HubRepository
	cars      repository.CarRepository
	customers repository.CustomerRepository
	log       logger.Logger
	validate  *validator.Validate
}

func NewCatalogService(hubs repository.HubRepository, cars repository.CarRepository, customers repository.CustomerRepository, log logger.Logger) *CatalogService {
	return &CatalogService{
		hubs:      hubs,
		cars:      cars,
		customers: customers,
		log:       log,
		validate:  validator.New(),
	}
}

func (s *CatalogService) ListHubs(ctx context.Context) ([]domain.Hub, error) {
	return s.hubs.List(ctx)
}

func (s *CatalogService) GetHub(ctx context.Context, id int64) (*domain.Hub, error) {
	return s.hubs.GetByID(ctx, id)
}

// ListAvailableCars returns cars parked at the hub. carTypeID 0 means any type.
func (s *CatalogService) ListAvailableCars(ctx context.Context, hubID, carTypeID int64) ([]domain.Car, error) {
	if _, err := s.hubs.GetByID(ctx, hubID); err != nil {
		return nil, err
	}
	return s.cars.ListAvailable(ctx, hubID, carTypeID)
}

func (s *CatalogService) AddCustomer(ctx context.Context, customer *domain.Customer) error {
	customer.Email = strings.TrimSpace(customer.Email)
	if err := s.validate.Struct(customer); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBadInput, err)
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("customer with email %s: %w", customer.Email, domain.ErrConflict)
		}
		return fmt.Errorf("create customer: %w", err)
	}
	s.log.Info("customer added", "customer_id", customer.ID)
	return nil
}

func (s *CatalogService) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrBadInput)
	}
	return s.customers.GetByEmail(ctx, email)
}

func (s *CatalogService) FindCustomerByMembershipID(ctx context.Context, membershipID string) (*domain.Customer, error) {
	membershipID = strings.TrimSpace(membershipID)
	if membershipID == "" {
		return nil, fmt.Errorf("%w: membership id is required", domain.ErrBadInput)
	}
	return s.customers.GetByMembershipID(ctx, membershipID)
}

var _ CatalogUseCase = (*CatalogService)(nil)

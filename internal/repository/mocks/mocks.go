// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByConfirmationNumber(ctx context.Context, number string) (*domain.Booking, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, returnedAt *time.Time) error {
	args := m.Called(ctx, id, status, returnedAt)
	return args.Error(0)
}

type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarRepository) SetAvailability(ctx context.Context, id int64, availability domain.Availability) error {
	args := m.Called(ctx, id, availability)
	return args.Error(0)
}

func (m *MockCarRepository) ListAvailable(ctx context.Context, hubID, carTypeID int64) ([]domain.Car, error) {
	args := m.Called(ctx, hubID, carTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}

type MockCarTypeRepository struct {
	mock.Mock
}

func (m *MockCarTypeRepository) List(ctx context.Context) ([]domain.CarType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarType), args.Error(1)
}

func (m *MockCarTypeRepository) GetByID(ctx context.Context, id int64) (*domain.CarType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarType), args.Error(1)
}

func (m *MockCarTypeRepository) GetByName(ctx context.Context, name string) (*domain.CarType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarType), args.Error(1)
}

func (m *MockCarTypeRepository) Save(ctx context.Context, carType *domain.CarType) error {
	args := m.Called(ctx, carType)
	return args.Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByMembershipID(ctx context.Context, membershipID string) (*domain.Customer, error) {
	args := m.Called(ctx, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

type MockHubRepository struct {
	mock.Mock
}

func (m *MockHubRepository) List(ctx context.Context) ([]domain.Hub, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hub), args.Error(1)
}

func (m *MockHubRepository) GetByID(ctx context.Context, id int64) (*domain.Hub, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hub), args.Error(1)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.InvoiceRecord) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.InvoiceRecord, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceRecord), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *domain.InvoiceRecord) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

type MockAddOnRepository struct {
	mock.Mock
}

func (m *MockAddOnRepository) ListCatalog(ctx context.Context) ([]domain.AddOn, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AddOn), args.Error(1)
}

func (m *MockAddOnRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.AddOn, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AddOn), args.Error(1)
}

func (m *MockAddOnRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.BookingAddOn, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingAddOn), args.Error(1)
}

func (m *MockAddOnRepository) Attach(ctx context.Context, lines []domain.BookingAddOn) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockDeliveryLogRepository struct {
	mock.Mock
}

func (m *MockDeliveryLogRepository) Record(ctx context.Context, attempt domain.DeliveryAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockDeliveryLogRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.DeliveryAttempt, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeliveryAttempt), args.Error(1)
}

// InlineTransactor runs fn directly with the caller's context.
type InlineTransactor struct {
	Calls int
}

func (t *InlineTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}

var (
	_ repository.BookingRepository     = (*MockBookingRepository)(nil)
	_ repository.CarRepository         = (*MockCarRepository)(nil)
	_ repository.CarTypeRepository     = (*MockCarTypeRepository)(nil)
	_ repository.CustomerRepository    = (*MockCustomerRepository)(nil)
	_ repository.HubRepository         = (*MockHubRepository)(nil)
	_ repository.InvoiceRepository     = (*MockInvoiceRepository)(nil)
	_ repository.AddOnRepository       = (*MockAddOnRepository)(nil)
	_ repository.UserRepository        = (*MockUserRepository)(nil)
	_ repository.DeliveryLogRepository = (*MockDeliveryLogRepository)(nil)
	_ repository.Transactor            = (*InlineTransactor)(nil)
)

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/Domenick1991/carrental/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	GetByConfirmationNumber(ctx context.Context, number string) (*domain.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	Handover(ctx context.Context, bookingID int64) (*domain.Booking, error)
	Return(ctx context.Context, input ReturnInput) (*domain.Booking, error)
}

// Locker serializes lifecycle transitions on one booking across instances.
type Locker interface {
	AcquireBookingLock(ctx context.Context, bookingID int64, ttl time.Duration) (string, bool, error)
	ReleaseBookingLock(ctx context.Context, bookingID int64, token string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings  repository.BookingRepository
	cars      repository.CarRepository
	customers repository.CustomerRepository
	hubs      repository.HubRepository
	invoices  repository.InvoiceRepository
	addOns    repository.AddOnRepository
	tx        repository.Transactor
	log       logger.Logger
	validate  *validator.Validate

	locker             Locker
	lockTTL            time.Duration
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	codePrefix         string
	generateCode       func(prefix string) (string, error)
	now                func() time.Time
	metrics            *metrics.Metrics
}

type CreateBookingInput struct {
	CarID       int64     `json:"carId"`
	CustomerID  int64     `json:"customerId"`
	PickupHubID int64     `json:"pickupHubId"`
	ReturnHubID int64     `json:"returnHubId"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
	Email       string    `json:"email" validate:"omitempty,email"`
	AddOnIDs    []int64   `json:"addOnIds"`
}

type ReturnInput struct {
	BookingID  int64      `json:"bookingId" validate:"required,gt=0"`
	ReturnDate *time.Time `json:"returnDate"`
}

type BookingServiceOption func(*BookingService)

// WithLocker adds a distributed lock around handover and return.
func WithLocker(locker Locker, ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

func WithProducer(producer Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithConfirmationPrefix(prefix string) BookingServiceOption {
	return func(s *BookingService) {
		s.codePrefix = prefix
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithMetrics(m *metrics.Metrics) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cars repository.CarRepository,
	customers repository.CustomerRepository,
	hubs repository.HubRepository,
	invoices repository.InvoiceRepository,
	addOns repository.AddOnRepository,
	tx repository.Transactor,
	log logger.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		cars:         cars,
		customers:    customers,
		hubs:         hubs,
		invoices:     invoices,
		addOns:       addOns,
		tx:           tx,
		log:          log,
		validate:     validator.New(),
		codePrefix:   "BOK-",
		generateCode: GenerateConfirmationCode,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadInput, err)
	}
	if dateOnly(input.EndDate).Before(dateOnly(input.StartDate)) {
		return nil, fmt.Errorf("%w: end date is before start date", domain.ErrBadInput)
	}

	var (
		created *domain.Booking
		err     error
	)
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		created, err = s.createOnce(ctx, input)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
		s.log.Warn("confirmation number collision, retrying", "attempt", attempt)
	}
	s.metrics.ObserveTransition("create", err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCreated, created)
	return created, nil
}

func (s *BookingService) createOnce(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	code, err := s.generateCode(s.codePrefix)
	if err != nil {
		return nil, fmt.Errorf("generate confirmation number: %w", err)
	}

	var booking *domain.Booking
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		car, err := s.cars.GetByID(ctx, input.CarID)
		if err != nil {
			return reference("carId", err)
		}
		if car.CarType == nil {
			return &domain.ReferenceError{Field: "carId"}
		}
		customer, err := s.customers.GetByID(ctx, input.CustomerID)
		if err != nil {
			return reference("customerId", err)
		}
		pickup, err := s.hubs.GetByID(ctx, input.PickupHubID)
		if err != nil {
			return reference("pickupHubId", err)
		}
		ret, err := s.hubs.GetByID(ctx, input.ReturnHubID)
		if err != nil {
			return reference("returnHubId", err)
		}
		addons, err := s.resolveAddOns(ctx, input.AddOnIDs)
		if err != nil {
			return err
		}

		email := input.Email
		if email == "" {
			email = customer.Email
		}

		booking = &domain.Booking{
			ConfirmationNumber: code,
			Status:             domain.BookingStatusConfirmed,
			BookingDate:        dateOnly(s.now()),
			StartDate:          dateOnly(input.StartDate),
			EndDate:            dateOnly(input.EndDate),
			CustomerID:         customer.ID,
			CarID:              car.ID,
			CarTypeID:          car.CarType.ID,
			PickupHubID:        pickup.ID,
			ReturnHubID:        ret.ID,
			FirstName:          customer.FirstName,
			LastName:           customer.LastName,
			Email:              email,
			Address:            customer.AddressLine1,
			Pin:                customer.Pincode,
			State:              customer.City,
			CarName:            car.Name,
			DailyRate:          car.CarType.DailyRate,
			WeeklyRate:         car.CarType.WeeklyRate,
			MonthlyRate:        car.CarType.MonthlyRate,
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return err
		}

		lines := make([]domain.BookingAddOn, 0, len(addons))
		for _, a := range addons {
			lines = append(lines, domain.BookingAddOn{
				BookingID: booking.ID,
				AddOnID:   a.ID,
				Name:      a.Name,
				DailyRate: a.DailyRate,
			})
		}
		if err := s.addOns.Attach(ctx, lines); err != nil {
			return err
		}

		booking.AddOns = lines
		booking.Car = car
		booking.CarType = car.CarType
		booking.Customer = customer
		booking.PickupHub = pickup
		booking.ReturnHub = ret
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) resolveAddOns(ctx context.Context, ids []int64) ([]domain.AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	addons, err := s.addOns.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(addons) != len(unique) {
		return nil, &domain.ReferenceError{Field: "addOnId"}
	}
	return addons, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) GetByConfirmationNumber(ctx context.Context, number string) (*domain.Booking, error) {
	return s.bookings.GetByConfirmationNumber(ctx, number)
}

func (s *BookingService) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrBadInput)
	}
	return s.bookings.ListByEmail(ctx, email)
}

// Handover moves a CONFIRMED booking to ACTIVE, marks the car unavailable
// and opens the invoice record.
func (s *BookingService) Handover(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	release, err := s.lock(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if !b.Status.Is(domain.BookingStatusConfirmed) {
			return &domain.StateError{Expected: domain.BookingStatusConfirmed, Actual: b.Status}
		}

		if err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingStatusActive, nil); err != nil {
			return err
		}
		if err := s.cars.SetAvailability(ctx, b.CarID, domain.Unavailable); err != nil {
			return err
		}
		return s.invoices.Create(ctx, &domain.InvoiceRecord{
			BookingID:    b.ID,
			CustomerID:   b.CustomerID,
			CarID:        b.CarID,
			HandoverDate: dateOnly(s.now()),
		})
	})
	s.metrics.ObserveTransition("handover", err)
	if err != nil {
		return nil, err
	}

	updated, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, kafka.EventBookingHandedOver, updated)
	return updated, nil
}

// Return moves an ACTIVE booking to COMPLETED, frees the car and closes
// the invoice record. A missing invoice record is logged, not fatal.
func (s *BookingService) Return(ctx context.Context, input ReturnInput) (*domain.Booking, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadInput, err)
	}

	release, err := s.lock(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	defer release()

	returnedAt := s.now()
	if input.ReturnDate != nil && !input.ReturnDate.IsZero() {
		returnedAt = *input.ReturnDate
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByIDForUpdate(ctx, input.BookingID)
		if err != nil {
			return err
		}
		if !b.Status.Is(domain.BookingStatusActive) {
			return &domain.StateError{Expected: domain.BookingStatusActive, Actual: b.Status}
		}

		if err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingStatusCompleted, &returnedAt); err != nil {
			return err
		}
		if err := s.cars.SetAvailability(ctx, b.CarID, domain.Available); err != nil {
			return err
		}

		inv, err := s.invoices.GetByBookingID(ctx, b.ID)
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("invoice record missing on return", "booking_id", b.ID)
			return nil
		}
		if err != nil {
			return err
		}
		rd := dateOnly(returnedAt)
		inv.ReturnDate = &rd
		return s.invoices.Save(ctx, inv)
	})
	s.metrics.ObserveTransition("return", err)
	if err != nil {
		return nil, err
	}

	updated, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, kafka.EventBookingReturned, updated)
	s.requestInvoiceEmail(ctx, updated)
	return updated, nil
}

func (s *BookingService) lock(ctx context.Context, bookingID int64) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	token, ok, err := s.locker.AcquireBookingLock(ctx, bookingID, s.lockTTL)
	if err != nil {
		// the row lock still serializes transitions
		s.log.Warn("booking lock unavailable", "booking_id", bookingID, "error", err)
		return noop, nil
	}
	if !ok {
		return nil, domain.ErrBookingLocked
	}
	return func() {
		if err := s.locker.ReleaseBookingLock(ctx, bookingID, token); err != nil {
			s.log.Warn("release booking lock", "booking_id", bookingID, "error", err)
		}
	}, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		ID:                 uuid.NewString(),
		Type:               eventType,
		BookingID:          b.ID,
		ConfirmationNumber: b.ConfirmationNumber,
		CarID:              b.CarID,
		CustomerID:         b.CustomerID,
		Email:              b.Email,
		Status:             string(b.Status),
		OccurredAt:         s.now().UTC(),
	}
	err := s.producer.Publish(ctx, s.bookingTopic, b.ConfirmationNumber, event)
	s.metrics.ObservePublish(s.bookingTopic, err)
	if err != nil {
		s.log.Warn("failed to publish booking event", "type", eventType, "booking_id", b.ID, "error", err)
	}
}

func (s *BookingService) requestInvoiceEmail(ctx context.Context, b *domain.Booking) {
	if s.producer == nil || s.notificationsTopic == "" || b.Email == "" {
		return
	}
	n := kafka.Notification{
		ID:          uuid.NewString(),
		Type:        kafka.EventInvoiceEmailRequest,
		BookingID:   b.ID,
		To:          b.Email,
		RequestedAt: s.now().UTC(),
	}
	err := s.producer.Publish(ctx, s.notificationsTopic, fmt.Sprint(b.ID), n)
	s.metrics.ObservePublish(s.notificationsTopic, err)
	if err != nil {
		s.log.Warn("failed to request invoice email", "booking_id", b.ID, "error", err)
	}
}

func reference(field string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ReferenceError{Field: field}
	}
	return err
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ BookingUseCase = (*BookingService)(nil)

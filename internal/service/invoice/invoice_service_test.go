package invoice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/email"
	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/Domenick1991/carrental/internal/repository/mocks"
	"github.com/Domenick1991/carrental/internal/service/billing"
	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAddOnLookup struct {
	mock.Mock
}

func (m *MockAddOnLookup) AddOnsFor(ctx context.Context, bookingID int64) ([]domain.BookingAddOn, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingAddOn), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var issuedAt = time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, bookings *mocks.MockBookingRepository, addOns *MockAddOnLookup, sender email.Sender, opts ...InvoiceServiceOption) *InvoiceService {
	t.Helper()
	calc, err := billing.NewCalculator(billing.PolicyInclusive, billing.AddonsPerLine)
	require.NoError(t, err)

	issuer := Issuer{
		Name:    "FLEEMAN",
		Address: []string{"123, Innovation Dr.", "Tech City, TC 560001"},
		Email:   "support@fleeman.com",
	}
	return NewInvoiceService(bookings, addOns, calc, sender, issuer, "IndiaDrive", logger.NewNop(),
		append([]InvoiceServiceOption{WithClock(func() time.Time { return issuedAt })}, opts...)...)
}

func completedBooking() *domain.Booking {
	returned := time.Date(2024, 1, 4, 18, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:                 42,
		ConfirmationNumber: "BOK-ABCD1234",
		Status:             domain.BookingStatusCompleted,
		FirstName:          "Asha",
		LastName:           "Rao",
		Email:              "asha@example.com",
		Address:            "12 MG Road",
		State:              "Bengaluru",
		CarName:            "Swift",
		StartDate:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		ReturnedAt:         &returned,
		DailyRate:          decimal.NewFromInt(1000),
		CarType:            &domain.CarType{Name: "Hatchback"},
		PickupHub:          &domain.Hub{Name: "Airport"},
		ReturnHub:          &domain.Hub{Name: "City Center"},
	}
}

func TestInvoiceService_Render_Success(t *testing.T) {
	bookings := &mocks.MockBookingRepository{}
	addOns := &MockAddOnLookup{}
	service := newService(t, bookings, addOns, &MockSender{})

	ctx := context.Background()
	bookings.On("GetByID", ctx, int64(42)).Return(completedBooking(), nil)
	addOns.On("AddOnsFor", ctx, int64(42)).Return([]domain.BookingAddOn{
		{Name: "GPS", DailyRate: decimal.NewFromInt(100)},
	}, nil)

	doc, err := service.Render(ctx, 42)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.PDF, []byte("%PDF")))
	assert.Equal(t, "INV-42", doc.Number)
	assert.Equal(t, 4, doc.Breakdown.Days)
	assert.Len(t, doc.Breakdown.Lines, 2)
	assert.Equal(t, "4400.00", doc.Breakdown.Subtotal.StringFixed(2))
	assert.Equal(t, "792.00", doc.Breakdown.Tax.StringFixed(2))
	assert.Equal(t, "5192.00", doc.Breakdown.GrandTotal.StringFixed(2))

	again, err := service.Render(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, doc.Breakdown.Lines, again.Breakdown.Lines)
}

func TestInvoiceService_Render_PaginatesLongTables(t *testing.T) {
	bookings := &mocks.MockBookingRepository{}
	addOns := &MockAddOnLookup{}
	service := newService(t, bookings, addOns, &MockSender{})

	lines := make([]domain.BookingAddOn, 60)
	for i := range lines {
		lines[i] = domain.BookingAddOn{Name: fmt.Sprintf("Extra %d", i), DailyRate: decimal.NewFromInt(10)}
	}
	ctx := context.Background()
	bookings.On("GetByID", ctx, int64(42)).Return(completedBooking(), nil)
	addOns.On("AddOnsFor", ctx, int64(42)).Return(lines, nil)

	doc, err := service.Render(ctx, 42)

	require.NoError(t, err)
	assert.Len(t, doc.Breakdown.Lines, 61)
	assert.True(t, bytes.HasPrefix(doc.PDF, []byte("%PDF")))
}

func TestInvoiceService_Render_NotFound(t *testing.T) {
	bookings := &mocks.MockBookingRepository{}
	addOns := &MockAddOnLookup{}
	service := newService(t, bookings, addOns, &MockSender{})

	ctx := context.Background()
	bookings.On("GetByID", ctx, int64(7)).Return(nil, domain.ErrNotFound)

	doc, err := service.Render(ctx, 7)

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	addOns.AssertNotCalled(t, "AddOnsFor", mock.Anything, mock.Anything)
}

func TestInvoiceService_SendInvoiceEmail_Success(t *testing.T) {
	bookings := &mocks.MockBookingRepository{}
	addOns := &MockAddOnLookup{}
	sender := &MockSender{}
	deliveries := &mocks.MockDeliveryLogRepository{}
	service := newService(t, bookings, addOns, sender, WithDeliveryLog(deliveries))

	ctx := context.Background()
	bookings.On("GetByID", ctx, int64(42)).Return(completedBooking(), nil)
	addOns.On("AddOnsFor", ctx, int64(42)).Return([]domain.BookingAddOn{}, nil)
	sender.On("Send", ctx, mock.MatchedBy(func(msg email.Message) bool {
		return msg.To == "asha@example.com" &&
			msg.Subject == "Your Invoice from IndiaDrive - Booking 42" &&
			len(msg.Attachments) == 1 &&
			msg.Attachments[0].Name == "Invoice_42.pdf" &&
			bytes.HasPrefix(msg.Attachments[0].Data, []byte("%PDF"))
	})).Return(nil).Once()
	deliveries.On("Record", ctx, mock.MatchedBy(func(a domain.DeliveryAttempt) bool {
		return a.Status == domain.DeliverySent && a.BookingID == 42 && a.To == "asha@example.com"
	})).Return(nil).Once()

	service.SendInvoiceEmail(ctx, 42, "")

	sender.AssertExpectations(t)
	deliveries.AssertExpectations(t)
}

func TestInvoiceService_SendInvoiceEmail_TransportFailureIsSwallowed(t *testing.T) {
	bookings := &mocks.MockBookingRepository{}
	addOns := &MockAddOnLookup{}
	sender := &MockSender{}
	deliveries := &mocks.MockDeliveryLogRepository{}
	service := newService(t, bookings, addOns, sender, WithDeliveryLog(deliveries))

	ctx := context.Background()
	bookings.On("GetByID", ctx, int64(42)).Return(completedBooking(), nil)
	addOns.On("AddOnsFor", ctx, int64(42)).Return([]domain.BookingAddOn{}, nil)
	sender.On("Send", ctx, mock.Anything).Return(errors.New("smtp: 421 service not available")).Once()
	deliveries.On("Record", ctx, mock.MatchedBy(func(a domain.DeliveryAttempt) bool {
		return a.Status == domain.DeliveryFailed && a.Error != ""
	})).Return(errors.New("mongo down")).Once()

	assert.NotPanics(t, func() {
		service.SendInvoiceEmail(ctx, 42, "ops@example.com")
	})

	deliveries.AssertExpectations(t)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_SendInvoiceEmail_UnknownBookingNeverSends(t *testing.T) {
	bookings := &mocks.MockBookingRepository{}
	sender := &MockSender{}
	service := newService(t, bookings, &MockAddOnLookup{}, sender)

	ctx := context.Background()
	bookings.On("GetByID", ctx, int64(7)).Return(nil, domain.ErrNotFound)

	service.SendInvoiceEmail(ctx, 7, "asha@example.com")

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestInvoiceService_QueueInvoiceEmail_PublishesToKafka(t *testing.T) {
	sender := &MockSender{}
	producer := &MockProducer{}
	service := newService(t, &mocks.MockBookingRepository{}, &MockAddOnLookup{}, sender, WithQueue(producer, "notifications"))

	ctx := context.Background()
	producer.On("Publish", ctx, "notifications", "42", mock.MatchedBy(func(n kafka.Notification) bool {
		return n.BookingID == 42 && n.To == "asha@example.com" && n.Type == kafka.EventInvoiceEmailRequest
	})).Return(nil).Once()

	service.QueueInvoiceEmail(ctx, 42, "asha@example.com")
	service.Wait()

	producer.AssertExpectations(t)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestInvoiceService_QueueInvoiceEmail_FallsBackToGoroutine(t *testing.T) {
	bookings := &mocks.MockBookingRepository{}
	addOns := &MockAddOnLookup{}
	sender := &MockSender{}
	producer := &MockProducer{}
	service := newService(t, bookings, addOns, sender, WithQueue(producer, "notifications"))

	ctx, cancel := context.WithCancel(context.Background())
	producer.On("Publish", mock.Anything, "notifications", "42", mock.Anything).Return(errors.New("broker down")).Once()
	bookings.On("GetByID", mock.Anything, int64(42)).Return(completedBooking(), nil)
	addOns.On("AddOnsFor", mock.Anything, int64(42)).Return([]domain.BookingAddOn{}, nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	service.QueueInvoiceEmail(ctx, 42, "asha@example.com")
	cancel()
	service.Wait()

	sender.AssertExpectations(t)
}

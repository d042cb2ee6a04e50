package invoice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/email"
	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/internal/service/billing"
	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/Domenick1991/carrental/pkg/metrics"
	"github.com/google/uuid"
)

type InvoiceUseCase interface {
	Summary(ctx context.Context, bookingID int64) (*Statement, error)
	Render(ctx context.Context, bookingID int64) (*Document, error)
	SendInvoiceEmail(ctx context.Context, bookingID int64, to string)
	QueueInvoiceEmail(ctx context.Context, bookingID int64, to string)
}

type AddOnLookup interface {
	AddOnsFor(ctx context.Context, bookingID int64) ([]domain.BookingAddOn, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Statement is the priced view of a booking, without the PDF.
type Statement struct {
	Number    string
	Booking   *domain.Booking
	Breakdown billing.Breakdown
}

type Document struct {
	Statement
	PDF []byte
}

type InvoiceService struct {
	bookings   repository.BookingRepository
	addOns     AddOnLookup
	calculator *billing.Calculator
	sender     email.Sender
	issuer     Issuer
	brand      string
	prefix     string
	log        logger.Logger

	deliveries         repository.DeliveryLogRepository
	producer           Producer
	notificationsTopic string
	metrics            *metrics.Metrics
	now                func() time.Time
	sendTimeout        time.Duration
	wg                 sync.WaitGroup
}

type InvoiceServiceOption func(*InvoiceService)

func WithDeliveryLog(l repository.DeliveryLogRepository) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.deliveries = l
	}
}

// WithQueue routes QueueInvoiceEmail through Kafka instead of a local goroutine.
func WithQueue(p Producer, topic string) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.producer = p
		s.notificationsTopic = topic
	}
}

func WithMetrics(m *metrics.Metrics) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.now = now
	}
}

func WithNumberPrefix(prefix string) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.prefix = prefix
	}
}

func NewInvoiceService(
	bookings repository.BookingRepository,
	addOns AddOnLookup,
	calculator *billing.Calculator,
	sender email.Sender,
	issuer Issuer,
	brand string,
	log logger.Logger,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	s := &InvoiceService{
		bookings:    bookings,
		addOns:      addOns,
		calculator:  calculator,
		sender:      sender,
		issuer:      issuer,
		brand:       brand,
		prefix:      "INV-",
		log:         log,
		now:         time.Now,
		sendTimeout: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InvoiceService) Summary(ctx context.Context, bookingID int64) (*Statement, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	lines, err := s.addOns.AddOnsFor(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load add-ons: %w", err)
	}
	return &Statement{
		Number:    fmt.Sprintf("%s%d", s.prefix, b.ID),
		Booking:   b,
		Breakdown: s.calculator.Compute(b, lines),
	}, nil
}

// Render returns ErrNotFound for an unknown booking and wraps any PDF
// failure in ErrRendering.
func (s *InvoiceService) Render(ctx context.Context, bookingID int64) (*Document, error) {
	st, err := s.Summary(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	pdf, err := renderPDF(s.issuer, st, s.now())
	s.metrics.ObserveRender(err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRendering, err)
	}
	return &Document{Statement: *st, PDF: pdf}, nil
}

// SendInvoiceEmail renders and mails the invoice. Failures are logged,
// counted and recorded but never returned.
func (s *InvoiceService) SendInvoiceEmail(ctx context.Context, bookingID int64, to string) {
	err := s.sendInvoiceEmail(ctx, bookingID, &to)
	s.metrics.ObserveEmail(err)

	attempt := domain.DeliveryAttempt{BookingID: bookingID, To: to, Status: domain.DeliverySent, At: s.now().UTC()}
	if err != nil {
		attempt.Status = domain.DeliveryFailed
		attempt.Error = err.Error()
		s.log.Error("invoice email failed", "booking_id", bookingID, "to", to, "error", err)
	} else {
		s.log.Info("invoice email sent", "booking_id", bookingID, "to", to)
	}

	if s.deliveries != nil {
		if err := s.deliveries.Record(ctx, attempt); err != nil {
			s.log.Warn("record invoice delivery", "booking_id", bookingID, "error", err)
		}
	}
}

func (s *InvoiceService) sendInvoiceEmail(ctx context.Context, bookingID int64, to *string) error {
	doc, err := s.Render(ctx, bookingID)
	if err != nil {
		return err
	}
	if *to == "" {
		*to = doc.Booking.Email
	}
	if *to == "" {
		return errors.New("no recipient address")
	}

	return s.sender.Send(ctx, email.Message{
		To:      *to,
		Subject: fmt.Sprintf("Your Invoice from %s - Booking %d", s.brand, bookingID),
		Body: fmt.Sprintf("Dear Customer,\n\nPlease find attached your invoice for Booking ID: %d.\n\n"+
			"Thank you for choosing %s.\n\nBest Regards,\n%s Team", bookingID, s.brand, s.brand),
		Attachments: []email.Attachment{{
			Name: fmt.Sprintf("Invoice_%d.pdf", bookingID),
			Data: doc.PDF,
		}},
	})
}

// QueueInvoiceEmail hands delivery to the worker over Kafka, or to a local
// goroutine when no queue is configured or publishing fails.
func (s *InvoiceService) QueueInvoiceEmail(ctx context.Context, bookingID int64, to string) {
	if s.producer != nil && s.notificationsTopic != "" {
		n := kafka.Notification{
			ID:          uuid.NewString(),
			Type:        kafka.EventInvoiceEmailRequest,
			BookingID:   bookingID,
			To:          to,
			RequestedAt: s.now().UTC(),
		}
		err := s.producer.Publish(ctx, s.notificationsTopic, fmt.Sprint(bookingID), n)
		s.metrics.ObservePublish(s.notificationsTopic, err)
		if err == nil {
			return
		}
		s.log.Warn("queue invoice email, sending in-process", "booking_id", bookingID, "error", err)
	}

	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(bg, s.sendTimeout)
		defer cancel()
		s.SendInvoiceEmail(ctx, bookingID, to)
	}()
}

// Wait blocks until in-process deliveries started by QueueInvoiceEmail finish.
func (s *InvoiceService) Wait() {
	s.wg.Wait()
}

var _ InvoiceUseCase = (*InvoiceService)(nil)

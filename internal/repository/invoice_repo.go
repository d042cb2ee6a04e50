package repository

import (
	"context"

	"github.com/Domenick1991/carrental/internal/domain"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.InvoiceRecord) error
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.InvoiceRecord, error)
	Save(ctx context.Context, invoice *domain.InvoiceRecord) error
}

type GormInvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *domain.InvoiceRecord) error {
	return mapErr(conn(ctx, r.db).Create(invoice).Error)
}

func (r *GormInvoiceRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.InvoiceRecord, error) {
	var inv domain.InvoiceRecord
	if err := conn(ctx, r.db).Where("booking_id = ?", bookingID).First(&inv).Error; err != nil {
		return nil, mapErr(err)
	}
	return &inv, nil
}

func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *domain.InvoiceRecord) error {
	return mapErr(conn(ctx, r.db).Save(invoice).Error)
}

var _ InvoiceRepository = (*GormInvoiceRepository)(nil)

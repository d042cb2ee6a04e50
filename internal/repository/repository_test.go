package repository

import (
	"errors"
	"testing"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=rental dbname=rental sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestNewRepositories(t *testing.T) {
	db := &gorm.DB{}

	assert.NotNil(t, NewBookingRepository(db))
	assert.NotNil(t, NewCarRepository(db))
	assert.NotNil(t, NewCarTypeRepository(db))
	assert.NotNil(t, NewCustomerRepository(db))
	assert.NotNil(t, NewHubRepository(db))
	assert.NotNil(t, NewInvoiceRepository(db))
	assert.NotNil(t, NewAddOnRepository(db))
	assert.NotNil(t, NewUserRepository(db))
	assert.NotNil(t, NewTransactor(db))
}

func TestForUpdate_AddsRowLock(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return forUpdate(tx).First(&domain.Booking{}, 42)
	})

	assert.Contains(t, sql, `FROM "bookings"`)
	assert.Contains(t, sql, "FOR UPDATE")
}

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, mapErr(gorm.ErrDuplicatedKey), domain.ErrConflict)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapErr(other))
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "invoices", domain.InvoiceRecord{}.TableName())
	assert.Equal(t, "booking_addons", domain.BookingAddOn{}.TableName())
	assert.Equal(t, "addons", domain.AddOn{}.TableName())
}

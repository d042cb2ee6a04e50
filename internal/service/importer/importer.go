package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/Domenick1991/carrental/pkg/metrics"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// column order of the rate sheet
const (
	colName = iota
	colDaily
	colWeekly
	colMonthly
	colImage
)

type ImportUseCase interface {
	ImportRates(ctx context.Context, r io.Reader) (*Result, error)
}

type CacheInvalidator interface {
	InvalidateCarTypes(ctx context.Context)
}

type Result struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

type Importer struct {
	carTypes repository.CarTypeRepository
	cache    CacheInvalidator
	log      logger.Logger
	metrics  *metrics.Metrics
}

func NewImporter(carTypes repository.CarTypeRepository, cache CacheInvalidator, log logger.Logger, m *metrics.Metrics) *Importer {
	return &Importer{carTypes: carTypes, cache: cache, log: log, metrics: m}
}

// ImportRates upserts car types by exact name from the first sheet of an
// .xlsx workbook. The first row is a header. Rows saved before a
// repository failure stay saved; the partial result is returned with the error.
func (i *Importer) ImportRates(ctx context.Context, r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", domain.ErrBadInput, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrBadInput, sheet, err)
	}

	res := &Result{}
	defer func() {
		i.metrics.ObserveImport("inserted", res.Inserted)
		i.metrics.ObserveImport("updated", res.Updated)
		i.metrics.ObserveImport("skipped", res.Skipped)
		if res.Inserted+res.Updated > 0 && i.cache != nil {
			i.cache.InvalidateCarTypes(ctx)
		}
	}()

	for n, row := range rows {
		if n == 0 {
			continue
		}
		name := cell(row, colName)
		// blank names would create car types nobody can select
		if strings.TrimSpace(name) == "" {
			res.Skipped++
			continue
		}

		ct, err := i.carTypes.GetByName(ctx, name)
		isNew := errors.Is(err, domain.ErrNotFound)
		if err != nil && !isNew {
			return res, fmt.Errorf("row %d: look up %q: %w", n+1, name, err)
		}
		if isNew {
			ct = &domain.CarType{Name: name}
		}

		ct.DailyRate = amount(cell(row, colDaily))
		ct.WeeklyRate = amount(cell(row, colWeekly))
		ct.MonthlyRate = amount(cell(row, colMonthly))
		if img := cell(row, colImage); img != "" {
			ct.ImagePath = img
		}

		if err := i.carTypes.Save(ctx, ct); err != nil {
			return res, fmt.Errorf("row %d: save %q: %w", n+1, name, err)
		}
		if isNew {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	i.log.Info("rate import finished", "inserted", res.Inserted, "updated", res.Updated, "skipped", res.Skipped)
	return res, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// amount parses a numeric cell. Anything unparseable counts as zero.
func amount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

var _ ImportUseCase = (*Importer)(nil)

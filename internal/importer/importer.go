package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"productsmgmt/internal/domain"
	"productsmgmt/internal/logging"
	productsvc "productsmgmt/internal/service/product"
)

// ProductCreator is the catalog operation rows are fed into.
type ProductCreator interface {
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
}

// Result summarizes one import run.
type Result struct {
	Created    int
	Duplicates int
	Rejected   int
}

// CSVImporter reads product rows with the columns code, name, priceInBase
// and available, and creates each one through the catalog service.
type CSVImporter struct {
	reader  *csv.Reader
	creator ProductCreator
	logger  *logrus.Logger
}

func NewCSVImporter(r io.Reader, creator ProductCreator, logger *logrus.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:  csvr,
		creator: creator,
		logger:  logging.OrDiscard(logger),
	}
}

// Run creates a product per row. Invalid rows and duplicate codes are
// counted and skipped; any other failure stops the import.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range []string{"code", "name", "priceInBase"} {
		if _, ok := index[col]; !ok {
			return res, fmt.Errorf("missing required column %q", col)
		}
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)
		if blank(record) {
			continue
		}

		in, err := parseRow(record, index)
		if err != nil {
			res.Rejected++
			i.logger.WithField("line", line).Warnf("importer: %v", err)
			continue
		}

		p, err := i.creator.Create(ctx, in)
		switch {
		case err == nil:
			res.Created++
			i.logger.WithFields(logrus.Fields{"line": line, "code": p.Code, "id": p.ID}).Info("importer: created")
		case errors.Is(err, domain.ErrDuplicateCode):
			res.Duplicates++
			i.logger.WithFields(logrus.Fields{"line": line, "code": in.Code}).Info("importer: code exists, skipped")
		case errors.Is(err, domain.ErrInvalidInput):
			res.Rejected++
			i.logger.WithField("line", line).Warnf("importer: %v", err)
		default:
			return res, fmt.Errorf("create product on line %d: %w", line, err)
		}
	}
	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (productsvc.CreateInput, error) {
	in := productsvc.CreateInput{
		Code: pick(record, index, "code"),
		Name: pick(record, index, "name"),
	}

	rawPrice := pick(record, index, "priceInBase")
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return in, fmt.Errorf("invalid priceInBase %q for code %q", rawPrice, in.Code)
	}
	in.PriceInBase = price

	if rawAvail := pick(record, index, "available"); rawAvail != "" {
		avail, err := strconv.ParseBool(rawAvail)
		if err != nil {
			return in, fmt.Errorf("invalid available %q for code %q", rawAvail, in.Code)
		}
		in.Available = avail
	}
	return in, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

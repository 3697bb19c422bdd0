package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"electrostore/internal/domain"
)

type ProductWriter interface {
	Create(ctx context.Context, p domain.Product) error
}

// CSVImporter reads catalog CSV exports and registers the products.
// Expected header: model,category,quantity,sellingPrice,details,arrivalDate.
type CSVImporter struct {
	reader *csv.Reader
	repo   ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, repo: repo}
}

// Summary reports the outcome of one import run.
type Summary struct {
	Imported int
	Skipped  int
}

// Run imports every row, skipping duplicates and reporting malformed
// rows with their line number.
func (i *CSVImporter) Run(ctx context.Context) (Summary, error) {
	header, err := i.reader.Read()
	if err != nil {
		return Summary{}, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for idx, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	for _, required := range []string{"model", "category", "quantity", "sellingprice"} {
		if _, ok := cols[required]; !ok {
			return Summary{}, fmt.Errorf("missing column %q", required)
		}
	}

	var sum Summary
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		p, err := parseRow(record, cols)
		if err != nil {
			return sum, fmt.Errorf("line %d: %w", line, err)
		}

		err = i.repo.Create(ctx, p)
		if errors.Is(err, domain.ErrAlreadyExists) {
			sum.Skipped++
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("line %d: insert %s: %w", line, p.Model, err)
		}
		sum.Imported++
	}
	return sum, nil
}

func parseRow(record []string, cols map[string]int) (domain.Product, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	model := field("model")
	if model == "" {
		return domain.Product{}, errors.New("empty model")
	}
	category := domain.Category(field("category"))
	if !category.Valid() {
		return domain.Product{}, fmt.Errorf("unknown category %q", field("category"))
	}
	quantity, err := strconv.Atoi(field("quantity"))
	if err != nil || quantity < 0 {
		return domain.Product{}, fmt.Errorf("bad quantity %q", field("quantity"))
	}
	price, err := strconv.ParseFloat(field("sellingprice"), 64)
	if err != nil || price <= 0 {
		return domain.Product{}, fmt.Errorf("bad selling price %q", field("sellingprice"))
	}

	var arrival *time.Time
	if raw := field("arrivaldate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.Product{}, fmt.Errorf("bad arrival date %q", raw)
		}
		arrival = &t
	}

	return domain.Product{
		Model:        model,
		Category:     category,
		Quantity:     quantity,
		SellingPrice: price,
		Details:      field("details"),
		ArrivalDate:  arrival,
	}, nil
}

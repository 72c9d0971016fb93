package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	pkgerrors "github.com/asachdeva-dev/shopfront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// ImportResult summarizes a CSV catalog import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type csvRow struct {
	Name        string
	Price       decimal.Decimal
	Quantity    int
	Unit        string
	Category    string
	Description string
	ImageURL    string
}

// parseCatalogCSV reads rows with the header
// name,price,quantity,unit,category,description,image_url. Bad rows are
// collected, not fatal, so one typo does not sink a whole upload.
func parseCatalogCSV(r io.Reader) ([]csvRow, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "csv is empty")
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading csv header")
	}

	idx := map[string]int{}
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"name", "price", "quantity"} {
		if _, ok := idx[required]; !ok {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("csv header missing %q column", required))
		}
	}

	field := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	var rowErrs []string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		name := field(record, "name")
		if name == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("line %d: name is required", line))
			continue
		}

		price, err := decimal.NewFromString(field(record, "price"))
		if err != nil || price.IsNegative() {
			rowErrs = append(rowErrs, fmt.Sprintf("line %d: invalid price %q", line, field(record, "price")))
			continue
		}

		quantity, err := strconv.Atoi(field(record, "quantity"))
		if err != nil || quantity < 0 {
			rowErrs = append(rowErrs, fmt.Sprintf("line %d: invalid quantity %q", line, field(record, "quantity")))
			continue
		}

		rows = append(rows, csvRow{
			Name:        name,
			Price:       price,
			Quantity:    quantity,
			Unit:        field(record, "unit"),
			Category:    field(record, "category"),
			Description: field(record, "description"),
			ImageURL:    field(record, "image_url"),
		})
	}

	return rows, rowErrs, nil
}

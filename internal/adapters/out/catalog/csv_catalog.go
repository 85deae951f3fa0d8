// Package catalog reads nominal stock from the CSV export maintained by
// catalog ingestion. Files ending in .gz are decompressed on the fly.
package catalog

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"sync"

	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
)

var requiredColumns = []string{"product", "unit", "quantity"}

// CSVCatalog keeps the last successfully parsed snapshot in memory.
type CSVCatalog struct {
	path string

	mu    sync.RWMutex
	stock map[hold.StockKey]decimal.Decimal
}

var _ ports.CatalogReader = (*CSVCatalog)(nil)

// NewCSVCatalog loads path once. The file must exist and parse.
func NewCSVCatalog(ctx context.Context, path string) (*CSVCatalog, error) {
	c := &CSVCatalog{path: path}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Nominal returns errs.ObjectNotFoundError for items the catalog does not list.
func (c *CSVCatalog) Nominal(_ context.Context, key hold.StockKey) (decimal.Decimal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	qty, ok := c.stock[key]
	if !ok {
		return decimal.Zero, errs.NewObjectNotFoundError("catalogItem", key.String())
	}
	return qty, nil
}

// Len reports how many items the current snapshot holds.
func (c *CSVCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stock)
}

// Reload re-reads the file. On failure the previous snapshot stays in place.
func (c *CSVCatalog) Reload(ctx context.Context) error {
	stock, err := readFile(ctx, c.path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.stock = stock
	c.mu.Unlock()
	return nil
}

func readFile(ctx context.Context, path string) (map[hold.StockKey]decimal.Decimal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, gzErr := pgzip.NewReader(f)
		if gzErr != nil {
			return nil, errors.Wrapf(gzErr, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	stock, err := Parse(ctx, r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return stock, nil
}

// Parse reads a header row naming product, unit and quantity (in any order,
// extra columns ignored) followed by one row per stocked item.
func Parse(ctx context.Context, r io.Reader) (map[hold.StockKey]decimal.Decimal, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	stock := make(map[hold.StockKey]decimal.Decimal)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, errors.Wrap(readErr, "read record")
		}

		line, _ := reader.FieldPos(0)
		key, qty, rowErr := parseRecord(record, index)
		if rowErr != nil {
			return nil, errors.Wrapf(rowErr, "line %d", line)
		}
		if _, dup := stock[key]; dup {
			return nil, errors.Errorf("line %d: duplicate item %s", line, key)
		}
		stock[key] = qty
	}

	return stock, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, errors.Errorf("header is missing column %q", col)
		}
	}
	return index, nil
}

func parseRecord(record []string, index map[string]int) (hold.StockKey, decimal.Decimal, error) {
	field := func(col string) string {
		if i := index[col]; i < len(record) {
			return record[i]
		}
		return ""
	}

	key, err := hold.NewStockKey(field("product"), field("unit"))
	if err != nil {
		return hold.StockKey{}, decimal.Zero, err
	}

	qty, err := decimal.NewFromString(strings.TrimSpace(field("quantity")))
	if err != nil {
		return hold.StockKey{}, decimal.Zero, errors.Wrapf(err, "quantity of %s", key)
	}
	if qty.IsNegative() {
		return hold.StockKey{}, decimal.Zero, errors.Errorf("quantity of %s is negative", key)
	}
	return key, qty, nil
}

package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/inventory/internal/csv"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/google/uuid"
)

// ErrSeedMissing is returned by ImportFile when the seed file does not exist.
var ErrSeedMissing = errors.New("seed file not found")

// firstDataLine is the CSV line number of the first record (line 1 is the header).
const firstDataLine = 2

// Importer applies batches of seed records to a Store.
type Importer struct {
	store Store
}

// NewImporter creates an Importer writing to store.
func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// ImportFile reads the seed file at path and applies it with ImportBatch.
func (im *Importer) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	var records []RawRecord
	if err := csv.ReadFile(path, SeedColumns, &records); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ImportResult{}, fmt.Errorf("%w: %s", ErrSeedMissing, path)
		}
		return ImportResult{}, fmt.Errorf("read seed file %s: %w", filepath.Base(path), err)
	}

	result, err := im.ImportBatch(ctx, records)
	result.FileName = filepath.Base(path)
	return result, err
}

// ImportBatch decodes every record, then upserts them in order.
//
// Decoding is all-or-nothing: the first malformed record aborts the batch
// with a FormatError before anything is written. Writes are applied one
// record at a time, so a persistence failure leaves earlier records stored.
// When a name repeats, the later record wins.
func (im *Importer) ImportBatch(ctx context.Context, records []RawRecord) (ImportResult, error) {
	result := ImportResult{ID: uuid.New().String()}
	ctx = logging.WithOperation(ctx, result.ID)
	logger := logging.FromContext(ctx)
	start := time.Now()

	inputs, err := DecodeRecords(records)
	if err != nil {
		logger.Warn("import rejected", "records", len(records), "error", err)
		return result, err
	}

	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("import cancelled at line %d: %w", i+firstDataLine, err)
		}

		_, created, err := im.store.Upsert(ctx, in)
		if err != nil {
			logger.Error("import write failed", "line", i+firstDataLine, "name", in.Name, "error", err)
			result.Duration = time.Since(start)
			return result, fmt.Errorf("line %d: %w", i+firstDataLine, err)
		}

		result.Applied++
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	result.Duration = time.Since(start)
	logger.Info("import complete",
		"applied", result.Applied,
		"created", result.Created,
		"updated", result.Updated,
		"duration", result.Duration,
	)
	return result, nil
}

// DecodeRecords converts raw seed records into store inputs, failing on the
// first malformed record.
func DecodeRecords(records []RawRecord) ([]ProductInput, error) {
	inputs := make([]ProductInput, 0, len(records))

	for i, rec := range records {
		line := i + firstDataLine

		in, err := decodeRecord(rec)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Line = line
			}
			return nil, err
		}
		inputs = append(inputs, in)
	}

	return inputs, nil
}

func decodeRecord(rec RawRecord) (ProductInput, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return ProductInput{}, &FormatError{Field: "product_name", Value: rec.Name, Reason: "empty name"}
	}

	quantity, err := ParseQuantity(rec.Quantity)
	if err != nil {
		return ProductInput{}, err
	}

	price, err := ParsePrice(rec.Price)
	if err != nil {
		return ProductInput{}, err
	}

	updated, err := ParseDate(rec.DateUpdated)
	if err != nil {
		return ProductInput{}, err
	}

	return ProductInput{
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		UpdatedAt: updated,
	}, nil
}

package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExportAll(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	stamp := time.Date(2023, 1, 15, 9, 30, 0, 0, time.UTC)
	store.Upsert(ctx, ProductInput{Name: "Widget A", Quantity: 10, Price: 500, UpdatedAt: stamp})
	store.Upsert(ctx, ProductInput{Name: "Gadget", Quantity: 0, Price: 1999, UpdatedAt: stamp})

	records, err := NewExporter(store).ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	want := BackupRecord{ID: 1, Name: "Widget A", Quantity: 10, Price: "5.00", DateUpdated: FormatTimestamp(stamp)}
	if records[0] != want {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}
	if records[1].ID != 2 || records[1].Price != "19.99" {
		t.Errorf("records[1] = %+v, want id 2 price 19.99", records[1])
	}
}

func TestExportAll_ListError(t *testing.T) {
	store := newFakeStore()
	store.listErr = Persistence("list", errors.New("io error"))

	_, err := NewExporter(store).ExportAll(context.Background())
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("ExportAll() error = %v, want ErrPersistence", err)
	}
}

func TestWriteBackup(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	stamp := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	store.Upsert(ctx, ProductInput{Name: "Bread, wholemeal", Quantity: 12, Price: 319, UpdatedAt: stamp})

	path := filepath.Join(t.TempDir(), "Inventory_Backup.csv")
	result, err := NewExporter(store).WriteBackup(ctx, path)
	if err != nil {
		t.Fatalf("WriteBackup() error: %v", err)
	}
	if result.Records != 1 || result.Path != path || result.ID == "" {
		t.Errorf("result = %+v", result)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("backup has %d lines, want 2:\n%s", len(lines), data)
	}
	if lines[0] != "product_id,product_name,product_quantity,product_price,date_updated" {
		t.Errorf("header = %q", lines[0])
	}
	wantRow := `1,"Bread, wholemeal",12,3.19,` + FormatTimestamp(stamp)
	if lines[1] != wantRow {
		t.Errorf("row = %q, want %q", lines[1], wantRow)
	}
}

func TestWriteBackup_EmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.csv")

	result, err := NewExporter(newFakeStore()).WriteBackup(context.Background(), path)
	if err != nil {
		t.Fatalf("WriteBackup() error: %v", err)
	}
	if result.Records != 0 {
		t.Errorf("Records = %d, want 0", result.Records)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "product_id,product_name,product_quantity,product_price,date_updated" {
		t.Errorf("backup = %q, want header only", got)
	}
}

func TestWriteBackup_FailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.csv")
	if err := os.WriteFile(path, []byte("previous\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := newFakeStore()
	store.listErr = Persistence("list", errors.New("io error"))
	if _, err := NewExporter(store).WriteBackup(context.Background(), path); err == nil {
		t.Fatal("WriteBackup() expected error")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "previous\n" {
		t.Errorf("backup = %q, want previous content", data)
	}
}

func TestExportAll_SeedDateSurvivesTimeZone(t *testing.T) {
	setLocal(t, "America/New_York")
	store := newFakeStore()
	ctx := context.Background()

	if _, err := NewImporter(store).ImportBatch(ctx, []RawRecord{
		{Name: "Widget A", Quantity: "10", Price: "$5.00", DateUpdated: "01/15/2023"},
	}); err != nil {
		t.Fatalf("ImportBatch() error: %v", err)
	}

	records, err := NewExporter(store).ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll() error: %v", err)
	}
	if got := records[0].DateUpdated; !strings.HasPrefix(got, "2023-01-15") {
		t.Errorf("DateUpdated = %q, want 2023-01-15 prefix", got)
	}
}

package core

import (
	"context"
	"fmt"
	"testing"
)

// ============================================================================
// Conversion Function Benchmarks
// ============================================================================

// BenchmarkParsePrice benchmarks seed price parsing.
// This runs once per seed row.
func BenchmarkParsePrice(b *testing.B) {
	testCases := []string{
		"3",
		"$3.19",
		"  12.50  ", // Whitespace
		"$92233720368547758.07",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParsePrice(tc)
		}
	}
}

// BenchmarkPriceFromFloat benchmarks interactive price rounding.
func BenchmarkPriceFromFloat(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PriceFromFloat(12.555)
	}
}

// BenchmarkParseDate benchmarks seed date parsing.
func BenchmarkParseDate(b *testing.B) {
	testCases := []string{"01/15/2023", "1/5/2024", "12/31/1999"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseDate(tc)
		}
	}
}

// ============================================================================
// Import Benchmarks
// ============================================================================

func benchRecords(n int) []RawRecord {
	records := make([]RawRecord, n)
	for i := range records {
		records[i] = RawRecord{
			Name:        fmt.Sprintf("Product %d", i%500), // repeats exercise updates
			Quantity:    fmt.Sprint(i),
			Price:       "$4.99",
			DateUpdated: "01/15/2023",
		}
	}
	return records
}

// BenchmarkDecodeRecords benchmarks the decode phase of an import.
func BenchmarkDecodeRecords(b *testing.B) {
	records := benchRecords(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeRecords(records); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkImportBatch benchmarks a full import into an in-memory store.
func BenchmarkImportBatch(b *testing.B) {
	records := benchRecords(1000)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewImporter(newFakeStore()).ImportBatch(ctx, records); err != nil {
			b.Fatal(err)
		}
	}
}

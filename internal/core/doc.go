// Package core provides the business logic for the inventory manager.
//
// This package contains all domain logic independent of any UI or storage
// backend. It can be driven by the terminal session, CLI tools, or tests
// without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Store: The durable keyed collection of [Product] records. Backends live
//     under internal/store and share one conformance suite.
//   - Importer: Decodes a seed CSV in full, then upserts every record in file
//     order. A bad record aborts the import before anything is written.
//   - Exporter: Dumps the store to a backup CSV that replaces the previous
//     backup atomically.
//   - Service: The entry point the interactive session drives.
//
// # Money and Dates
//
// Prices are held as int64 minor units. [ParsePrice] reads the seed format
// ("$3.19", "3.19", "3"), [FormatPrice] writes the backup format ("3.19") and
// [DisplayPrice] renders for the terminal ("$3.19"). Seed dates use
// [DateLayout] and mean local midnight of that day; stored timestamps are UTC
// and are rendered in local time.
//
// # Import Flow
//
//  1. Client calls [Importer.ImportFile] with the seed path
//  2. The file is decoded with BOM stripping and UTF-8 sanitization
//  3. Every row is converted with [DecodeRecords]; the first failure aborts
//  4. Records are upserted in order, so the last row for a name wins
//
// # Error Handling
//
// Store and import failures are typed: [FormatError], [DuplicateKeyError],
// [NotFoundError] and [PersistenceError], matched with errors.Is against
// [ErrFormat], [ErrDuplicateKey], [ErrNotFound] and [ErrPersistence].
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - VAL001-VAL005: Validation errors (dates, prices, quantities, columns)
//   - PRD001-PRD002: Product errors (not found, duplicate)
//   - DB001-DB003: Store errors (timeouts, connections, persistence)
//   - FILE001-FILE003: File errors (format, empty, permissions)
package core

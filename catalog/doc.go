// Package catalog loads the read-only item catalogs every game draws from.
//
// The catalog package implements:
//   - Word list loading with category metadata (label, color)
//   - Song catalog loading from CSV, grouped by chart origin
//   - Card deck loading (taboo cards, statements, estimation questions,
//     person lists, dilemmas)
//   - Case- and diacritic-insensitive normalization used for dedup keys
//   - QR code generation for songs missing an image on disk
//
// All loaders fail fast with an explicit error when a backing file is
// missing or malformed; the server refuses to start on partial data.
// After Load returns, the catalog is never mutated and is safe for
// concurrent reads.
package catalog

// Package snapshot persists raw extraction results.
//
// Each fetch unit produces one JSON file named {source_id}_{extracted_at}.json
// holding an envelope with extraction metadata and the normalized payload.
// Files are written once and never modified.
package snapshot

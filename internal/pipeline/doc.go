// Package pipeline runs one extract-normalize-load pass.
//
// A Variant describes what is fetched and how its payload is shaped; the
// Pipeline is the same for every variant:
//
//	units -> fetch (rate-limited) -> normalize -> raw snapshot files
//	raw snapshot files -> table -> processed CSV
//
// Units are processed sequentially with a fixed pause between requests.
// Any error aborts the run; no processed file is written for a failed run.
package pipeline

// Package normalize maps raw upstream JSON into records keyed by the fixed
// internal column names.
//
// Three payload shapes are supported:
//   - object:  one ticker object becomes one record via a rename table
//   - records: an array of objects, each passed through as a record
//   - tuples:  an array of positional kline tuples, decoded by position
//
// Columns with no upstream equivalent are present with a nil value.
package normalize

// Package table turns raw snapshots into a fixed-schema table and
// reads and writes that table as CSV.
//
// Column order is fixed per variant. Columns absent from a record are null.
// Row order follows snapshot order, then record order within each snapshot.
package table
